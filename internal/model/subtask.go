package model

import "time"

// Subtask domain model: reference fields authored through subtask
// management, aggregate block owned by the aggregation cascade.
type Subtask struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`

	Project     string `json:"project,omitempty"`
	TaskName    string `json:"task_name,omitempty"`
	SubTaskName string `json:"sub_task_name,omitempty"`
	Item        string `json:"item,omitempty"`
	Category    string `json:"category,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Scale       string `json:"scale,omitempty"` // S, M or L

	// RelateDrawing is the composed display label, filled on read paths
	// from the project reference. Never persisted.
	RelateDrawing string `json:"relate_drawing,omitempty"`

	Aggregate SubtaskAggregate `json:"aggregate"`
}

// SubtaskAggregate is derived, never independently authored. It is
// recomputed in full from the subtask's entire entry history on every write
// to that history.
type SubtaskAggregate struct {
	MhOD        float64    `json:"mh_od"`    // sum of normal hours across history
	MhOT        float64    `json:"mh_ot"`    // sum of OT hours across history
	Progress    int        `json:"progress"` // progress of the chronologically latest entry
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"` // latest entry at 100%, unset if none
	LastUpdate  *time.Time `json:"last_update,omitempty"`
	WlFromScale float64    `json:"wl_fromscale"`
	WlRemaining float64    `json:"wl_remaining"`
	Files       []FileMeta `json:"files,omitempty"` // attachments of the latest entry
}

// Task domain model with its derived aggregate block.
type Task struct {
	ID       string `json:"id"`
	Project  string `json:"project,omitempty"`
	TaskName string `json:"task_name,omitempty"`

	Aggregate TaskAggregate `json:"aggregate"`
}

// TaskAggregate is derived from the full set of sibling subtasks.
type TaskAggregate struct {
	SubtaskCount int        `json:"subtask_count"`
	Progress     float64    `json:"progress"` // arithmetic mean of subtask progresses
	EstWorkload  float64    `json:"est_workload"`
	TotalMH      float64    `json:"total_mh"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"` // only set when every subtask is at 100%
	LastUpdate   *time.Time `json:"last_update,omitempty"`
}
