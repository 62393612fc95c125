package model

import (
	"bimtrack/pkg/constants"
	"bimtrack/pkg/hm"
)

// Row is one editable line of a day's timesheet: the reconciled current
// value of a (date, subtask) key, or a blank placeholder. Rows are staged
// state; nothing persisted changes until a commit appends new entries.
type Row struct {
	RowID      string `json:"row_id"`
	EmployeeID string `json:"employee_id"`
	AssignDate string `json:"assign_date"`
	SubtaskID  string `json:"subtask_id"`

	Normal   hm.HM                 `json:"normal_working_hours"`
	OT       hm.HM                 `json:"ot_working_hours"`
	Progress int                   `json:"progress"`
	Note     string                `json:"note,omitempty"`
	Status   constants.EntryStatus `json:"status"`
	Files    []FileMeta            `json:"files,omitempty"`

	// Denormalized display metadata
	Project     string `json:"project,omitempty"`
	TaskName    string `json:"task_name,omitempty"`
	SubTaskName string `json:"sub_task_name,omitempty"`
	Item        string `json:"item,omitempty"`

	// RelateDrawing is the composed display label of the referenced drawing,
	// "(abbr - taskName - subTaskName - item)" with empty parts skipped.
	RelateDrawing string `json:"relate_drawing,omitempty"`

	// Leave marks a non-work row (vacation, meeting); leave rows carry no
	// overtime and no progress.
	Leave bool `json:"leave,omitempty"`

	// IsExisting marks a row backed by persisted history. Deleting such a
	// row stages a tombstone instead of just dropping it from the view.
	IsExisting bool `json:"is_existing,omitempty"`

	// Advisory carries a bound-violation note attached during editing.
	// Advisories never block saving.
	Advisory string `json:"advisory,omitempty"`
}

// ProgressBounds is the monotonicity window for a (subtask, date) edit:
// Min comes from the most recent entry on an earlier date, Max from the
// earliest entry on a later date.
type ProgressBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
