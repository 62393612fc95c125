package model

import "time"

// Subtask MySQL model for the subtasks table.
//
// Reference fields are authored through subtask management; the aggregate
// block is derived and owned entirely by the aggregation cascade.
type Subtask struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SubtaskID string `gorm:"column:subtask_id;type:varchar(64);not null;uniqueIndex:idx_subtask_id_unique" json:"subtask_id"`
	TaskID    string `gorm:"column:task_id;type:varchar(64);not null;index:idx_task_id" json:"task_id"`

	Project     string `gorm:"column:project;type:varchar(255)" json:"project"`
	TaskName    string `gorm:"column:task_name;type:varchar(255)" json:"task_name"`
	SubTaskName string `gorm:"column:sub_task_name;type:varchar(255)" json:"sub_task_name"`
	Item        string `gorm:"column:item;type:varchar(255)" json:"item"`
	Category    string `gorm:"column:category;type:varchar(255)" json:"category"`
	Assignee    string `gorm:"column:assignee;type:varchar(255);index:idx_assignee" json:"assignee"`
	Scale       string `gorm:"column:scale;type:varchar(8)" json:"scale"`
	Status      string `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`

	// Aggregate block, recomputed by the cascade on every entry write
	MhOD        float64      `gorm:"column:mh_od;not null;default:0" json:"mh_od"`
	MhOT        float64      `gorm:"column:mh_ot;not null;default:0" json:"mh_ot"`
	Progress    int          `gorm:"column:progress;not null;default:0" json:"progress"`
	StartDate   *time.Time   `gorm:"column:start_date;type:datetime(3)" json:"start_date"`
	EndDate     *time.Time   `gorm:"column:end_date;type:datetime(3)" json:"end_date"`
	LastUpdate  *time.Time   `gorm:"column:last_update;type:datetime(3)" json:"last_update"`
	WlFromScale float64      `gorm:"column:wl_fromscale;not null;default:0" json:"wl_fromscale"`
	WlRemaining float64      `gorm:"column:wl_remaining;not null;default:0" json:"wl_remaining"`
	Files       FileMetaList `gorm:"column:files;type:json" json:"files,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Subtask
func (Subtask) TableName() string {
	return "subtasks"
}
