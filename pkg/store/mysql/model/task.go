package model

import "time"

// Task MySQL model for the tasks table.
// The aggregate block is derived from sibling subtasks by the cascade.
type Task struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID   string `gorm:"column:task_id;type:varchar(64);not null;uniqueIndex:idx_task_id_unique" json:"task_id"`
	Project  string `gorm:"column:project;type:varchar(255);index:idx_project" json:"project"`
	TaskName string `gorm:"column:task_name;type:varchar(255)" json:"task_name"`

	SubtaskCount int        `gorm:"column:subtask_count;not null;default:0" json:"subtask_count"`
	Progress     float64    `gorm:"column:progress;not null;default:0" json:"progress"`
	EstWorkload  float64    `gorm:"column:est_workload;not null;default:0" json:"est_workload"`
	TotalMH      float64    `gorm:"column:total_mh;not null;default:0" json:"total_mh"`
	StartDate    *time.Time `gorm:"column:start_date;type:datetime(3)" json:"start_date"`
	EndDate      *time.Time `gorm:"column:end_date;type:datetime(3)" json:"end_date"`
	LastUpdate   *time.Time `gorm:"column:last_update;type:datetime(3)" json:"last_update"`

	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
