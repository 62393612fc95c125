package model

import "time"

// ReportEntry MySQL model for the report_entries table.
//
// Rows are append-only: editing or deleting a day writes a new row with the
// same (employee_id, subtask_id, assign_date) key and a later logged_at.
// Seq is the insertion sequence and breaks logged_at ties.
type ReportEntry struct {
	Seq         int64        `gorm:"primaryKey;autoIncrement" json:"seq"`
	EntryID     string       `gorm:"column:entry_id;type:varchar(64);not null;uniqueIndex:idx_entry_id_unique" json:"entry_id"`
	CommitID    string       `gorm:"column:commit_id;type:varchar(64);not null;index:idx_commit_id" json:"commit_id"`
	EmployeeID  string       `gorm:"column:employee_id;type:varchar(64);not null;index:idx_employee_date,priority:1" json:"employee_id"`
	SubtaskID   string       `gorm:"column:subtask_id;type:varchar(64);not null;index:idx_subtask_id" json:"subtask_id"`
	TaskID      string       `gorm:"column:task_id;type:varchar(64);not null;index:idx_task_id" json:"task_id"`
	AssignDate  string       `gorm:"column:assign_date;type:varchar(10);not null;index:idx_employee_date,priority:2" json:"assign_date"`
	NormalHours string       `gorm:"column:normal_hours;type:varchar(8);not null;default:'0:0'" json:"normal_hours"`
	OTHours     string       `gorm:"column:ot_hours;type:varchar(8);not null;default:'0:0'" json:"ot_hours"`
	Progress    int          `gorm:"column:progress;not null;default:0" json:"progress"`
	Note        string       `gorm:"column:note;type:text" json:"note"`
	Status      string       `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Files       FileMetaList `gorm:"column:files;type:json" json:"files,omitempty"`

	// Denormalized display metadata, self-healed at commit time
	Project     string `gorm:"column:project;type:varchar(255)" json:"project"`
	TaskName    string `gorm:"column:task_name;type:varchar(255)" json:"task_name"`
	SubTaskName string `gorm:"column:sub_task_name;type:varchar(255)" json:"sub_task_name"`
	Item        string `gorm:"column:item;type:varchar(255)" json:"item"`

	LoggedAt time.Time `gorm:"column:logged_at;type:datetime(3);not null;index:idx_logged_at" json:"logged_at"`
}

// TableName specifies the table name for ReportEntry
func (ReportEntry) TableName() string {
	return "report_entries"
}

// Key returns the reduction key of the entry.
func (e *ReportEntry) Key() (assignDate, subtaskID string) {
	return e.AssignDate, e.SubtaskID
}

// Deleted reports whether the entry is a soft-delete tombstone.
func (e *ReportEntry) Deleted() bool {
	return e.Status == "deleted"
}

// After reports whether e was logged after other, with the insertion
// sequence breaking equal timestamps.
func (e *ReportEntry) After(other *ReportEntry) bool {
	if !e.LoggedAt.Equal(other.LoggedAt) {
		return e.LoggedAt.After(other.LoggedAt)
	}
	return e.Seq > other.Seq
}
