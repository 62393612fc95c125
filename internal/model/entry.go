package model

import (
	"time"

	"bimtrack/pkg/constants"
	"bimtrack/pkg/hm"
)

// DateLayout is the business-date format carried by assign_date.
const DateLayout = "2006-01-02"

// FileMeta attachment metadata carried by an entry
type FileMeta struct {
	FileName    string     `json:"file_name"`
	FileURL     string     `json:"file_url"`
	StoragePath string     `json:"storage_path"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
}

// Entry is one immutable timesheet record for an employee, business date and
// subtask. Entries are never mutated after creation: editing a day appends a
// new entry for the same (employee, subtask, assign date) key with a later
// LoggedAt, and deleting appends a tombstone.
type Entry struct {
	ID       string `json:"id"`
	Seq      int64  `json:"seq"`       // insertion sequence, breaks LoggedAt ties
	CommitID string `json:"commit_id"` // groups entries written by one save event

	EmployeeID string `json:"employee_id"`
	SubtaskID  string `json:"subtask_id"`
	TaskID     string `json:"task_id"`
	AssignDate string `json:"assign_date"` // business date, distinct from LoggedAt

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

	LoggedAt time.Time `json:"logged_at"` // server-assigned creation instant, the ordering key
}

// Deleted reports whether the entry is a soft-delete tombstone
func (e *Entry) Deleted() bool {
	return e.Status == constants.EntryStatusDeleted
}

// After reports whether e was logged after other. Equal timestamps are
// broken by the insertion sequence, so the reduction result never depends
// on iteration order.
func (e *Entry) After(other *Entry) bool {
	if !e.LoggedAt.Equal(other.LoggedAt) {
		return e.LoggedAt.After(other.LoggedAt)
	}
	return e.Seq > other.Seq
}
