package mysql

import (
	"context"
	"fmt"
	"time"
)

// EntryRepository handles report entry persistence in MySQL.
// The table is append-only: there is deliberately no update or delete here.
type EntryRepository struct {
	ds *Datastore
}

// NewEntryRepository creates a new report entry repository
func NewEntryRepository(ds *Datastore) *EntryRepository {
	return &EntryRepository{ds: ds}
}

// AppendBatch appends a batch of entries. Entries from one save event share
// a commit_id and logged_at; Seq is assigned by the database and preserves
// insertion order within the batch.
func (r *EntryRepository) AppendBatch(ctx context.Context, entries []*ReportEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.ds.DB(ctx).Create(entries).Error; err != nil {
		return fmt.Errorf("failed to append report entries: %w", err)
	}
	return nil
}

// ListByEmployee retrieves the full entry history for one employee across
// all dates and subtasks, in log order.
func (r *EntryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*ReportEntry, error) {
	var entries []*ReportEntry
	err := r.ds.DB(ctx).
		Where("employee_id = ?", employeeID).
		Order("logged_at ASC, seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for employee %s: %w", employeeID, err)
	}
	return entries, nil
}

// ListBySubtask retrieves the full entry history for one subtask across all
// employees and dates, in log order. Input for the subtask aggregate.
func (r *EntryRepository) ListBySubtask(ctx context.Context, subtaskID string) ([]*ReportEntry, error) {
	var entries []*ReportEntry
	err := r.ds.DB(ctx).
		Where("subtask_id = ?", subtaskID).
		Order("logged_at ASC, seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for subtask %s: %w", subtaskID, err)
	}
	return entries, nil
}

// ListByCommit retrieves the entries written by one save event.
func (r *EntryRepository) ListByCommit(ctx context.Context, commitID string) ([]*ReportEntry, error) {
	var entries []*ReportEntry
	err := r.ds.DB(ctx).
		Where("commit_id = ?", commitID).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for commit %s: %w", commitID, err)
	}
	return entries, nil
}

// SubtasksChangedSince returns the distinct subtask IDs with entries logged
// after the given instant. Used by the reaggregation sweep.
func (r *EntryRepository) SubtasksChangedSince(ctx context.Context, since time.Time) ([]string, error) {
	var ids []string
	err := r.ds.DB(ctx).
		Model(&ReportEntry{}).
		Where("logged_at > ?", since).
		Distinct("subtask_id").
		Pluck("subtask_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list changed subtasks: %w", err)
	}
	return ids, nil
}
