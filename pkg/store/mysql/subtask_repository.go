package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SubtaskRepository handles subtask persistence in MySQL
type SubtaskRepository struct {
	ds *Datastore
}

// NewSubtaskRepository creates a new subtask repository
func NewSubtaskRepository(ds *Datastore) *SubtaskRepository {
	return &SubtaskRepository{ds: ds}
}

// Create creates a new subtask
func (r *SubtaskRepository) Create(ctx context.Context, subtask *Subtask) error {
	return r.ds.DB(ctx).Create(subtask).Error
}

// Get retrieves a subtask by ID
func (r *SubtaskRepository) Get(ctx context.Context, subtaskID string) (*Subtask, error) {
	var subtask Subtask
	err := r.ds.DB(ctx).Where("subtask_id = ?", subtaskID).First(&subtask).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}
	return &subtask, nil
}

// ListByTask retrieves all active subtasks under a parent task.
// Input for the task aggregate.
func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID string) ([]*Subtask, error) {
	var subtasks []*Subtask
	err := r.ds.DB(ctx).
		Where("task_id = ? AND status <> ?", taskID, "deleted").
		Order("subtask_id ASC").
		Find(&subtasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks for task %s: %w", taskID, err)
	}
	return subtasks, nil
}

// ListByAssignee retrieves active subtasks assigned to the given assignee
// name, plus the shared pool assigned to "all".
func (r *SubtaskRepository) ListByAssignee(ctx context.Context, assignee string) ([]*Subtask, error) {
	var subtasks []*Subtask
	err := r.ds.DB(ctx).
		Where("assignee IN (?, ?) AND status <> ?", assignee, "all", "deleted").
		Order("subtask_id ASC").
		Find(&subtasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks for assignee %s: %w", assignee, err)
	}
	return subtasks, nil
}

// UpdateFields updates specific fields of a subtask by subtask_id.
// The cascade uses this for full aggregate-block overwrites.
func (r *SubtaskRepository) UpdateFields(ctx context.Context, subtaskID string, updates map[string]interface{}) error {
	return r.ds.DB(ctx).Model(&Subtask{}).
		Where("subtask_id = ?", subtaskID).
		Updates(updates).Error
}

// SoftDelete marks a subtask deleted without removing the row
func (r *SubtaskRepository) SoftDelete(ctx context.Context, subtaskID string) error {
	return r.ds.DB(ctx).Model(&Subtask{}).
		Where("subtask_id = ?", subtaskID).
		Update("status", "deleted").Error
}
