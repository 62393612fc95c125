package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TaskRepository handles task persistence in MySQL
type TaskRepository struct {
	ds *Datastore
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(ds *Datastore) *TaskRepository {
	return &TaskRepository{ds: ds}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *Task) error {
	return r.ds.DB(ctx).Create(task).Error
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	err := r.ds.DB(ctx).Where("task_id = ?", taskID).First(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListByProject retrieves all tasks under a project
func (r *TaskRepository) ListByProject(ctx context.Context, project string) ([]*Task, error) {
	var tasks []*Task
	err := r.ds.DB(ctx).
		Where("project = ?", project).
		Order("task_id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for project %s: %w", project, err)
	}
	return tasks, nil
}

// UpdateFields updates specific fields of a task by task_id.
// The cascade uses this for full aggregate-block overwrites.
func (r *TaskRepository) UpdateFields(ctx context.Context, taskID string, updates map[string]interface{}) error {
	return r.ds.DB(ctx).Model(&Task{}).
		Where("task_id = ?", taskID).
		Updates(updates).Error
}
