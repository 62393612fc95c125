package service

import (
	"context"

	"bimtrack/internal/model"
	"bimtrack/pkg/constants"
	"bimtrack/pkg/logger"
	"bimtrack/pkg/store/mysql"

	"github.com/google/uuid"
)

// SubtaskService manages the authored side of subtasks and tasks. Aggregate
// blocks are never written here; changing the subtask set only hands the
// parent task to the cascade.
type SubtaskService struct {
	repo  *mysql.Repository
	refs  *ReferenceService
	queue TaskTriggerEnqueuer
}

// NewSubtaskService creates a new subtask service
func NewSubtaskService(repo *mysql.Repository, refs *ReferenceService, queue TaskTriggerEnqueuer) *SubtaskService {
	return &SubtaskService{repo: repo, refs: refs, queue: queue}
}

// CreateSubtaskRequest carries the authored fields of a new subtask
type CreateSubtaskRequest struct {
	TaskID      string `json:"task_id" binding:"required"`
	Project     string `json:"project"`
	TaskName    string `json:"task_name"`
	SubTaskName string `json:"sub_task_name" binding:"required"`
	Item        string `json:"item"`
	Category    string `json:"category"`
	Assignee    string `json:"assignee"`
	Scale       string `json:"scale"`
}

// CreateSubtask creates a subtask under an existing task. The workload
// constant comes from the scale; the rest of the aggregate block starts
// empty and stays owned by the cascade.
func (s *SubtaskService) CreateSubtask(ctx context.Context, req *CreateSubtaskRequest) (*model.Subtask, error) {
	task, err := s.repo.Task.Get(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, model.NotFoundError("task", req.TaskID)
	}

	wl := constants.WorkloadFromScale(req.Scale)
	row := &mysql.Subtask{
		SubtaskID:   uuid.New().String(),
		TaskID:      req.TaskID,
		Project:     req.Project,
		TaskName:    req.TaskName,
		SubTaskName: req.SubTaskName,
		Item:        req.Item,
		Category:    req.Category,
		Assignee:    req.Assignee,
		Scale:       req.Scale,
		Status:      "active",
		WlFromScale: wl,
		WlRemaining: wl,
	}
	if err := s.repo.Subtask.Create(ctx, row); err != nil {
		return nil, model.WriteError(err)
	}

	logger.InfoCtx(ctx, "subtask created, subtask_id: %s, task_id: %s", row.SubtaskID, req.TaskID)

	// The sibling set changed, so the task aggregate must follow
	if err := s.queue.EnqueueTaskTrigger(ctx, req.TaskID); err != nil {
		logger.ErrorCtx(ctx, "task trigger enqueue failed after create, task_id: %s, error: %v", req.TaskID, err)
	}
	return mysql.ToSubtaskDomain(row), nil
}

// GetSubtask retrieves one subtask through the reference cache
func (s *SubtaskService) GetSubtask(ctx context.Context, subtaskID string) (*model.Subtask, error) {
	return s.refs.GetSubtask(ctx, subtaskID)
}

// DeleteSubtask soft-deletes a subtask. The row and its entry history stay;
// the subtask just leaves the active sibling set, so the parent aggregate
// is recomputed without it.
func (s *SubtaskService) DeleteSubtask(ctx context.Context, subtaskID string) error {
	row, err := s.repo.Subtask.Get(ctx, subtaskID)
	if err != nil {
		return err
	}
	if row == nil {
		return model.NotFoundError("subtask", subtaskID)
	}

	if err := s.repo.Subtask.SoftDelete(ctx, subtaskID); err != nil {
		return model.WriteError(err)
	}
	s.refs.InvalidateSubtask(ctx, subtaskID)

	logger.InfoCtx(ctx, "subtask deleted, subtask_id: %s, task_id: %s", subtaskID, row.TaskID)

	if err := s.queue.EnqueueTaskTrigger(ctx, row.TaskID); err != nil {
		logger.ErrorCtx(ctx, "task trigger enqueue failed after delete, task_id: %s, error: %v", row.TaskID, err)
	}
	return nil
}

// GetTask retrieves one task with its aggregate block
func (s *SubtaskService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	row, err := s.repo.Task.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.NotFoundError("task", taskID)
	}
	return mysql.ToTaskDomain(row), nil
}

// ListTaskSubtasks retrieves the active subtasks under one task
func (s *SubtaskService) ListTaskSubtasks(ctx context.Context, taskID string) ([]*model.Subtask, error) {
	rows, err := s.repo.Subtask.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return mysql.ToSubtaskDomainList(rows), nil
}
