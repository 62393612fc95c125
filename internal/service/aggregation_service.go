package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bimtrack/internal/aggregate"
	"bimtrack/internal/model"
	"bimtrack/pkg/logger"
	queue "bimtrack/pkg/queue/asynq"
	"bimtrack/pkg/store/mysql"

	"github.com/hibiken/asynq"
)

// SubtaskEntryLister reads a subtask's full entry history
type SubtaskEntryLister interface {
	ListBySubtask(ctx context.Context, subtaskID string) ([]*mysql.ReportEntry, error)
}

// SubtaskStore is the slice of the subtask repository the cascade needs
type SubtaskStore interface {
	Get(ctx context.Context, subtaskID string) (*mysql.Subtask, error)
	ListByTask(ctx context.Context, taskID string) ([]*mysql.Subtask, error)
	UpdateFields(ctx context.Context, subtaskID string, updates map[string]interface{}) error
}

// TaskStore is the slice of the task repository the cascade needs
type TaskStore interface {
	Get(ctx context.Context, taskID string) (*mysql.Task, error)
	UpdateFields(ctx context.Context, taskID string, updates map[string]interface{}) error
}

// TxRunner runs a function inside one database transaction
type TxRunner interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubtaskInvalidator drops a subtask from the reference cache
type SubtaskInvalidator interface {
	InvalidateSubtask(ctx context.Context, subtaskID string)
}

// TaskTriggerEnqueuer chains the task-level recompute after a subtask one
type TaskTriggerEnqueuer interface {
	EnqueueTaskTrigger(ctx context.Context, taskID string) error
}

// AggregationService runs the two-level aggregation cascade. Both triggers
// recompute in full from source data, so duplicate and out-of-order
// deliveries converge to the same stored aggregates.
type AggregationService struct {
	entries  SubtaskEntryLister
	subtasks SubtaskStore
	tasks    TaskStore
	tx       TxRunner
	cache    SubtaskInvalidator
	queue    TaskTriggerEnqueuer

	now func() time.Time
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(entries SubtaskEntryLister, subtasks SubtaskStore, tasks TaskStore, tx TxRunner, cache SubtaskInvalidator, queue TaskTriggerEnqueuer) *AggregationService {
	return &AggregationService{
		entries:  entries,
		subtasks: subtasks,
		tasks:    tasks,
		tx:       tx,
		cache:    cache,
		queue:    queue,
		now:      time.Now,
	}
}

// HandleSubtaskTrigger processes one subtask recompute off the queue and
// chains the parent task recompute.
func (s *AggregationService) HandleSubtaskTrigger(ctx context.Context, task *asynq.Task) error {
	var payload queue.SubtaskTriggerPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal subtask trigger: %w", err)
	}

	taskID, err := s.RecomputeSubtask(ctx, payload.SubtaskID)
	if err != nil {
		return err
	}
	if taskID == "" {
		taskID = payload.TaskID
	}
	if taskID == "" {
		return nil
	}

	if err := s.queue.EnqueueTaskTrigger(ctx, taskID); err != nil {
		return fmt.Errorf("failed to chain task trigger for %s: %w", taskID, err)
	}
	return nil
}

// HandleTaskTrigger processes one task recompute off the queue
func (s *AggregationService) HandleTaskTrigger(ctx context.Context, task *asynq.Task) error {
	var payload queue.TaskTriggerPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task trigger: %w", err)
	}
	return s.RecomputeTask(ctx, payload.TaskID)
}

// RecomputeSubtask rebuilds one subtask's aggregate block from its entire
// entry history and overwrites the stored block. Returns the parent task ID
// for chaining. A subtask that no longer exists drops the trigger.
func (s *AggregationService) RecomputeSubtask(ctx context.Context, subtaskID string) (string, error) {
	row, err := s.subtasks.Get(ctx, subtaskID)
	if err != nil {
		return "", err
	}
	if row == nil {
		logger.WarnCtx(ctx, "subtask trigger dropped, subtask no longer exists, subtask_id: %s", subtaskID)
		return "", nil
	}

	entryRows, err := s.entries.ListBySubtask(ctx, subtaskID)
	if err != nil {
		return "", err
	}

	agg := aggregate.SubtaskRollup(mysql.ToEntryDomainList(entryRows), row.Scale)
	if err := s.subtasks.UpdateFields(ctx, subtaskID, mysql.SubtaskAggregateFields(agg, s.now())); err != nil {
		return "", fmt.Errorf("failed to store subtask aggregate %s: %w", subtaskID, err)
	}
	s.cache.InvalidateSubtask(ctx, subtaskID)

	logger.InfoCtx(ctx, "subtask aggregate recomputed, subtask_id: %s, entries: %d, progress: %d",
		subtaskID, len(entryRows), agg.Progress)
	return row.TaskID, nil
}

// RecomputeTask rebuilds one task's aggregate block from its full sibling
// subtask set and overwrites the stored block. A task that no longer exists
// drops the trigger.
func (s *AggregationService) RecomputeTask(ctx context.Context, taskID string) error {
	row, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if row == nil {
		logger.WarnCtx(ctx, "task trigger dropped, task no longer exists, task_id: %s", taskID)
		return nil
	}

	siblings, err := s.subtasks.ListByTask(ctx, taskID)
	if err != nil {
		return err
	}

	agg := aggregate.TaskRollup(mysql.ToSubtaskDomainList(siblings))
	if err := s.tasks.UpdateFields(ctx, taskID, mysql.TaskAggregateFields(agg, s.now())); err != nil {
		return fmt.Errorf("failed to store task aggregate %s: %w", taskID, err)
	}

	logger.InfoCtx(ctx, "task aggregate recomputed, task_id: %s, subtasks: %d, progress: %.1f",
		taskID, agg.SubtaskCount, agg.Progress)
	return nil
}

// Reaggregate resyncs both cascade levels for one subtask synchronously.
// The admin repair path: both aggregate blocks land in one transaction.
func (s *AggregationService) Reaggregate(ctx context.Context, subtaskID string) error {
	return s.tx.ExecTx(ctx, func(ctx context.Context) error {
		taskID, err := s.RecomputeSubtask(ctx, subtaskID)
		if err != nil {
			return err
		}
		if taskID == "" {
			return model.NotFoundError("subtask", subtaskID)
		}
		return s.RecomputeTask(ctx, taskID)
	})
}
