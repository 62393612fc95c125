package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bimtrack/pkg/config"
	"bimtrack/pkg/logger"

	"github.com/hibiken/asynq"
)

const (
	// TypeAggregateSubtask recomputes one subtask aggregate from its full
	// entry history (Trigger A).
	TypeAggregateSubtask = "aggregate:subtask"
	// TypeAggregateTask recomputes one task aggregate from its sibling
	// subtasks (Trigger B).
	TypeAggregateTask = "aggregate:task"
)

// SubtaskTriggerPayload carries the identity of a subtask whose entry
// history changed.
type SubtaskTriggerPayload struct {
	SubtaskID string `json:"subtask_id"`
	TaskID    string `json:"task_id"`
}

// TaskTriggerPayload carries the identity of a task whose subtask set
// changed.
type TaskTriggerPayload struct {
	TaskID string `json:"task_id"`
}

// Manager queue manager for aggregation triggers
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	mux := asynq.NewServeMux()

	return &Manager{
		client: client,
		server: server,
		mux:    mux,
	}, nil
}

// EnqueueSubtaskTrigger enqueues a subtask aggregate recompute.
// Duplicate deliveries are fine: the handler recomputes from source data, so
// re-running converges to the same aggregate.
func (m *Manager) EnqueueSubtaskTrigger(ctx context.Context, subtaskID, taskID string) error {
	payload, err := json.Marshal(SubtaskTriggerPayload{SubtaskID: subtaskID, TaskID: taskID})
	if err != nil {
		return fmt.Errorf("failed to marshal subtask trigger: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(config.GlobalConfig.Queue.MaxRetry),
	}

	info, err := m.client.EnqueueContext(ctx, asynq.NewTask(TypeAggregateSubtask, payload), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue subtask trigger: %w", err)
	}

	logger.DebugCtx(ctx, "subtask trigger enqueued, subtask_id: %s, queue: %s", subtaskID, info.Queue)
	return nil
}

// EnqueueTaskTrigger enqueues a task aggregate recompute
func (m *Manager) EnqueueTaskTrigger(ctx context.Context, taskID string) error {
	payload, err := json.Marshal(TaskTriggerPayload{TaskID: taskID})
	if err != nil {
		return fmt.Errorf("failed to marshal task trigger: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(config.GlobalConfig.Queue.MaxRetry),
	}

	info, err := m.client.EnqueueContext(ctx, asynq.NewTask(TypeAggregateTask, payload), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue task trigger: %w", err)
	}

	logger.DebugCtx(ctx, "task trigger enqueued, task_id: %s, queue: %s", taskID, info.Queue)
	return nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	return m.client.Close()
}
