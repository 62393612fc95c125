package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bimtrack/internal/model"
	"bimtrack/pkg/constants"
	queue "bimtrack/pkg/queue/asynq"
	"bimtrack/pkg/store/mysql"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubtaskEntries struct {
	rows map[string][]*mysql.ReportEntry
}

func (f *fakeSubtaskEntries) ListBySubtask(ctx context.Context, subtaskID string) ([]*mysql.ReportEntry, error) {
	return f.rows[subtaskID], nil
}

type fakeSubtaskStore struct {
	subtasks map[string]*mysql.Subtask
	updates  map[string]map[string]interface{}
}

func (f *fakeSubtaskStore) Get(ctx context.Context, subtaskID string) (*mysql.Subtask, error) {
	return f.subtasks[subtaskID], nil
}

func (f *fakeSubtaskStore) ListByTask(ctx context.Context, taskID string) ([]*mysql.Subtask, error) {
	var out []*mysql.Subtask
	for _, s := range f.subtasks {
		if s.TaskID == taskID && s.Status != "deleted" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubtaskStore) UpdateFields(ctx context.Context, subtaskID string, updates map[string]interface{}) error {
	if f.updates == nil {
		f.updates = make(map[string]map[string]interface{})
	}
	f.updates[subtaskID] = updates
	return nil
}

type fakeTaskStore struct {
	tasks   map[string]*mysql.Task
	updates map[string]map[string]interface{}
}

func (f *fakeTaskStore) Get(ctx context.Context, taskID string) (*mysql.Task, error) {
	return f.tasks[taskID], nil
}

func (f *fakeTaskStore) UpdateFields(ctx context.Context, taskID string, updates map[string]interface{}) error {
	if f.updates == nil {
		f.updates = make(map[string]map[string]interface{})
	}
	f.updates[taskID] = updates
	return nil
}

type fakeTx struct{}

func (fakeTx) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) InvalidateSubtask(ctx context.Context, subtaskID string) {
	f.invalidated = append(f.invalidated, subtaskID)
}

type fakeTaskEnqueuer struct {
	taskTriggers []string
}

func (f *fakeTaskEnqueuer) EnqueueTaskTrigger(ctx context.Context, taskID string) error {
	f.taskTriggers = append(f.taskTriggers, taskID)
	return nil
}

func aggEntry(subtaskID, normal string, progress int, loggedAt time.Time, seq int64) *mysql.ReportEntry {
	return &mysql.ReportEntry{
		Seq:         seq,
		EntryID:     subtaskID + "-" + loggedAt.Format(time.RFC3339),
		EmployeeID:  "emp-1",
		SubtaskID:   subtaskID,
		TaskID:      "task-1",
		AssignDate:  loggedAt.Format(model.DateLayout),
		NormalHours: normal,
		OTHours:     "0:0",
		Progress:    progress,
		Status:      constants.StatusForProgress(progress).String(),
		LoggedAt:    loggedAt,
	}
}

func testAggregationService() (*AggregationService, *fakeSubtaskEntries, *fakeSubtaskStore, *fakeTaskStore, *fakeInvalidator, *fakeTaskEnqueuer) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := &fakeSubtaskEntries{rows: map[string][]*mysql.ReportEntry{
		"st-1": {
			aggEntry("st-1", "4:0", 50, base, 1),
			aggEntry("st-1", "3:30", 80, base.AddDate(0, 0, 1), 2),
		},
	}}
	subtasks := &fakeSubtaskStore{subtasks: map[string]*mysql.Subtask{
		"st-1": {SubtaskID: "st-1", TaskID: "task-1", Scale: "M", Status: "active"},
		"st-2": {SubtaskID: "st-2", TaskID: "task-1", Scale: "S", Status: "active", Progress: 100},
	}}
	tasks := &fakeTaskStore{tasks: map[string]*mysql.Task{
		"task-1": {TaskID: "task-1"},
	}}
	invalidator := &fakeInvalidator{}
	enqueuer := &fakeTaskEnqueuer{}

	svc := NewAggregationService(entries, subtasks, tasks, fakeTx{}, invalidator, enqueuer)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, entries, subtasks, tasks, invalidator, enqueuer
}

func TestRecomputeSubtask(t *testing.T) {
	svc, _, subtasks, _, invalidator, _ := testAggregationService()

	taskID, err := svc.RecomputeSubtask(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, "task-1", taskID)

	updates := subtasks.updates["st-1"]
	require.NotNil(t, updates)
	assert.InDelta(t, 7.5, updates["mh_od"].(float64), 1e-9)
	assert.Equal(t, 80, updates["progress"].(int))
	assert.InDelta(t, 1.0, updates["wl_remaining"].(float64), 1e-9)

	assert.Equal(t, []string{"st-1"}, invalidator.invalidated)
}

func TestRecomputeSubtask_MissingSubtaskDropsTrigger(t *testing.T) {
	svc, _, subtasks, _, _, _ := testAggregationService()

	taskID, err := svc.RecomputeSubtask(context.Background(), "st-gone")
	require.NoError(t, err)
	assert.Empty(t, taskID)
	assert.Empty(t, subtasks.updates)
}

func TestRecomputeSubtask_EmptyHistoryRestoresWorkload(t *testing.T) {
	svc, entries, subtasks, _, _, _ := testAggregationService()
	entries.rows["st-1"] = nil

	_, err := svc.RecomputeSubtask(context.Background(), "st-1")
	require.NoError(t, err)

	updates := subtasks.updates["st-1"]
	require.NotNil(t, updates)
	assert.Zero(t, updates["mh_od"].(float64))
	assert.Equal(t, 0, updates["progress"].(int))
	assert.InDelta(t, 5.0, updates["wl_remaining"].(float64), 1e-9)
	assert.Nil(t, updates["start_date"])
}

func TestRecomputeTask(t *testing.T) {
	svc, _, subtasks, tasks, _, _ := testAggregationService()
	subtasks.subtasks["st-1"].Progress = 80

	require.NoError(t, svc.RecomputeTask(context.Background(), "task-1"))

	updates := tasks.updates["task-1"]
	require.NotNil(t, updates)
	assert.Equal(t, 2, updates["subtask_count"].(int))
	assert.InDelta(t, 90.0, updates["progress"].(float64), 1e-9)
	assert.Nil(t, updates["end_date"])
}

func TestRecomputeTask_MissingTaskDropsTrigger(t *testing.T) {
	svc, _, _, tasks, _, _ := testAggregationService()

	require.NoError(t, svc.RecomputeTask(context.Background(), "task-gone"))
	assert.Empty(t, tasks.updates)
}

func TestHandleSubtaskTrigger_Chains(t *testing.T) {
	svc, _, _, _, _, enqueuer := testAggregationService()

	payload, err := json.Marshal(queue.SubtaskTriggerPayload{SubtaskID: "st-1", TaskID: "task-1"})
	require.NoError(t, err)

	err = svc.HandleSubtaskTrigger(context.Background(), asynq.NewTask(queue.TypeAggregateSubtask, payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"task-1"}, enqueuer.taskTriggers)
}

func TestHandleSubtaskTrigger_Idempotent(t *testing.T) {
	svc, _, subtasks, _, _, _ := testAggregationService()

	payload, err := json.Marshal(queue.SubtaskTriggerPayload{SubtaskID: "st-1", TaskID: "task-1"})
	require.NoError(t, err)
	task := asynq.NewTask(queue.TypeAggregateSubtask, payload)

	require.NoError(t, svc.HandleSubtaskTrigger(context.Background(), task))
	first := subtasks.updates["st-1"]

	// Duplicate delivery recomputes from the same source data
	require.NoError(t, svc.HandleSubtaskTrigger(context.Background(), task))
	assert.Equal(t, first, subtasks.updates["st-1"])
}

func TestHandleTaskTrigger(t *testing.T) {
	svc, _, _, tasks, _, _ := testAggregationService()

	payload, err := json.Marshal(queue.TaskTriggerPayload{TaskID: "task-1"})
	require.NoError(t, err)

	err = svc.HandleTaskTrigger(context.Background(), asynq.NewTask(queue.TypeAggregateTask, payload))
	require.NoError(t, err)
	assert.NotNil(t, tasks.updates["task-1"])
}

func TestReaggregate(t *testing.T) {
	svc, _, subtasks, tasks, _, _ := testAggregationService()

	require.NoError(t, svc.Reaggregate(context.Background(), "st-1"))
	assert.NotNil(t, subtasks.updates["st-1"])
	assert.NotNil(t, tasks.updates["task-1"])
}

func TestReaggregate_MissingSubtask(t *testing.T) {
	svc, _, _, _, _, _ := testAggregationService()

	err := svc.Reaggregate(context.Background(), "st-gone")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
