package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChangedLister struct {
	changed []string
	err     error

	sinceSeen []time.Time
}

func (f *fakeChangedLister) SubtasksChangedSince(ctx context.Context, since time.Time) ([]string, error) {
	f.sinceSeen = append(f.sinceSeen, since)
	return f.changed, f.err
}

type fakeSweepQueue struct {
	enqueued []string
	err      error
}

func (f *fakeSweepQueue) EnqueueSubtaskTrigger(ctx context.Context, subtaskID, taskID string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, subtaskID)
	return nil
}

func TestSweep_EnqueuesChangedSubtasks(t *testing.T) {
	lister := &fakeChangedLister{changed: []string{"st-1", "st-2"}}
	queue := &fakeSweepQueue{}
	sweep := NewReaggregationSweep(lister, queue, time.Minute)

	require.NoError(t, sweep.Run(context.Background()))
	assert.Equal(t, []string{"st-1", "st-2"}, queue.enqueued)
}

func TestSweep_WatermarkAdvancesOnSuccess(t *testing.T) {
	lister := &fakeChangedLister{changed: []string{"st-1"}}
	sweep := NewReaggregationSweep(lister, &fakeSweepQueue{}, time.Minute)

	require.NoError(t, sweep.Run(context.Background()))
	require.NoError(t, sweep.Run(context.Background()))

	require.Len(t, lister.sinceSeen, 2)
	assert.True(t, lister.sinceSeen[1].After(lister.sinceSeen[0]))
}

func TestSweep_FailedPassRetriesFromSamePoint(t *testing.T) {
	lister := &fakeChangedLister{changed: []string{"st-1"}}
	queue := &fakeSweepQueue{err: errors.New("queue down")}
	sweep := NewReaggregationSweep(lister, queue, time.Minute)

	require.Error(t, sweep.Run(context.Background()))

	queue.err = nil
	require.NoError(t, sweep.Run(context.Background()))

	require.Len(t, lister.sinceSeen, 2)
	assert.Equal(t, lister.sinceSeen[0], lister.sinceSeen[1])
	assert.Equal(t, []string{"st-1"}, queue.enqueued)
}

func TestSweep_ListFailureKeepsWatermark(t *testing.T) {
	lister := &fakeChangedLister{err: errors.New("db down")}
	sweep := NewReaggregationSweep(lister, &fakeSweepQueue{}, time.Minute)

	require.Error(t, sweep.Run(context.Background()))

	lister.err = nil
	require.NoError(t, sweep.Run(context.Background()))

	require.Len(t, lister.sinceSeen, 2)
	assert.Equal(t, lister.sinceSeen[0], lister.sinceSeen[1])
}

type countingJob struct {
	mu   sync.Mutex
	runs int
}

func (j *countingJob) Name() string            { return "counting" }
func (j *countingJob) Interval() time.Duration { return time.Hour }
func (j *countingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	return nil
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestManager_RunsJobOnceAtStart(t *testing.T) {
	mgr := NewManager(context.Background())
	job := &countingJob{}
	mgr.Register(job)

	mgr.Start()
	mgr.Stop()
	mgr.Wait()

	assert.Equal(t, 1, job.count())
}
