package reconcile

import (
	"testing"
	"time"

	"bimtrack/internal/model"
	"bimtrack/pkg/constants"
	"bimtrack/pkg/hm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, subtaskID, assignDate string, progress int, loggedAt time.Time, seq int64, status constants.EntryStatus) *model.Entry {
	return &model.Entry{
		ID:         id,
		Seq:        seq,
		EmployeeID: "emp-1",
		SubtaskID:  subtaskID,
		AssignDate: assignDate,
		Normal:     hm.HM{Hours: 4},
		Progress:   progress,
		Status:     status,
		LoggedAt:   loggedAt,
	}
}

func testClassifier() *Classifier {
	return NewClassifier([]string{"ลางาน", "ประชุม", "meeting"}, []string{"ลางาน"})
}

func TestReduceDay_LatestWins(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []*model.Entry{
		entry("e1", "st-1", "2026-03-01", 50, base, 1, constants.EntryStatusInProgress),
		entry("e2", "st-1", "2026-03-01", 80, base.Add(time.Hour), 2, constants.EntryStatusInProgress),
		entry("e3", "st-2", "2026-03-01", 10, base, 3, constants.EntryStatusInProgress),
		entry("e4", "st-1", "2026-03-02", 90, base.Add(2*time.Hour), 4, constants.EntryStatusInProgress),
	}

	winners := ReduceDay(entries, "2026-03-01")
	require.Len(t, winners, 2)
	assert.Equal(t, "e2", winners[0].ID)
	assert.Equal(t, 80, winners[0].Progress)
	assert.Equal(t, "e3", winners[1].ID)
}

func TestReduceDay_SeqBreaksTimestampTies(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []*model.Entry{
		entry("e1", "st-1", "2026-03-01", 40, at, 1, constants.EntryStatusInProgress),
		entry("e2", "st-1", "2026-03-01", 60, at, 2, constants.EntryStatusInProgress),
	}

	// Same outcome regardless of slice order
	winners := ReduceDay(entries, "2026-03-01")
	require.Len(t, winners, 1)
	assert.Equal(t, "e2", winners[0].ID)

	reversed := []*model.Entry{entries[1], entries[0]}
	winners = ReduceDay(reversed, "2026-03-01")
	require.Len(t, winners, 1)
	assert.Equal(t, "e2", winners[0].ID)
}

func TestReduceDay_TombstoneHidesKey(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []*model.Entry{
		entry("e1", "st-1", "2026-03-01", 50, base, 1, constants.EntryStatusInProgress),
		entry("e2", "st-1", "2026-03-01", 0, base.Add(time.Hour), 2, constants.EntryStatusDeleted),
		entry("e3", "st-2", "2026-03-01", 10, base, 3, constants.EntryStatusInProgress),
	}

	winners := ReduceDay(entries, "2026-03-01")
	require.Len(t, winners, 1)
	assert.Equal(t, "st-2", winners[0].SubtaskID)
}

func TestReduceDay_ResurrectedKeyReturns(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []*model.Entry{
		entry("e1", "st-1", "2026-03-01", 50, base, 1, constants.EntryStatusInProgress),
		entry("e2", "st-1", "2026-03-01", 0, base.Add(time.Hour), 2, constants.EntryStatusDeleted),
		entry("e3", "st-1", "2026-03-01", 70, base.Add(2*time.Hour), 3, constants.EntryStatusInProgress),
	}

	winners := ReduceDay(entries, "2026-03-01")
	require.Len(t, winners, 1)
	assert.Equal(t, "e3", winners[0].ID)
}

func TestLatestPerKey(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []*model.Entry{
		entry("e1", "st-1", "2026-03-01", 50, base, 1, constants.EntryStatusInProgress),
		entry("e2", "st-1", "2026-03-01", 80, base.Add(time.Hour), 2, constants.EntryStatusInProgress),
		entry("e3", "st-1", "2026-03-02", 90, base.Add(2*time.Hour), 3, constants.EntryStatusInProgress),
		entry("e4", "st-2", "2026-03-01", 0, base, 4, constants.EntryStatusDeleted),
	}

	current := LatestPerKey(entries)
	require.Len(t, current, 2)
	assert.Equal(t, "e2", current["2026-03-01\x00st-1"].ID)
	assert.Equal(t, "e3", current["2026-03-02\x00st-1"].ID)
}

func TestBuildDay_EmptyDayGetsPlaceholder(t *testing.T) {
	rows := BuildDay("emp-1", "2026-03-01", nil, nil, testClassifier())
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].SubtaskID)
	assert.False(t, rows[0].IsExisting)
	assert.Equal(t, constants.EntryStatus("pending"), rows[0].Status)
}

func TestBuildDay_LeaveRowForced(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := entry("e1", "st-leave", "2026-03-01", 60, base, 1, constants.EntryStatusInProgress)
	e.OT = hm.HM{Hours: 2}

	subtasks := map[string]*model.Subtask{
		"st-leave": {ID: "st-leave", SubTaskName: "ประชุม site"},
	}

	rows := BuildDay("emp-1", "2026-03-01", []*model.Entry{e}, subtasks, testClassifier())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Leave)
	assert.True(t, rows[0].OT.IsZero())
	assert.Zero(t, rows[0].Progress)
	assert.True(t, rows[0].IsExisting)
}

func TestBuildDay_BackfillsDisplayMetadata(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := entry("e1", "st-1", "2026-03-01", 60, base, 1, constants.EntryStatusInProgress)

	subtasks := map[string]*model.Subtask{
		"st-1": {ID: "st-1", Project: "PRJ", TaskName: "Structure", SubTaskName: "Model walls"},
	}

	rows := BuildDay("emp-1", "2026-03-01", []*model.Entry{e}, subtasks, testClassifier())
	require.Len(t, rows, 1)
	assert.Equal(t, "PRJ", rows[0].Project)
	assert.Equal(t, "Structure", rows[0].TaskName)
	assert.Equal(t, "Model walls", rows[0].SubTaskName)
}

func TestRelateDrawing(t *testing.T) {
	tests := []struct {
		name string
		in   [4]string
		want string
	}{
		{"all parts", [4]string{"CT", "Structure", "Model walls", "A-101"}, "(CT - Structure - Model walls - A-101)"},
		{"no abbr", [4]string{"", "Structure", "Model walls", ""}, "(Structure - Model walls)"},
		{"single part", [4]string{"", "", "Model walls", ""}, "(Model walls)"},
		{"empty", [4]string{"", "", "", ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelateDrawing(tt.in[0], tt.in[1], tt.in[2], tt.in[3])
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectableSubtasks(t *testing.T) {
	subtasks := []*model.Subtask{
		{ID: "st-open", SubTaskName: "Model walls", Aggregate: model.SubtaskAggregate{Progress: 40}},
		{ID: "st-done", SubTaskName: "Model roof", Aggregate: model.SubtaskAggregate{Progress: 100}},
		{ID: "st-leave", SubTaskName: "ลางาน", Aggregate: model.SubtaskAggregate{}},
		{ID: "st-meeting", SubTaskName: "meeting weekly", Aggregate: model.SubtaskAggregate{}},
	}
	classifier := testClassifier()

	t.Run("past date hides completed", func(t *testing.T) {
		out := SelectableSubtasks(subtasks, "2026-03-01", "2026-03-02", nil, classifier)
		ids := idsOf(out)
		assert.NotContains(t, ids, "st-done")
		assert.Contains(t, ids, "st-open")
		assert.Contains(t, ids, "st-leave")
	})

	t.Run("completed stays when referenced", func(t *testing.T) {
		out := SelectableSubtasks(subtasks, "2026-03-01", "2026-03-02", map[string]bool{"st-done": true}, classifier)
		assert.Contains(t, idsOf(out), "st-done")
	})

	t.Run("future date offers strict leave only", func(t *testing.T) {
		out := SelectableSubtasks(subtasks, "2026-03-03", "2026-03-02", nil, classifier)
		require.Len(t, out, 1)
		assert.Equal(t, "st-leave", out[0].ID)
	})
}

func idsOf(subtasks []*model.Subtask) []string {
	ids := make([]string, 0, len(subtasks))
	for _, s := range subtasks {
		ids = append(ids, s.ID)
	}
	return ids
}
