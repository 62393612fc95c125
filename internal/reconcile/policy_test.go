package reconcile

import (
	"testing"

	"bimtrack/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDayAccess(t *testing.T) {
	policy := NewAccessPolicy(2, []string{"Admin", "BIM Manager"})
	today := "2026-03-10"

	testCases := []struct {
		name     string
		date     string
		role     string
		expected Access
	}{
		{name: "today", date: "2026-03-10", role: "Modeler", expected: Access{ReadOnly: false, CanSubmit: true}},
		{name: "edge of window", date: "2026-03-08", role: "Modeler", expected: Access{ReadOnly: false, CanSubmit: true}},
		{name: "past the window", date: "2026-03-07", role: "Modeler", expected: Access{ReadOnly: true, CanSubmit: false}},
		{name: "privileged bypasses window", date: "2026-01-01", role: "Admin", expected: Access{ReadOnly: false, CanSubmit: true}},
		{name: "manager bypasses window", date: "2026-01-01", role: "BIM Manager", expected: Access{ReadOnly: false, CanSubmit: true}},
		{name: "future stages but never submits", date: "2026-03-11", role: "Modeler", expected: Access{ReadOnly: false, CanSubmit: false}},
		{name: "future blocks privileged too", date: "2026-03-11", role: "Admin", expected: Access{ReadOnly: false, CanSubmit: false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, policy.DayAccess(tc.date, today, tc.role))
		})
	}
}

func TestClassifier(t *testing.T) {
	classifier := testClassifier()

	assert.True(t, classifier.IsLeave(leaveSubtask("Weekly meeting")))
	assert.True(t, classifier.IsLeave(leaveSubtask("ลางาน")))
	assert.False(t, classifier.IsLeave(leaveSubtask("Model facade")))
	assert.False(t, classifier.IsLeave(nil))

	// Meetings classify as leave but cannot be booked ahead
	assert.False(t, classifier.IsFutureBookable(leaveSubtask("Weekly meeting")))
	assert.True(t, classifier.IsFutureBookable(leaveSubtask("ลางาน")))
}

func TestClassifier_CaseInsensitive(t *testing.T) {
	classifier := testClassifier()
	assert.True(t, classifier.IsLeave(leaveSubtask("MEETING with client")))
}

func leaveSubtask(name string) *model.Subtask {
	return &model.Subtask{ID: "st", SubTaskName: name}
}
