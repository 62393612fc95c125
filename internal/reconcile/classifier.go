package reconcile

import (
	"strings"

	"bimtrack/internal/model"
)

// Classifier decides whether a subtask represents non-billable time
// (vacation, meetings) from its display text. Keyword sets come from
// configuration; call sites never carry string literals.
type Classifier struct {
	general []string // classifies a row as leave/non-work
	strict  []string // the subset that may be booked on future dates
}

// NewClassifier creates a classifier from keyword sets. Matching is
// case-insensitive substring over taskName, subTaskName, item and category.
func NewClassifier(general, strict []string) *Classifier {
	return &Classifier{
		general: foldAll(general),
		strict:  foldAll(strict),
	}
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// IsLeave reports whether the subtask is a leave/non-work item.
// Leave rows carry no overtime and no progress.
func (c *Classifier) IsLeave(s *model.Subtask) bool {
	return matchAny(c.general, s)
}

// IsFutureBookable reports whether the subtask may be selected on a date
// after today. Only the strict leave set qualifies: booking future leave is
// allowed, booking future work is not.
func (c *Classifier) IsFutureBookable(s *model.Subtask) bool {
	return matchAny(c.strict, s)
}

func matchAny(keywords []string, s *model.Subtask) bool {
	if s == nil {
		return false
	}
	fields := []string{s.TaskName, s.SubTaskName, s.Item, s.Category}
	for _, field := range fields {
		if field == "" {
			continue
		}
		folded := strings.ToLower(field)
		for _, kw := range keywords {
			if strings.Contains(folded, kw) {
				return true
			}
		}
	}
	return false
}
