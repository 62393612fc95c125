// Package reconcile derives the current editable state of an employee's day
// from the append-only entry history. The same pick-latest-per-key reduction
// runs here on the read path and inside the aggregation cascade on the write
// path; the two must never diverge.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"bimtrack/internal/model"
	"bimtrack/pkg/hm"
)

// ReduceDay selects the current value for every (assignDate, subtask) key on
// one date: the entry with the greatest (LoggedAt, Seq) among all entries
// sharing the key. Keys whose winner is a tombstone are dropped. Results are
// ordered by subtask ID.
func ReduceDay(entries []*model.Entry, assignDate string) []*model.Entry {
	latest := make(map[string]*model.Entry)
	for _, entry := range entries {
		if entry.AssignDate != assignDate {
			continue
		}
		current, ok := latest[entry.SubtaskID]
		if !ok || entry.After(current) {
			latest[entry.SubtaskID] = entry
		}
	}

	winners := make([]*model.Entry, 0, len(latest))
	for _, entry := range latest {
		if entry.Deleted() {
			continue
		}
		winners = append(winners, entry)
	}
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].SubtaskID < winners[j].SubtaskID
	})
	return winners
}

// LatestPerKey reduces a full history to the current value of every
// (assignDate, subtask) key, tombstoned keys excluded.
func LatestPerKey(entries []*model.Entry) map[string]*model.Entry {
	latest := make(map[string]*model.Entry)
	for _, entry := range entries {
		key := entry.AssignDate + "\x00" + entry.SubtaskID
		current, ok := latest[key]
		if !ok || entry.After(current) {
			latest[key] = entry
		}
	}
	for key, entry := range latest {
		if entry.Deleted() {
			delete(latest, key)
		}
	}
	return latest
}

// BuildDay turns the reduced entries of one date into editable rows. Leave
// rows have overtime and progress forced regardless of stored values. An
// empty day yields a single blank placeholder so there is always at least
// one editable row; the placeholder is never persisted.
func BuildDay(employeeID, assignDate string, entries []*model.Entry, subtasks map[string]*model.Subtask, classifier *Classifier) []model.Row {
	winners := ReduceDay(entries, assignDate)

	rows := make([]model.Row, 0, len(winners))
	for _, entry := range winners {
		row := model.Row{
			RowID:       entry.ID,
			EmployeeID:  employeeID,
			AssignDate:  assignDate,
			SubtaskID:   entry.SubtaskID,
			Normal:      entry.Normal,
			OT:          entry.OT,
			Progress:    entry.Progress,
			Note:        entry.Note,
			Status:      entry.Status,
			Files:       entry.Files,
			Project:     entry.Project,
			TaskName:    entry.TaskName,
			SubTaskName: entry.SubTaskName,
			Item:        entry.Item,
			IsExisting:  true,
		}
		if subtask := subtasks[entry.SubtaskID]; subtask != nil {
			if row.Project == "" {
				row.Project = subtask.Project
			}
			if row.TaskName == "" {
				row.TaskName = subtask.TaskName
			}
			if row.SubTaskName == "" {
				row.SubTaskName = subtask.SubTaskName
			}
			if row.Item == "" {
				row.Item = subtask.Item
			}
		}
		if classifier.IsLeave(subtasks[entry.SubtaskID]) {
			row.Leave = true
			row.OT = hm.Zero
			row.Progress = 0
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		rows = append(rows, BlankRow(employeeID, assignDate, 0))
	}
	return rows
}

// BlankRow synthesizes an unpersisted placeholder row.
func BlankRow(employeeID, assignDate string, index int) model.Row {
	return model.Row{
		RowID:      fmt.Sprintf("%s-%s-blank-%d", employeeID, assignDate, index),
		EmployeeID: employeeID,
		AssignDate: assignDate,
		Status:     "pending",
	}
}

// SelectableSubtasks filters the candidate subtask list for one date.
//
// Future dates offer only the strict leave set. Today and past dates exclude
// subtasks already at 100% progress, unless a current row already references
// the subtask, so an existing entry never vanishes from the list.
// Dates are compared as "2006-01-02" strings.
func SelectableSubtasks(subtasks []*model.Subtask, assignDate, today string, referenced map[string]bool, classifier *Classifier) []*model.Subtask {
	out := make([]*model.Subtask, 0, len(subtasks))
	future := assignDate > today
	for _, s := range subtasks {
		if future {
			if classifier.IsFutureBookable(s) {
				out = append(out, s)
			}
			continue
		}
		if s.Aggregate.Progress >= 100 && !referenced[s.ID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RelateDrawing composes the display label of a referenced drawing from the
// project abbreviation and the subtask's names. Empty parts are skipped; a
// row with no parts gets no label.
func RelateDrawing(abbr, taskName, subTaskName, item string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{abbr, taskName, subTaskName, item} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " - ") + ")"
}
