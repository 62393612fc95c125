// Package timesheet implements the staged editing of one employee's day.
// The editor presents in-place mutation, but nothing persisted ever changes:
// every save appends new entries, and deletes append tombstones.
package timesheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"bimtrack/internal/model"
	"bimtrack/internal/reconcile"
	"bimtrack/pkg/constants"
	"bimtrack/pkg/hm"

	"github.com/google/uuid"
)

// Hour field selectors
const (
	FieldNormal = "normal"
	FieldOT     = "ot"

	PartHours   = "hours"
	PartMinutes = "minutes"
)

// Sheet holds the staged rows of one (employee, date) plus the deletion
// batch. Bounds are computed against an already-fetched history snapshot,
// not a round-trip per keystroke.
type Sheet struct {
	employeeID string
	assignDate string

	rows      []model.Row
	deletions []model.Row

	history    []*model.Entry
	subtasks   map[string]*model.Subtask
	classifier *reconcile.Classifier

	budgetHours float64
	otCapHours  int

	pendingProgress map[string]string // raw in-flight input per row, resolved at commit
	blankSeq        int
}

// NewSheet builds a sheet from the reconciled rows of one date.
func NewSheet(employeeID, assignDate string, rows []model.Row, history []*model.Entry, subtasks map[string]*model.Subtask, classifier *reconcile.Classifier, budgetHours float64, otCapHours int) *Sheet {
	return &Sheet{
		employeeID:      employeeID,
		assignDate:      assignDate,
		rows:            append([]model.Row(nil), rows...),
		history:         history,
		subtasks:        subtasks,
		classifier:      classifier,
		budgetHours:     budgetHours,
		otCapHours:      otCapHours,
		pendingProgress: make(map[string]string),
	}
}

// Rows returns the staged rows
func (s *Sheet) Rows() []model.Row {
	return s.rows
}

// Deletions returns the staged deletion batch
func (s *Sheet) Deletions() []model.Row {
	return s.deletions
}

// AddRow appends a blank editable row and returns its ID
func (s *Sheet) AddRow() string {
	s.blankSeq++
	row := reconcile.BlankRow(s.employeeID, s.assignDate, s.blankSeq)
	s.rows = append(s.rows, row)
	return row.RowID
}

func (s *Sheet) find(rowID string) (*model.Row, error) {
	for i := range s.rows {
		if s.rows[i].RowID == rowID {
			return &s.rows[i], nil
		}
	}
	return nil, model.ValidationError("row %s not found", rowID)
}

// SetSubtask points a row at a subtask, pulling in its display metadata and
// current progress, and classifying leave.
func (s *Sheet) SetSubtask(rowID, subtaskID string) error {
	row, err := s.find(rowID)
	if err != nil {
		return err
	}
	subtask, ok := s.subtasks[subtaskID]
	if !ok {
		return model.NotFoundError("subtask", subtaskID)
	}

	row.SubtaskID = subtask.ID
	row.Project = subtask.Project
	row.TaskName = subtask.TaskName
	row.SubTaskName = subtask.SubTaskName
	row.Item = subtask.Item
	row.Progress = subtask.Aggregate.Progress
	row.Leave = s.classifier.IsLeave(subtask)
	if row.Leave {
		row.OT = hm.Zero
		row.Progress = 0
	}
	row.Status = constants.StatusForProgress(row.Progress)
	return nil
}

// SetWorkingHours updates one part of one hour field. The normal field is
// clamped so the day's normal hours across all rows stay within the budget;
// the clamp corrects silently, it never rejects. Overtime is capped but does
// not participate in the budget.
func (s *Sheet) SetWorkingHours(rowID, field, part string, value int) error {
	row, err := s.find(rowID)
	if err != nil {
		return err
	}
	if value < 0 {
		value = 0
	}

	switch field {
	case FieldNormal:
		next := row.Normal
		if part == PartHours {
			next.Hours = value
		} else {
			next.Minutes = value
		}
		next = next.SnapMinutes()

		sumOthers := s.sumNormalExcept(rowID)
		if sumOthers+next.FracHours() > s.budgetHours {
			remaining := s.budgetHours - sumOthers
			if remaining < 0 {
				remaining = 0
			}
			next = hm.FromFracHours(remaining)
			row.Advisory = fmt.Sprintf("normal hours clamped to the %.0f-hour daily budget", s.budgetHours)
		} else {
			row.Advisory = ""
		}
		row.Normal = next
	case FieldOT:
		if row.Leave {
			row.OT = hm.Zero
			return nil
		}
		next := row.OT
		if part == PartHours {
			if value > s.otCapHours {
				value = s.otCapHours
			}
			next.Hours = value
		} else {
			next.Minutes = value
		}
		row.OT = next.SnapMinutes()
	default:
		return model.ValidationError("unknown hour field %q", field)
	}

	row.Status = constants.StatusForProgress(row.Progress)
	return nil
}

// sumNormalExcept sums normal hours over all rows except the target, in
// fractional hours. Only the normal field participates in the budget.
func (s *Sheet) sumNormalExcept(rowID string) float64 {
	var sum float64
	for i := range s.rows {
		if s.rows[i].RowID == rowID {
			continue
		}
		sum += s.rows[i].Normal.FracHours()
	}
	return sum
}

// ProgressBounds computes the monotonicity window for a subtask edit on this
// sheet's date: min from the nearest earlier recorded day, max from the
// nearest later one. Each reads the current value of its day, not raw rows.
func (s *Sheet) ProgressBounds(subtaskID string) model.ProgressBounds {
	bounds := model.ProgressBounds{Min: 0, Max: 100}

	current := reconcile.LatestPerKey(s.history)
	var earlierDate, laterDate string
	for _, entry := range current {
		if entry.SubtaskID != subtaskID || entry.AssignDate == s.assignDate {
			continue
		}
		if entry.AssignDate < s.assignDate {
			if earlierDate == "" || entry.AssignDate > earlierDate {
				earlierDate = entry.AssignDate
				bounds.Min = entry.Progress
			}
		} else {
			if laterDate == "" || entry.AssignDate < laterDate {
				laterDate = entry.AssignDate
				bounds.Max = entry.Progress
			}
		}
	}
	return bounds
}

// SetProgress applies an in-flight progress input. Only the upper bound is
// enforced while typing; dipping below the lower bound attaches an advisory
// but the value stays until CommitProgress resolves it.
func (s *Sheet) SetProgress(rowID, raw string) error {
	row, err := s.find(rowID)
	if err != nil {
		return err
	}
	if row.Leave {
		row.Progress = 0
		row.Status = constants.StatusForProgress(0)
		return nil
	}

	s.pendingProgress[rowID] = raw
	value, parseErr := parseProgress(raw)
	if parseErr != nil {
		return nil // resolved at commit
	}

	bounds := s.ProgressBounds(row.SubtaskID)
	if value > bounds.Max {
		value = bounds.Max
	}
	if value < bounds.Min {
		row.Advisory = fmt.Sprintf("progress below the %d%% recorded on an earlier day", bounds.Min)
	} else {
		row.Advisory = ""
	}
	row.Progress = value
	row.Status = constants.StatusForProgress(value)
	return nil
}

// CommitProgress resolves a row's progress at blur: hard-clamped into the
// monotonicity window, unparseable input reset to the lower bound.
func (s *Sheet) CommitProgress(rowID string) error {
	row, err := s.find(rowID)
	if err != nil {
		return err
	}
	if row.Leave {
		row.Progress = 0
		row.Status = constants.StatusForProgress(0)
		return nil
	}

	bounds := s.ProgressBounds(row.SubtaskID)
	raw, hasPending := s.pendingProgress[rowID]
	delete(s.pendingProgress, rowID)

	value := row.Progress
	if hasPending {
		parsed, parseErr := parseProgress(raw)
		if parseErr != nil {
			value = bounds.Min
		} else {
			value = parsed
		}
	}

	if value < bounds.Min {
		value = bounds.Min
	}
	if value > bounds.Max {
		value = bounds.Max
	}
	row.Progress = value
	row.Advisory = ""
	row.Status = constants.StatusForProgress(value)
	return nil
}

func parseProgress(raw string) (int, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return value, nil
}

// StageDeletions adds wire-submitted deletion rows to the batch. Only rows
// backed by persisted history can produce tombstones; dropping a row that
// was never saved needs no record.
func (s *Sheet) StageDeletions(rows []model.Row) {
	for _, row := range rows {
		if row.IsExisting && row.SubtaskID != "" {
			row.AssignDate = s.assignDate
			row.EmployeeID = s.employeeID
			s.deletions = append(s.deletions, row)
		}
	}
}

// Revalidate re-applies the hour clamps, the overtime cap and the progress
// window to every staged row. Commits arriving over the wire pass through
// here so a client that skipped the editor cannot exceed the budget or
// break monotonicity.
func (s *Sheet) Revalidate() {
	for i := range s.rows {
		rowID := s.rows[i].RowID
		_ = s.SetWorkingHours(rowID, FieldNormal, PartHours, s.rows[i].Normal.Hours)
		_ = s.SetWorkingHours(rowID, FieldNormal, PartMinutes, s.rows[i].Normal.Minutes)
		_ = s.SetWorkingHours(rowID, FieldOT, PartHours, s.rows[i].OT.Hours)
		_ = s.SetWorkingHours(rowID, FieldOT, PartMinutes, s.rows[i].OT.Minutes)
		_ = s.CommitProgress(rowID)
	}
}

// DeleteRow removes a row from the staged view. At least one row must
// always remain. Rows backed by persisted history go to the deletion batch;
// committing the batch appends tombstone entries, nothing is removed from
// the store.
func (s *Sheet) DeleteRow(rowID string) error {
	if len(s.rows) <= 1 {
		return model.ValidationError("at least one row must remain")
	}

	for i := range s.rows {
		if s.rows[i].RowID != rowID {
			continue
		}
		row := s.rows[i]
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		if row.IsExisting {
			s.deletions = append(s.deletions, row)
		}
		return nil
	}
	return model.ValidationError("row %s not found", rowID)
}

// Commit is the batch a save event appends: edits plus tombstones, one
// shared timestamp, plus the rows to merge back optimistically.
type Commit struct {
	CommitID   string
	LoggedAt   time.Time
	Entries    []*model.Entry
	Optimistic []model.Row
}

// BuildCommit validates the sheet and produces the append-only batch.
// All entries of one save event share a commit ID and a timestamp truncated
// to the second, so history viewing can group them.
func (s *Sheet) BuildCommit(now time.Time, today string) (*Commit, error) {
	if s.assignDate > today {
		return nil, model.ValidationError("cannot submit a report for a future date")
	}

	valid := make([]model.Row, 0, len(s.rows))
	for _, row := range s.rows {
		if row.SubtaskID != "" {
			valid = append(valid, row)
		}
	}
	if len(valid) == 0 && len(s.deletions) == 0 {
		return nil, model.ValidationError("no subtask selected")
	}

	commitID := uuid.New().String()
	loggedAt := now.Truncate(time.Second)

	entries := make([]*model.Entry, 0, len(valid)+len(s.deletions))
	optimistic := make([]model.Row, 0, len(valid))

	for _, row := range valid {
		if row.Leave {
			row.OT = hm.Zero
			row.Progress = 0
		}
		row.Status = constants.StatusForProgress(row.Progress)

		entries = append(entries, s.entryFromRow(row, commitID, loggedAt, row.Status))

		row.IsExisting = true
		row.Advisory = ""
		optimistic = append(optimistic, row)
	}

	for _, row := range s.deletions {
		// Tombstones hide the key from reduction; they carry no hours so
		// they add nothing to the aggregate sums.
		row.Normal = hm.Zero
		row.OT = hm.Zero
		row.Progress = 0
		entries = append(entries, s.entryFromRow(row, commitID, loggedAt, constants.EntryStatusDeleted))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SubtaskID < entries[j].SubtaskID
	})

	return &Commit{
		CommitID:   commitID,
		LoggedAt:   loggedAt,
		Entries:    entries,
		Optimistic: optimistic,
	}, nil
}

// ClearDeletions empties the staged deletion batch after a successful commit
func (s *Sheet) ClearDeletions() {
	s.deletions = nil
}

func (s *Sheet) entryFromRow(row model.Row, commitID string, loggedAt time.Time, status constants.EntryStatus) *model.Entry {
	taskID := ""
	if subtask, ok := s.subtasks[row.SubtaskID]; ok {
		taskID = subtask.TaskID
	}
	return &model.Entry{
		ID:          uuid.New().String(),
		CommitID:    commitID,
		EmployeeID:  s.employeeID,
		SubtaskID:   row.SubtaskID,
		TaskID:      taskID,
		AssignDate:  s.assignDate,
		Normal:      row.Normal,
		OT:          row.OT,
		Progress:    row.Progress,
		Note:        row.Note,
		Status:      status,
		Files:       row.Files,
		Project:     row.Project,
		TaskName:    row.TaskName,
		SubTaskName: row.SubTaskName,
		Item:        row.Item,
		LoggedAt:    loggedAt,
	}
}
