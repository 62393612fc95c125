package service

import (
	"context"
	"time"

	"bimtrack/internal/model"
	"bimtrack/internal/reconcile"
	"bimtrack/internal/timesheet"
	"bimtrack/pkg/config"
	"bimtrack/pkg/logger"
	"bimtrack/pkg/store/mysql"
)

// EntryStore is the slice of the entry repository the report flow needs
type EntryStore interface {
	AppendBatch(ctx context.Context, entries []*mysql.ReportEntry) error
	ListByEmployee(ctx context.Context, employeeID string) ([]*mysql.ReportEntry, error)
}

// ReferenceReader resolves reference data for the report flow
type ReferenceReader interface {
	GetSubtask(ctx context.Context, subtaskID string) (*model.Subtask, error)
	ListAssigneeSubtasks(ctx context.Context, assignee string) ([]*model.Subtask, error)
	GetEmployee(ctx context.Context, employeeID string) (*mysql.Employee, error)
	ListProjects(ctx context.Context) ([]*mysql.Project, error)
}

// TriggerEnqueuer hands changed subtasks to the aggregation cascade
type TriggerEnqueuer interface {
	EnqueueSubtaskTrigger(ctx context.Context, subtaskID, taskID string) error
}

// CommitLocker serializes save events per employee
type CommitLocker interface {
	Acquire(ctx context.Context, employeeID string) (string, error)
	Release(ctx context.Context, employeeID, token string) error
}

// ReportService serves the daily-report read path and the append-only
// commit path. Reads reduce the entry history to current state; commits
// never mutate stored entries.
type ReportService struct {
	entries EntryStore
	refs    ReferenceReader
	queue   TriggerEnqueuer
	lock    CommitLocker

	classifier *reconcile.Classifier
	policy     *reconcile.AccessPolicy

	budgetHours float64
	otCapHours  int

	now func() time.Time
}

// NewReportService creates a new report service
func NewReportService(entries EntryStore, refs ReferenceReader, queue TriggerEnqueuer, lock CommitLocker, cfg *config.Config) *ReportService {
	return &ReportService{
		entries:     entries,
		refs:        refs,
		queue:       queue,
		lock:        lock,
		classifier:  reconcile.NewClassifier(cfg.Report.LeaveKeywords, cfg.Report.FutureLeaveOnly),
		policy:      reconcile.NewAccessPolicy(cfg.Report.EditWindowDays, cfg.Report.PrivilegedRoles),
		budgetHours: cfg.Report.DailyBudgetHours,
		otCapHours:  cfg.Report.OvertimeCapHours,
		now:         time.Now,
	}
}

// History returns the full entry history for one employee in log order,
// tombstones included. History viewing shows every save event, not the
// reduced state.
func (s *ReportService) History(ctx context.Context, employeeID string) ([]*model.Entry, error) {
	rows, err := s.entries.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mysql.ToEntryDomainList(rows), nil
}

// Day returns the reconciled editable rows of one business date: the
// current value of every (date, subtask) key, or a blank placeholder when
// the day is empty.
func (s *ReportService) Day(ctx context.Context, employeeID, assignDate string) ([]model.Row, error) {
	if _, err := time.Parse(model.DateLayout, assignDate); err != nil {
		return nil, model.ValidationError("invalid date %q", assignDate)
	}

	history, subtasks, err := s.loadDayInputs(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rows := reconcile.BuildDay(employeeID, assignDate, history, subtasks, s.classifier)
	abbrs := s.projectAbbrs(ctx)
	for i := range rows {
		if rows[i].SubtaskID == "" {
			continue
		}
		rows[i].RelateDrawing = reconcile.RelateDrawing(abbrs[rows[i].Project], rows[i].TaskName, rows[i].SubTaskName, rows[i].Item)
	}
	return rows, nil
}

// DayOptions returns the subtasks selectable on one business date. Future
// dates offer only bookable leave; past dates hide completed subtasks not
// already referenced by the day's rows.
func (s *ReportService) DayOptions(ctx context.Context, employeeID, assignDate string) ([]*model.Subtask, error) {
	if _, err := time.Parse(model.DateLayout, assignDate); err != nil {
		return nil, model.ValidationError("invalid date %q", assignDate)
	}

	employee, err := s.refs.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.refs.ListAssigneeSubtasks(ctx, employee.FullName)
	if err != nil {
		return nil, err
	}

	history, subtaskMap, err := s.loadDayInputs(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool)
	for _, row := range reconcile.BuildDay(employeeID, assignDate, history, subtaskMap, s.classifier) {
		if row.SubtaskID != "" {
			referenced[row.SubtaskID] = true
		}
	}

	today := s.now().Format(model.DateLayout)
	options := reconcile.SelectableSubtasks(candidates, assignDate, today, referenced, s.classifier)

	abbrs := s.projectAbbrs(ctx)
	for _, option := range options {
		option.RelateDrawing = reconcile.RelateDrawing(abbrs[option.Project], option.TaskName, option.SubTaskName, option.Item)
	}
	return options, nil
}

// DayAccess evaluates the edit window and role bypass for one date
func (s *ReportService) DayAccess(ctx context.Context, employeeID, assignDate string) (reconcile.Access, error) {
	if _, err := time.Parse(model.DateLayout, assignDate); err != nil {
		return reconcile.Access{}, model.ValidationError("invalid date %q", assignDate)
	}

	employee, err := s.refs.GetEmployee(ctx, employeeID)
	if err != nil {
		return reconcile.Access{}, err
	}

	today := s.now().Format(model.DateLayout)
	return s.policy.DayAccess(assignDate, today, employee.Role), nil
}

// CommitRequest is one save event as submitted: the staged rows of the day
// plus the rows whose deletion was staged.
type CommitRequest struct {
	AssignDate string      `json:"assign_date"`
	Rows       []model.Row `json:"rows"`
	Deletions  []model.Row `json:"deletions,omitempty"`
}

// CommitResult reports a committed save event. Rows carries the validated
// rows to merge back into the client view without a refetch.
type CommitResult struct {
	CommitID string      `json:"commit_id"`
	LoggedAt time.Time   `json:"logged_at"`
	Rows     []model.Row `json:"rows"`
}

// Commit validates and appends one save event. The whole batch lands or
// none of it does; changed subtasks are handed to the aggregation cascade
// after the write.
func (s *ReportService) Commit(ctx context.Context, employeeID string, req *CommitRequest) (*CommitResult, error) {
	if _, err := time.Parse(model.DateLayout, req.AssignDate); err != nil {
		return nil, model.ValidationError("invalid date %q", req.AssignDate)
	}

	employee, err := s.refs.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(model.DateLayout)

	access := s.policy.DayAccess(req.AssignDate, today, employee.Role)
	if !access.CanSubmit {
		if access.ReadOnly {
			return nil, model.ValidationError("date %s is outside the edit window", req.AssignDate)
		}
		return nil, model.ValidationError("cannot submit a report for a future date")
	}

	token, err := s.lock.Acquire(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, model.ErrCommitBusy
	}
	defer func() {
		if err := s.lock.Release(ctx, employeeID, token); err != nil {
			logger.WarnCtx(ctx, "commit lock release failed, employee_id: %s, error: %v", employeeID, err)
		}
	}()

	history, subtasks, err := s.commitInputs(ctx, employeeID, req)
	if err != nil {
		return nil, err
	}

	sheet := timesheet.NewSheet(employeeID, req.AssignDate, req.Rows, history, subtasks, s.classifier, s.budgetHours, s.otCapHours)
	sheet.StageDeletions(req.Deletions)
	sheet.Revalidate()

	commit, err := sheet.BuildCommit(now, today)
	if err != nil {
		return nil, err
	}

	enrichEntries(commit.Entries, subtasks)

	batch := make([]*mysql.ReportEntry, 0, len(commit.Entries))
	for _, entry := range commit.Entries {
		batch = append(batch, mysql.FromEntryDomain(entry))
	}
	if err := s.entries.AppendBatch(ctx, batch); err != nil {
		return nil, model.WriteError(err)
	}

	logger.InfoCtx(ctx, "report committed, employee_id: %s, assign_date: %s, commit_id: %s, entries: %d",
		employeeID, req.AssignDate, commit.CommitID, len(commit.Entries))

	s.enqueueTriggers(ctx, commit.Entries)

	return &CommitResult{
		CommitID: commit.CommitID,
		LoggedAt: commit.LoggedAt,
		Rows:     commit.Optimistic,
	}, nil
}

// projectAbbrs maps project IDs to their abbreviations for relate-drawing
// labels. A lookup failure degrades the labels instead of failing the read.
func (s *ReportService) projectAbbrs(ctx context.Context) map[string]string {
	projects, err := s.refs.ListProjects(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "project list lookup failed, error: %v", err)
		return nil
	}
	abbrs := make(map[string]string, len(projects))
	for _, project := range projects {
		abbrs[project.ProjectID] = project.Abbr
	}
	return abbrs
}

// loadDayInputs fetches the employee's history plus the subtask records the
// history references, for reduction and leave classification.
func (s *ReportService) loadDayInputs(ctx context.Context, employeeID string) ([]*model.Entry, map[string]*model.Subtask, error) {
	rows, err := s.entries.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	history := mysql.ToEntryDomainList(rows)

	subtasks := make(map[string]*model.Subtask)
	for _, entry := range history {
		if _, ok := subtasks[entry.SubtaskID]; ok {
			continue
		}
		subtask, err := s.refs.GetSubtask(ctx, entry.SubtaskID)
		if err != nil {
			// A deleted subtask still has history; classify from nothing
			logger.WarnCtx(ctx, "subtask lookup failed during reduction, subtask_id: %s, error: %v", entry.SubtaskID, err)
			continue
		}
		subtasks[entry.SubtaskID] = subtask
	}
	return history, subtasks, nil
}

// commitInputs extends the day inputs with the subtasks referenced only by
// the submitted rows, so fresh rows resolve metadata and task IDs.
func (s *ReportService) commitInputs(ctx context.Context, employeeID string, req *CommitRequest) ([]*model.Entry, map[string]*model.Subtask, error) {
	history, subtasks, err := s.loadDayInputs(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}

	for _, row := range append(append([]model.Row(nil), req.Rows...), req.Deletions...) {
		if row.SubtaskID == "" {
			continue
		}
		if _, ok := subtasks[row.SubtaskID]; ok {
			continue
		}
		subtask, err := s.refs.GetSubtask(ctx, row.SubtaskID)
		if err != nil {
			return nil, nil, err
		}
		subtasks[row.SubtaskID] = subtask
	}
	return history, subtasks, nil
}

// enrichEntries fills denormalized display metadata a thin client omitted
func enrichEntries(entries []*model.Entry, subtasks map[string]*model.Subtask) {
	for _, entry := range entries {
		subtask, ok := subtasks[entry.SubtaskID]
		if !ok {
			continue
		}
		if entry.Project == "" {
			entry.Project = subtask.Project
		}
		if entry.TaskName == "" {
			entry.TaskName = subtask.TaskName
		}
		if entry.SubTaskName == "" {
			entry.SubTaskName = subtask.SubTaskName
		}
		if entry.Item == "" {
			entry.Item = subtask.Item
		}
	}
}

// enqueueTriggers hands every subtask the commit touched to the cascade.
// Enqueue failures are logged, not returned: the entries are already
// durable and the reaggregation sweep covers missed triggers.
func (s *ReportService) enqueueTriggers(ctx context.Context, entries []*model.Entry) {
	seen := make(map[string]bool)
	for _, entry := range entries {
		if seen[entry.SubtaskID] {
			continue
		}
		seen[entry.SubtaskID] = true
		if err := s.queue.EnqueueSubtaskTrigger(ctx, entry.SubtaskID, entry.TaskID); err != nil {
			logger.ErrorCtx(ctx, "subtask trigger enqueue failed, subtask_id: %s, error: %v", entry.SubtaskID, err)
		}
	}
}
