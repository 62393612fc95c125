package mysql

import (
	"time"

	"bimtrack/internal/model"
	"bimtrack/pkg/constants"
	"bimtrack/pkg/hm"

	storemodel "bimtrack/pkg/store/mysql/model"
)

// ToEntryDomain converts a MySQL ReportEntry to the domain Entry model
func ToEntryDomain(row *ReportEntry) *model.Entry {
	if row == nil {
		return nil
	}

	return &model.Entry{
		ID:          row.EntryID,
		Seq:         row.Seq,
		CommitID:    row.CommitID,
		EmployeeID:  row.EmployeeID,
		SubtaskID:   row.SubtaskID,
		TaskID:      row.TaskID,
		AssignDate:  row.AssignDate,
		Normal:      hm.Parse(row.NormalHours),
		OT:          hm.Parse(row.OTHours),
		Progress:    row.Progress,
		Note:        row.Note,
		Status:      constants.EntryStatus(row.Status),
		Files:       toFileDomain(row.Files),
		Project:     row.Project,
		TaskName:    row.TaskName,
		SubTaskName: row.SubTaskName,
		Item:        row.Item,
		LoggedAt:    row.LoggedAt,
	}
}

// ToEntryDomainList converts a slice of MySQL entries
func ToEntryDomainList(rows []*ReportEntry) []*model.Entry {
	entries := make([]*model.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ToEntryDomain(row))
	}
	return entries
}

// FromEntryDomain converts a domain Entry to a MySQL ReportEntry.
// Seq is left unset; the database assigns it in insertion order.
func FromEntryDomain(entry *model.Entry) *ReportEntry {
	if entry == nil {
		return nil
	}

	return &ReportEntry{
		EntryID:     entry.ID,
		CommitID:    entry.CommitID,
		EmployeeID:  entry.EmployeeID,
		SubtaskID:   entry.SubtaskID,
		TaskID:      entry.TaskID,
		AssignDate:  entry.AssignDate,
		NormalHours: entry.Normal.String(),
		OTHours:     entry.OT.String(),
		Progress:    entry.Progress,
		Note:        entry.Note,
		Status:      entry.Status.String(),
		Files:       fromFileDomain(entry.Files),
		Project:     entry.Project,
		TaskName:    entry.TaskName,
		SubTaskName: entry.SubTaskName,
		Item:        entry.Item,
		LoggedAt:    entry.LoggedAt,
	}
}

// ToSubtaskDomain converts a MySQL Subtask to the domain model
func ToSubtaskDomain(row *Subtask) *model.Subtask {
	if row == nil {
		return nil
	}

	return &model.Subtask{
		ID:          row.SubtaskID,
		TaskID:      row.TaskID,
		Project:     row.Project,
		TaskName:    row.TaskName,
		SubTaskName: row.SubTaskName,
		Item:        row.Item,
		Category:    row.Category,
		Assignee:    row.Assignee,
		Scale:       row.Scale,
		Aggregate: model.SubtaskAggregate{
			MhOD:        row.MhOD,
			MhOT:        row.MhOT,
			Progress:    row.Progress,
			StartDate:   row.StartDate,
			EndDate:     row.EndDate,
			LastUpdate:  row.LastUpdate,
			WlFromScale: row.WlFromScale,
			WlRemaining: row.WlRemaining,
			Files:       toFileDomain(row.Files),
		},
	}
}

// ToSubtaskDomainList converts a slice of MySQL subtasks
func ToSubtaskDomainList(rows []*Subtask) []*model.Subtask {
	subtasks := make([]*model.Subtask, 0, len(rows))
	for _, row := range rows {
		subtasks = append(subtasks, ToSubtaskDomain(row))
	}
	return subtasks
}

// SubtaskAggregateFields maps a recomputed aggregate to the column updates
// of the subtask's aggregate block. Every field is overwritten.
func SubtaskAggregateFields(agg model.SubtaskAggregate, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"mh_od":        agg.MhOD,
		"mh_ot":        agg.MhOT,
		"progress":     agg.Progress,
		"start_date":   agg.StartDate,
		"end_date":     agg.EndDate,
		"last_update":  agg.LastUpdate,
		"wl_fromscale": agg.WlFromScale,
		"wl_remaining": agg.WlRemaining,
		"files":        fromFileDomain(agg.Files),
		"updated_at":   now,
	}
}

// ToTaskDomain converts a MySQL Task to the domain model
func ToTaskDomain(row *Task) *model.Task {
	if row == nil {
		return nil
	}

	return &model.Task{
		ID:       row.TaskID,
		Project:  row.Project,
		TaskName: row.TaskName,
		Aggregate: model.TaskAggregate{
			SubtaskCount: row.SubtaskCount,
			Progress:     row.Progress,
			EstWorkload:  row.EstWorkload,
			TotalMH:      row.TotalMH,
			StartDate:    row.StartDate,
			EndDate:      row.EndDate,
			LastUpdate:   row.LastUpdate,
		},
	}
}

// TaskAggregateFields maps a recomputed task aggregate to column updates
func TaskAggregateFields(agg model.TaskAggregate, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"subtask_count": agg.SubtaskCount,
		"progress":      agg.Progress,
		"est_workload":  agg.EstWorkload,
		"total_mh":      agg.TotalMH,
		"start_date":    agg.StartDate,
		"end_date":      agg.EndDate,
		"last_update":   agg.LastUpdate,
		"updated_at":    now,
	}
}

func toFileDomain(files storemodel.FileMetaList) []model.FileMeta {
	if files == nil {
		return nil
	}
	out := make([]model.FileMeta, 0, len(files))
	for _, f := range files {
		out = append(out, model.FileMeta{
			FileName:    f.FileName,
			FileURL:     f.FileURL,
			StoragePath: f.StoragePath,
			UploadedAt:  f.UploadedAt,
		})
	}
	return out
}

func fromFileDomain(files []model.FileMeta) storemodel.FileMetaList {
	if files == nil {
		return nil
	}
	out := make(storemodel.FileMetaList, 0, len(files))
	for _, f := range files {
		out = append(out, storemodel.FileMeta{
			FileName:    f.FileName,
			FileURL:     f.FileURL,
			StoragePath: f.StoragePath,
			UploadedAt:  f.UploadedAt,
		})
	}
	return out
}
