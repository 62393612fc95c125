// Package aggregate holds the pure rollup math of the aggregation cascade.
// Both triggers recompute in full from source data; re-running either
// against an unchanged input produces an identical result, which is what
// makes duplicate and out-of-order trigger delivery safe.
package aggregate

import (
	"sort"
	"time"

	"bimtrack/internal/model"
	"bimtrack/pkg/constants"
)

// SubtaskRollup recomputes a subtask aggregate from its full entry history
// (Trigger A). An empty history yields the zero state with the workload
// constant restored in full.
func SubtaskRollup(entries []*model.Entry, scale string) model.SubtaskAggregate {
	wlFromScale := constants.WorkloadFromScale(scale)

	if len(entries) == 0 {
		return model.SubtaskAggregate{
			WlFromScale: wlFromScale,
			WlRemaining: wlFromScale,
		}
	}

	sorted := append([]*model.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].After(sorted[i])
	})

	first := sorted[0]
	last := sorted[len(sorted)-1]

	agg := model.SubtaskAggregate{
		Progress:    last.Progress,
		StartDate:   timePtr(first.LoggedAt),
		LastUpdate:  timePtr(last.LoggedAt),
		Files:       last.Files,
		WlFromScale: wlFromScale,
	}

	// Latest entry that reported completion, scanning from the end
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Progress == 100 {
			agg.EndDate = timePtr(sorted[i].LoggedAt)
			break
		}
	}

	// Sums run over the entire history: each entry is a distinct reporting
	// event, not a running total, so superseded entries still count.
	for _, entry := range sorted {
		agg.MhOD += entry.Normal.FracHours()
		agg.MhOT += entry.OT.FracHours()
	}

	agg.WlRemaining = wlFromScale * (1 - float64(agg.Progress)/100)
	return agg
}

// TaskRollup recomputes a task aggregate from its sibling subtasks
// (Trigger B). An empty sibling set yields the zero state.
func TaskRollup(subtasks []*model.Subtask) model.TaskAggregate {
	if len(subtasks) == 0 {
		return model.TaskAggregate{}
	}

	agg := model.TaskAggregate{
		SubtaskCount: len(subtasks),
	}

	var totalProgress float64
	var latestEnd *time.Time
	allDone := true

	for _, subtask := range subtasks {
		sa := subtask.Aggregate
		totalProgress += float64(sa.Progress)
		agg.EstWorkload += sa.WlFromScale
		agg.TotalMH += sa.MhOD + sa.MhOT

		if sa.StartDate != nil && (agg.StartDate == nil || sa.StartDate.Before(*agg.StartDate)) {
			agg.StartDate = timePtr(*sa.StartDate)
		}
		if sa.LastUpdate != nil && (agg.LastUpdate == nil || sa.LastUpdate.After(*agg.LastUpdate)) {
			agg.LastUpdate = timePtr(*sa.LastUpdate)
		}

		if sa.Progress < 100 {
			allDone = false
		}
		if sa.EndDate != nil && (latestEnd == nil || sa.EndDate.After(*latestEnd)) {
			latestEnd = timePtr(*sa.EndDate)
		}
	}

	agg.Progress = totalProgress / float64(len(subtasks))

	// A single incomplete sibling blocks the task-level completion date,
	// even when other siblings individually carry one.
	if allDone && latestEnd != nil {
		agg.EndDate = latestEnd
	}

	return agg
}

func timePtr(t time.Time) *time.Time {
	return &t
}
