package constants

// Entry status constants
type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "pending"
	EntryStatusInProgress EntryStatus = "in-progress"
	EntryStatusCompleted  EntryStatus = "completed"
	EntryStatusDeleted    EntryStatus = "deleted" // soft-delete tombstone
)

func (s EntryStatus) String() string {
	return string(s)
}

// StatusForProgress derives an entry status from a progress percentage.
// Tombstones are never produced here; they come only from explicit deletes.
func StatusForProgress(progress int) EntryStatus {
	switch {
	case progress >= 100:
		return EntryStatusCompleted
	case progress > 0:
		return EntryStatusInProgress
	default:
		return EntryStatusPending
	}
}
