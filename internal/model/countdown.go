package model

// CountdownState is the persisted record for the recurring task. It is
// stored as a single JSON object under one fixed storage key.
type CountdownState struct {
	// CurrentNotificationID is the handle of the most recently scheduled
	// completion-cycle notification, kept only so it can be cancelled on
	// the next completion. Empty if none is pending.
	CurrentNotificationID string `json:"currentNotificationId,omitempty"`

	// CompletedAtTimestamps holds completion events in epoch
	// milliseconds, newest first. Append-only at the front.
	CompletedAtTimestamps []int64 `json:"completedAtTimestamps"`

	// TaskName is an optional label for the recurring task.
	TaskName string `json:"taskName,omitempty"`
}

// LastCompleted returns the most recent completion timestamp. The first
// element is always the newest; it is the sole input for deriving the
// current cycle's due time.
func (s CountdownState) LastCompleted() (int64, bool) {
	if len(s.CompletedAtTimestamps) == 0 {
		return 0, false
	}
	return s.CompletedAtTimestamps[0], true
}
