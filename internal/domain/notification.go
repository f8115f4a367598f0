package domain

import "time"

// AppNotification is one entry in the in-app notification list.
type AppNotification struct {
	ID      string
	Type    NotificationType
	Title   string
	Message string

	// TaskID is an association back to the originating task, not ownership.
	TaskID string

	// Priority mirrors the task priority for styling and sorting.
	Priority Priority

	CreatedAt time.Time
	Read      bool

	// ActionLabel hints a UI affordance, e.g. "Snooze" or "Mark as Done".
	ActionLabel string
}

// SentRecord marks that a specific reminder class for a task has already
// been emitted on the calendar day of SentAt. Records older than 24 hours
// are pruned from storage.
type SentRecord struct {
	TaskID string
	Timing string
	SentAt time.Time
}

// SnoozeRecord suppresses every reminder class for a task until the
// timestamp passes. Repeated snoozing replaces the record.
type SnoozeRecord struct {
	TaskID      string
	SnoozeUntil time.Time
}
