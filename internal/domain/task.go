package domain

import "time"

// Task is an entity in the host-owned task collection.
//
// Date semantics: DueDate carries date-only meaning; the wall-clock part of
// a due instant lives in DueTime ("HH:MM", local time). When AllDay is true
// DueTime is ignored for scheduling.
type Task struct {
	ID          string
	Title       string
	Description string

	DueDate time.Time
	DueTime string // "HH:MM" local time; empty means no time component
	AllDay  bool

	Priority  Priority
	Completed bool
	CreatedAt time.Time

	// Recurrence is nil (or type none) for one-shot tasks.
	Recurrence *RecurrencePattern

	// SeriesID links every instance generated from the same original
	// recurring task. A task with a non-none recurrence always has one.
	SeriesID string

	// IsRecurringInstance is true for tasks spawned by the recurrence
	// engine rather than authored directly by the user.
	IsRecurringInstance bool
}

// HasRecurrence reports whether the task carries an active recurrence pattern.
func (t *Task) HasRecurrence() bool {
	return t.Recurrence != nil && t.Recurrence.Type != RecurrenceNone
}

// DueInstant combines DueDate and DueTime into a single local wall-clock
// instant. It returns false when the task has no usable time component
// (all-day tasks or tasks without a due time).
func (t *Task) DueInstant() (time.Time, bool) {
	if t.AllDay || t.DueTime == "" {
		return time.Time{}, false
	}
	hour, minute, err := ParseClock(t.DueTime)
	if err != nil {
		return time.Time{}, false
	}
	d := t.DueDate
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location()), true
}

// DueOn reports whether the task's due date falls on the same calendar day
// as the given date.
func (t *Task) DueOn(date time.Time) bool {
	return SameDay(t.DueDate, date)
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// RecurrencePattern describes how a task repeats.
type RecurrencePattern struct {
	Type RecurrenceType

	// Interval is the every-N-days step for custom recurrence.
	// Values below 1 are treated as 1.
	Interval int

	// WeekDays holds weekday numbers 0 (Sunday) through 6 (Saturday) for
	// weekly recurrence. Empty means "same weekday every 7 days".
	WeekDays []int

	// EndDate bounds the series: no occurrence is generated after it.
	// Nil means the series is unbounded.
	EndDate *time.Time
}
