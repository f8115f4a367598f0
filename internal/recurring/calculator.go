package recurring

import (
	"time"

	"github.com/taskflow/taskflow/internal/domain"
)

// PatternCalculator calculates the next occurrence date for a recurrence type.
type PatternCalculator interface {
	// NextOccurrence returns the next occurrence date after the given date.
	NextOccurrence(after time.Time, pattern domain.RecurrencePattern) time.Time
}

// GetCalculator returns the appropriate calculator for the given type.
// Returns nil for none and unrecognized types: no next occurrence exists.
func GetCalculator(t domain.RecurrenceType) PatternCalculator {
	switch t {
	case domain.RecurrenceDaily:
		return &DailyCalculator{}
	case domain.RecurrenceWeekly:
		return &WeeklyCalculator{}
	case domain.RecurrenceMonthly:
		return &MonthlyCalculator{}
	case domain.RecurrenceCustom:
		return &CustomCalculator{}
	default:
		return nil
	}
}

// NextOccurrence computes the due date of the next instance of a recurring
// task. It returns nil when the pattern yields no further occurrence:
// type none, an unrecognized type, or a series past its end date.
//
// Invoked when a recurring task transitions to complete, never during
// background scanning.
func NextOccurrence(dueDate time.Time, pattern *domain.RecurrencePattern) *time.Time {
	if pattern == nil {
		return nil
	}

	calc := GetCalculator(pattern.Type)
	if calc == nil {
		return nil
	}

	next := calc.NextOccurrence(dueDate, *pattern)

	if pattern.EndDate != nil && afterDay(next, *pattern.EndDate) {
		return nil
	}

	return &next
}

// afterDay reports whether a falls on a later calendar date than b.
func afterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
