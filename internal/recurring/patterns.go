package recurring

import (
	"time"

	"github.com/taskflow/taskflow/internal/domain"
)

// DailyCalculator generates daily recurrences.
type DailyCalculator struct{}

func (c *DailyCalculator) NextOccurrence(after time.Time, pattern domain.RecurrencePattern) time.Time {
	return after.AddDate(0, 0, 1)
}

// WeeklyCalculator generates weekly recurrences, optionally restricted to a
// set of weekdays (0=Sunday .. 6=Saturday).
type WeeklyCalculator struct{}

func (c *WeeklyCalculator) NextOccurrence(after time.Time, pattern domain.RecurrencePattern) time.Time {
	if len(pattern.WeekDays) == 0 {
		return after.AddDate(0, 0, 7)
	}

	days := make(map[int]bool, len(pattern.WeekDays))
	for _, d := range pattern.WeekDays {
		days[d] = true
	}

	// Scan forward day by day for at most a week and take the first
	// matching weekday. A non-empty set always matches within 7 days;
	// the fallback only covers out-of-range day numbers.
	for offset := 1; offset <= 7; offset++ {
		next := after.AddDate(0, 0, offset)
		if days[int(next.Weekday())] {
			return next
		}
	}

	return after.AddDate(0, 0, 7)
}

// MonthlyCalculator generates monthly recurrences, preserving the day of
// month and clamping to the last day of shorter months.
type MonthlyCalculator struct{}

func (c *MonthlyCalculator) NextOccurrence(after time.Time, pattern domain.RecurrencePattern) time.Time {
	year, month, day := after.Date()

	firstOfNext := time.Date(year, month+1, 1, after.Hour(), after.Minute(), 0, 0, after.Location())
	if last := daysIn(firstOfNext.Year(), firstOfNext.Month(), after.Location()); day > last {
		day = last
	}

	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day,
		after.Hour(), after.Minute(), 0, 0, after.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// CustomCalculator generates every-N-days recurrences.
type CustomCalculator struct{}

func (c *CustomCalculator) NextOccurrence(after time.Time, pattern domain.RecurrencePattern) time.Time {
	interval := pattern.Interval
	if interval < 1 {
		interval = 1
	}
	return after.AddDate(0, 0, interval)
}
