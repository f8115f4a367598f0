package settings

import (
	"time"

	"github.com/taskflow/taskflow/internal/domain"
)

// IsQuietHours reports whether now falls inside the configured quiet-hours
// window. A window whose start is later than its end spans midnight.
// Returns false when quiet hours are disabled or misconfigured.
func IsQuietHours(s NotificationSettings, now time.Time) bool {
	if !s.QuietHoursEnabled {
		return false
	}

	start, err := domain.ClockMinutes(s.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := domain.ClockMinutes(s.QuietHoursEnd)
	if err != nil {
		return false
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	if start > end {
		// Overnight window, e.g. 22:00 - 08:00.
		return nowMinutes >= start || nowMinutes < end
	}

	return nowMinutes >= start && nowMinutes < end
}

// IsWeekend reports whether now falls on a Saturday or Sunday.
func IsWeekend(now time.Time) bool {
	day := now.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// ShouldSendNotification reports whether a browser notification may be
// emitted right now. In-app notifications are gated only by their own
// enable flag, never by this predicate.
func ShouldSendNotification(s NotificationSettings, now time.Time) bool {
	if IsQuietHours(s, now) {
		return false
	}
	if !s.WeekendNotificationsEnabled && IsWeekend(now) {
		return false
	}
	return true
}
