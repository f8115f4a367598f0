// Package settings holds the user-configurable notification settings and
// the suppression predicates evaluated against them.
package settings

import (
	"fmt"
	"strings"
)

// TimingOption names a reminder lead time.
type TimingOption string

const (
	Timing5Min   TimingOption = "5min"
	Timing15Min  TimingOption = "15min"
	Timing30Min  TimingOption = "30min"
	Timing1Hour  TimingOption = "1hour"
	TimingCustom TimingOption = "custom"
)

// timingMinutes maps fixed timing options to their lead time in minutes.
// The custom option resolves through the user-supplied value instead.
var timingMinutes = map[TimingOption]int{
	Timing5Min:   5,
	Timing15Min:  15,
	Timing30Min:  30,
	Timing1Hour:  60,
	TimingCustom: 0,
}

// NotificationSettings is the user-configurable notification configuration.
type NotificationSettings struct {
	BrowserNotificationsEnabled bool `json:"browserNotificationsEnabled"`
	InAppNotificationsEnabled   bool `json:"inAppNotificationsEnabled"`
	SoundEnabled                bool `json:"soundEnabled"`

	TimingOptions []TimingOption `json:"timingOptions"`
	CustomTiming  int            `json:"customTiming,omitempty"` // minutes

	QuietHoursEnabled bool   `json:"quietHoursEnabled"`
	QuietHoursStart   string `json:"quietHoursStart"` // "HH:MM"
	QuietHoursEnd     string `json:"quietHoursEnd"`   // "HH:MM"

	WeekendNotificationsEnabled bool `json:"weekendNotificationsEnabled"`

	DailySummaryEnabled bool   `json:"dailySummaryEnabled"`
	DailySummaryTime    string `json:"dailySummaryTime"` // "HH:MM"
}

// Defaults returns the default notification settings.
func Defaults() NotificationSettings {
	return NotificationSettings{
		BrowserNotificationsEnabled: true,
		InAppNotificationsEnabled:   true,
		SoundEnabled:                false,
		TimingOptions:               []TimingOption{Timing15Min, Timing5Min},
		QuietHoursEnabled:           false,
		QuietHoursStart:             "22:00",
		QuietHoursEnd:               "08:00",
		WeekendNotificationsEnabled: true,
		DailySummaryEnabled:         false,
		DailySummaryTime:            "09:00",
	}
}

// ResolveTiming returns the lead time in minutes for a timing option under
// the current settings. Options resolving to zero or less carry no lead
// time and are skipped by the scheduler.
func (s NotificationSettings) ResolveTiming(opt TimingOption) int {
	if opt == TimingCustom {
		return s.CustomTiming
	}
	return timingMinutes[opt]
}

// TimingLabel renders a human label for a timing option, e.g. "15 minutes"
// or "1 hour".
func (s NotificationSettings) TimingLabel(opt TimingOption) string {
	if opt == TimingCustom {
		return fmt.Sprintf("%d minutes", s.CustomTiming)
	}

	label := string(opt)
	label = strings.Replace(label, "min", " minutes", 1)
	label = strings.Replace(label, "hour", " hour", 1)
	return label
}
