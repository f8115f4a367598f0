package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NewPriority validates and creates a Priority.
// Empty input defaults to medium.
func NewPriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}

	p := Priority(strings.ToLower(s))

	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
	}
}

// NewRecurrenceType validates and creates a RecurrenceType.
// Empty input means none.
func NewRecurrenceType(s string) (RecurrenceType, error) {
	if s == "" {
		return RecurrenceNone, nil
	}

	t := RecurrenceType(strings.ToLower(s))

	switch t {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly,
		RecurrenceMonthly, RecurrenceCustom:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidRecurrenceType, s)
	}
}

// ParseClock parses an "HH:MM" wall-clock string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return hour, minute, nil
}

// ClockMinutes converts an "HH:MM" string to minutes since midnight.
func ClockMinutes(s string) (int, error) {
	hour, minute, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}
