package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidPriority indicates an unrecognized priority value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidRecurrenceType indicates an unrecognized recurrence type.
	ErrInvalidRecurrenceType = errors.New("invalid recurrence type")

	// ErrInvalidClock indicates a malformed "HH:MM" clock string.
	ErrInvalidClock = errors.New("invalid clock value")

	// ErrTitleRequired indicates an empty task title.
	ErrTitleRequired = errors.New("title is required")
)
