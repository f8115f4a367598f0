// Package kvstore provides the persistent key-value store used to durably
// hold the task list, notification list, sent and snooze records, and
// settings, each under its own key with JSON-serialized values.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound indicates the requested key has no stored value.
var ErrKeyNotFound = errors.New("key not found")

// Well-known storage keys. They mirror the keys the web client used so a
// migrated data directory stays readable.
const (
	KeyTasks         = "taskflow-tasks"
	KeyNotifications = "taskflow-notifications"
	KeySentRecords   = "taskflow-sent-notifications"
	KeySnoozeRecords = "taskflow-snoozed-notifications"
	KeySettings      = "taskflow-notification-settings"
)

// Store is a durable key-value store with JSON value semantics.
type Store interface {
	// Get unmarshals the value stored under key into dest.
	// Returns ErrKeyNotFound when the key has never been written.
	Get(ctx context.Context, key string, dest any) error

	// Set marshals value and stores it under key, replacing any
	// previous value.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the value stored under key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
