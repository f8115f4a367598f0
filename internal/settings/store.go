package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taskflow/taskflow/internal/kvstore"
)

// Store owns the persisted notification settings with a load-on-init,
// save-on-mutate lifecycle.
type Store struct {
	kv kvstore.Store

	mu       sync.RWMutex
	settings NotificationSettings
}

// NewStore creates a settings store hydrated from the key-value store.
// A missing or unreadable record falls back to defaults.
func NewStore(ctx context.Context, kv kvstore.Store) *Store {
	s := &Store{kv: kv, settings: Defaults()}

	var stored NotificationSettings
	err := kv.Get(ctx, kvstore.KeySettings, &stored)
	switch {
	case err == nil:
		s.settings = stored
	case errors.Is(err, kvstore.ErrKeyNotFound):
		// First run, keep defaults.
	default:
		slog.WarnContext(ctx, "failed to load notification settings, using defaults", "error", err)
	}

	return s
}

// Get returns a copy of the current settings.
func (s *Store) Get() NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update applies fn to the current settings and persists the result.
func (s *Store) Update(ctx context.Context, fn func(*NotificationSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.settings)

	if err := s.kv.Set(ctx, kvstore.KeySettings, s.settings); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// Reset restores the default settings and persists them.
func (s *Store) Reset(ctx context.Context) error {
	return s.Update(ctx, func(ns *NotificationSettings) {
		*ns = Defaults()
	})
}
