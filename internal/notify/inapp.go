package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/kvstore"
)

// maxNotifications caps the in-app list at the most recent entries.
const maxNotifications = 50

// InAppStore owns the in-app notification list. Newest entries come first
// and the list is capped at maxNotifications, evicting the oldest.
type InAppStore struct {
	kv kvstore.Store

	mu            sync.RWMutex
	notifications []domain.AppNotification
}

// NewInAppStore creates a store hydrated from the key-value store.
// A missing or unreadable record falls back to an empty list.
func NewInAppStore(ctx context.Context, kv kvstore.Store) *InAppStore {
	s := &InAppStore{kv: kv}

	var stored []domain.AppNotification
	err := kv.Get(ctx, kvstore.KeyNotifications, &stored)
	switch {
	case err == nil:
		s.notifications = stored
	case errors.Is(err, kvstore.ErrKeyNotFound):
	default:
		slog.WarnContext(ctx, "failed to load notifications, starting empty", "error", err)
	}

	return s
}

// Add prepends a notification, evicting beyond the cap, and persists.
func (s *InAppStore) Add(ctx context.Context, n domain.AppNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append([]domain.AppNotification{n}, s.notifications...)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[:maxNotifications]
	}

	s.persist(ctx)
}

// List returns a copy of the notifications, newest first.
func (s *InAppStore) List() []domain.AppNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AppNotification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the number of unread notifications.
func (s *InAppStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification as read.
func (s *InAppStore) MarkRead(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
		}
	}

	s.persist(ctx)
}

// MarkAllRead marks every notification as read.
func (s *InAppStore) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].Read = true
	}

	s.persist(ctx)
}

// Delete removes a single notification by id.
func (s *InAppStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notifications = kept

	s.persist(ctx)
}

// Clear removes every notification.
func (s *InAppStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = nil
	s.persist(ctx)
}

// persist writes the list to durable storage. Failures are logged, never
// surfaced.
func (s *InAppStore) persist(ctx context.Context) {
	if err := s.kv.Set(ctx, kvstore.KeyNotifications, s.notifications); err != nil {
		slog.ErrorContext(ctx, "failed to persist notifications", "error", err)
	}
}
