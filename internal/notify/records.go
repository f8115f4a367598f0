package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/kvstore"
)

// sentRetention is how long sent records are kept before pruning.
const sentRetention = 24 * time.Hour

// SentStore tracks which reminder classes have already been emitted.
// "Sent today" is decided lazily by calendar-date comparison at read time;
// there is no day-rollover event.
type SentStore struct {
	kv kvstore.Store

	mu      sync.RWMutex
	records []domain.SentRecord
}

// NewSentStore creates a store hydrated from the key-value store.
func NewSentStore(ctx context.Context, kv kvstore.Store) *SentStore {
	s := &SentStore{kv: kv}

	var stored []domain.SentRecord
	err := kv.Get(ctx, kvstore.KeySentRecords, &stored)
	switch {
	case err == nil:
		s.records = stored
	case errors.Is(err, kvstore.ErrKeyNotFound):
	default:
		slog.WarnContext(ctx, "failed to load sent records, starting empty", "error", err)
	}

	return s
}

// WasSent reports whether the (task, timing) class was already emitted on
// the calendar day of now.
func (s *SentStore) WasSent(taskID, timing string, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.TaskID == taskID && r.Timing == timing && domain.SameDay(r.SentAt, now) {
			return true
		}
	}
	return false
}

// MarkSent records that the (task, timing) class was emitted at now,
// replacing any previous record for the same pair.
func (s *SentStore) MarkSent(ctx context.Context, taskID, timing string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if r.TaskID != taskID || r.Timing != timing {
			kept = append(kept, r)
		}
	}
	s.records = append(kept, domain.SentRecord{TaskID: taskID, Timing: timing, SentAt: now})

	s.persist(ctx)
}

// Prune drops records older than the retention window. A pruned class can
// fire again.
func (s *SentStore) Prune(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-sentRetention)
	kept := s.records[:0]
	for _, r := range s.records {
		if r.SentAt.After(cutoff) {
			kept = append(kept, r)
		}
	}

	if len(kept) != len(s.records) {
		s.records = kept
		s.persist(ctx)
	}
}

func (s *SentStore) persist(ctx context.Context) {
	if err := s.kv.Set(ctx, kvstore.KeySentRecords, s.records); err != nil {
		slog.ErrorContext(ctx, "failed to persist sent records", "error", err)
	}
}

// SnoozeStore tracks per-task snooze windows. Snoozing a task suppresses
// every reminder class for it until the window passes.
type SnoozeStore struct {
	kv kvstore.Store

	mu      sync.RWMutex
	records []domain.SnoozeRecord
}

// NewSnoozeStore creates a store hydrated from the key-value store.
func NewSnoozeStore(ctx context.Context, kv kvstore.Store) *SnoozeStore {
	s := &SnoozeStore{kv: kv}

	var stored []domain.SnoozeRecord
	err := kv.Get(ctx, kvstore.KeySnoozeRecords, &stored)
	switch {
	case err == nil:
		s.records = stored
	case errors.Is(err, kvstore.ErrKeyNotFound):
	default:
		slog.WarnContext(ctx, "failed to load snooze records, starting empty", "error", err)
	}

	return s
}

// IsSnoozed reports whether the task is inside an active snooze window.
func (s *SnoozeStore) IsSnoozed(taskID string, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.TaskID == taskID && r.SnoozeUntil.After(now) {
			return true
		}
	}
	return false
}

// Snooze suppresses the task's reminders until now plus the given minutes.
// A repeated snooze replaces the previous window rather than stacking.
func (s *SnoozeStore) Snooze(ctx context.Context, taskID string, minutes int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if r.TaskID != taskID {
			kept = append(kept, r)
		}
	}
	s.records = append(kept, domain.SnoozeRecord{
		TaskID:      taskID,
		SnoozeUntil: now.Add(time.Duration(minutes) * time.Minute),
	})

	s.persist(ctx)
}

func (s *SnoozeStore) persist(ctx context.Context) {
	if err := s.kv.Set(ctx, kvstore.KeySnoozeRecords, s.records); err != nil {
		slog.ErrorContext(ctx, "failed to persist snooze records", "error", err)
	}
}
