// Package task owns the task collection: creation, updates, completion
// toggling with recurrence expansion, series deletion, sorting, and
// calendar filtering. State is persisted through the key-value store
// after every mutation.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/kvstore"
	"github.com/taskflow/taskflow/internal/recurring"
)

// Service is the host-side owner of the task collection.
type Service struct {
	kv  kvstore.Store
	now func() time.Time

	mu    sync.RWMutex
	tasks []domain.Task
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service hydrated from the key-value store.
// A missing or unreadable record falls back to an empty collection.
func NewService(ctx context.Context, kv kvstore.Store, opts ...Option) *Service {
	s := &Service{kv: kv, now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	var stored []domain.Task
	err := kv.Get(ctx, kvstore.KeyTasks, &stored)
	switch {
	case err == nil:
		s.tasks = stored
	case errors.Is(err, kvstore.ErrKeyNotFound):
	default:
		slog.WarnContext(ctx, "failed to load tasks, starting empty", "error", err)
	}

	return s
}

// AddParams carries the user-supplied fields of a new task.
type AddParams struct {
	Title       string
	Description string
	DueDate     time.Time
	DueTime     string
	AllDay      bool
	Priority    domain.Priority
	Recurrence  *domain.RecurrencePattern
}

// Add creates a new task. A task authored with a non-none recurrence is
// assigned a fresh series id.
func (s *Service) Add(ctx context.Context, p AddParams) (domain.Task, error) {
	if p.Title == "" {
		return domain.Task{}, domain.ErrTitleRequired
	}

	priority := p.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	t := domain.Task{
		ID:          newID(),
		Title:       p.Title,
		Description: p.Description,
		DueDate:     p.DueDate,
		DueTime:     p.DueTime,
		AllDay:      p.AllDay,
		Priority:    priority,
		CreatedAt:   s.now(),
		Recurrence:  p.Recurrence,
	}
	if t.HasRecurrence() {
		t.SeriesID = newID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, t)

	if err := s.persist(ctx); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// Update applies mutate to the task with the given id and persists.
func (s *Service) Update(ctx context.Context, id string, mutate func(*domain.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			mutate(&s.tasks[i])
			return s.persist(ctx)
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

// Delete removes exactly one task by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	found := false
	for _, t := range s.tasks {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	s.tasks = kept
	return s.persist(ctx)
}

// DeleteSeries removes every task sharing the given series id.
func (s *Service) DeleteSeries(ctx context.Context, seriesID string) error {
	if seriesID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.SeriesID != seriesID {
			kept = append(kept, t)
		}
	}
	s.tasks = kept

	return s.persist(ctx)
}

// ToggleComplete flips the completed state of a task.
//
// Completing a task with an active recurrence spawns exactly one next
// occurrence in the same series, with the due date advanced by the pattern.
// With completeAllFuture, the task and every other incomplete task in its
// series are completed and stripped of their recurrence instead, ending
// the series.
//
// Toggling a completed task back to incomplete never retracts a previously
// spawned occurrence.
func (s *Service) ToggleComplete(ctx context.Context, id string, completeAllFuture bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	t := &s.tasks[idx]

	if t.Completed {
		t.Completed = false
		return s.persist(ctx)
	}

	if completeAllFuture && t.SeriesID != "" {
		seriesID := t.SeriesID
		for i := range s.tasks {
			if s.tasks[i].SeriesID != seriesID {
				continue
			}
			if s.tasks[i].ID == id || !s.tasks[i].Completed {
				s.tasks[i].Completed = true
				s.tasks[i].Recurrence = nil
			}
		}
		return s.persist(ctx)
	}

	t.Completed = true

	if t.HasRecurrence() {
		if next := recurring.NextOccurrence(t.DueDate, t.Recurrence); next != nil {
			s.tasks = append(s.tasks, domain.Task{
				ID:                  newID(),
				Title:               t.Title,
				Description:         t.Description,
				DueDate:             *next,
				DueTime:             t.DueTime,
				AllDay:              t.AllDay,
				Priority:            t.Priority,
				CreatedAt:           s.now(),
				Recurrence:          t.Recurrence,
				SeriesID:            t.SeriesID,
				IsRecurringInstance: true,
			})
		}
	}

	return s.persist(ctx)
}

// Get returns the task with the given id.
func (s *Service) Get(id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

// List returns a sorted copy of the collection.
func (s *Service) List(sortBy domain.SortBy) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)

	switch sortBy {
	case domain.SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case domain.SortByCreatedAt:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DueDate.Before(out[j].DueDate)
		})
	}

	return out
}

// TasksForDate returns the tasks due on the given calendar day.
func (s *Service) TasksForDate(date time.Time) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if t.DueOn(date) {
			out = append(out, t)
		}
	}
	return out
}

// persist writes the collection to durable storage.
// Callers hold the write lock.
func (s *Service) persist(ctx context.Context) error {
	if err := s.kv.Set(ctx, kvstore.KeyTasks, s.tasks); err != nil {
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
