// Package notify implements the notification scheduler: it scans the task
// collection on a fixed cadence, decides which reminders are due, enforces
// the suppression rules, and routes emissions to the in-app list and the
// browser notification provider.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/settings"
)

// Reminder classes tracked independently for already-sent-today purposes.
// Timing options form additional classes keyed by their option label.
const (
	classOverdue = "overdue"
	classDue     = "due"

	// dailySummaryTaskID keys daily-summary sent records; the timing
	// field carries the calendar date so the marker rolls over daily.
	dailySummaryTaskID = "daily"
)

// overdueWindow bounds how long after the due instant the overdue reminder
// may still fire.
const overdueWindow = time.Hour

// Scheduler evaluates tasks against the current time and emits reminders.
// One instance of each reminder class fires per task per calendar day.
type Scheduler struct {
	settings *settings.Store
	inapp    *InAppStore
	sent     *SentStore
	snooze   *SnoozeStore
	provider BrowserProvider
	audio    AudioPlayer

	// onFocusTask is signalled with the task id when the user clicks a
	// browser notification.
	onFocusTask func(taskID string)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithProvider sets the browser notification provider.
func WithProvider(p BrowserProvider) Option {
	return func(s *Scheduler) { s.provider = p }
}

// WithAudio sets the audio player for the notification cue.
func WithAudio(a AudioPlayer) Option {
	return func(s *Scheduler) { s.audio = a }
}

// WithFocusHandler sets the callback invoked with a task id when the user
// clicks a browser notification.
func WithFocusHandler(fn func(taskID string)) Option {
	return func(s *Scheduler) { s.onFocusTask = fn }
}

// NewScheduler creates a scheduler over the given stores.
func NewScheduler(st *settings.Store, inapp *InAppStore, sent *SentStore, snooze *SnoozeStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		settings: st,
		inapp:    inapp,
		sent:     sent,
		snooze:   snooze,
		provider: LogProvider{},
		audio:    NoopAudio{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan runs one full evaluation pass: prune stale sent records, evaluate
// every task, then the daily summary. It never returns an error; every
// failure path inside is logged and swallowed.
func (s *Scheduler) Scan(ctx context.Context, tasks []domain.Task, now time.Time) {
	s.sent.Prune(ctx, now)

	for i := range tasks {
		s.checkTask(ctx, &tasks[i], now)
	}

	s.checkDailySummary(ctx, tasks, now)
}

// Snooze suppresses every reminder class for the task until now plus the
// given minutes. A repeated snooze replaces the previous window.
func (s *Scheduler) Snooze(ctx context.Context, taskID string, minutes int, now time.Time) {
	s.snooze.Snooze(ctx, taskID, minutes, now)
}

// checkTask evaluates the overdue, due-now, and due-soon classes for a
// single task.
func (s *Scheduler) checkTask(ctx context.Context, task *domain.Task, now time.Time) {
	if task.Completed {
		return
	}
	if s.snooze.IsSnoozed(task.ID, now) {
		return
	}

	due, ok := task.DueInstant()
	if !ok {
		return
	}

	until := due.Sub(now)

	// Overdue wins over everything else for this task on this tick.
	if until < 0 {
		if overdueFor := -until; overdueFor <= overdueWindow && !s.sent.WasSent(task.ID, classOverdue, now) {
			body := task.Description
			if body == "" {
				body = fmt.Sprintf("Was due at %s", task.DueTime)
			}
			s.emitBrowser(ctx, browserEmission{
				title:    fmt.Sprintf("Overdue: %s", task.Title),
				body:     body,
				taskID:   task.ID,
				priority: domain.PriorityHigh,
			}, now)
			s.emitInApp(ctx, domain.AppNotification{
				Type:        domain.NotificationTaskOverdue,
				Title:       "Task Overdue",
				Message:     fmt.Sprintf("%s was due at %s", task.Title, task.DueTime),
				TaskID:      task.ID,
				Priority:    task.Priority,
				ActionLabel: "Mark as Done",
			}, now)
			s.sent.MarkSent(ctx, task.ID, classOverdue, now)
		}
		return
	}

	// Due-now covers whole-minute distances of 0 or 1, i.e. anything under
	// two minutes out.
	if until < 2*time.Minute && !s.sent.WasSent(task.ID, classDue, now) {
		body := task.Description
		if body == "" {
			body = "This task is due now!"
		}
		s.emitBrowser(ctx, browserEmission{
			title:    fmt.Sprintf("Due Now: %s", task.Title),
			body:     body,
			taskID:   task.ID,
			priority: task.Priority,
		}, now)
		s.emitInApp(ctx, domain.AppNotification{
			Type:        domain.NotificationTaskDueNow,
			Title:       "Task Due Now",
			Message:     task.Title,
			TaskID:      task.ID,
			Priority:    task.Priority,
			ActionLabel: "Mark as Done",
		}, now)
		s.sent.MarkSent(ctx, task.ID, classDue, now)
	}

	// Each configured lead time is its own class and fires independently
	// as its window opens.
	cfg := s.settings.Get()
	for _, opt := range cfg.TimingOptions {
		timingMinutes := cfg.ResolveTiming(opt)
		if timingMinutes <= 0 {
			continue
		}
		if until <= 0 || until > time.Duration(timingMinutes)*time.Minute {
			continue
		}
		if s.sent.WasSent(task.ID, string(opt), now) {
			continue
		}

		label := cfg.TimingLabel(opt)
		s.emitBrowser(ctx, browserEmission{
			title:    fmt.Sprintf("Coming Up: %s", task.Title),
			body:     fmt.Sprintf("Due in %s", label),
			taskID:   task.ID,
			priority: task.Priority,
		}, now)
		s.emitInApp(ctx, domain.AppNotification{
			Type:        domain.NotificationTaskDueSoon,
			Title:       "Task Due Soon",
			Message:     fmt.Sprintf("%s - Due in %s", task.Title, label),
			TaskID:      task.ID,
			Priority:    task.Priority,
			ActionLabel: "Snooze",
		}, now)
		s.sent.MarkSent(ctx, task.ID, string(opt), now)
	}
}

// checkDailySummary emits the once-a-day summary when the configured minute
// arrives and at least one incomplete task is due today. With zero tasks
// the marker is left unset; the minute-match guard prevents repeats.
func (s *Scheduler) checkDailySummary(ctx context.Context, tasks []domain.Task, now time.Time) {
	cfg := s.settings.Get()
	if !cfg.DailySummaryEnabled {
		return
	}

	hour, minute, err := domain.ParseClock(cfg.DailySummaryTime)
	if err != nil {
		slog.WarnContext(ctx, "invalid daily summary time", "value", cfg.DailySummaryTime, "error", err)
		return
	}
	if now.Hour() != hour || now.Minute() != minute {
		return
	}

	dueToday := 0
	for i := range tasks {
		if !tasks[i].Completed && tasks[i].DueOn(now) {
			dueToday++
		}
	}
	if dueToday == 0 {
		return
	}

	summaryKey := "daily-summary-" + now.Format("2006-01-02")
	if s.sent.WasSent(dailySummaryTaskID, summaryKey, now) {
		return
	}

	plural := ""
	if dueToday != 1 {
		plural = "s"
	}
	message := fmt.Sprintf("You have %d task%s due today", dueToday, plural)

	s.emitBrowser(ctx, browserEmission{
		title:    "Daily Summary",
		body:     message,
		priority: domain.PriorityLow,
	}, now)
	s.emitInApp(ctx, domain.AppNotification{
		Type:     domain.NotificationDailySummary,
		Title:    "Daily Summary",
		Message:  message,
		Priority: domain.PriorityLow,
	}, now)
	s.sent.MarkSent(ctx, dailySummaryTaskID, summaryKey, now)
}

// emitInApp appends to the in-app list unless the in-app toggle is off.
// In-app notifications ignore quiet hours and the weekend gate.
func (s *Scheduler) emitInApp(ctx context.Context, n domain.AppNotification, now time.Time) {
	if !s.settings.Get().InAppNotificationsEnabled {
		return
	}

	n.ID = newID()
	n.CreatedAt = now
	n.Read = false

	s.inapp.Add(ctx, n)
}

type browserEmission struct {
	title    string
	body     string
	taskID   string
	priority domain.Priority
}

// emitBrowser shows a native notification when every gate allows it:
// the browser toggle, platform support, granted permission, and the
// quiet-hours/weekend predicate. Provider and audio failures are logged
// and never abort the scan.
func (s *Scheduler) emitBrowser(ctx context.Context, e browserEmission, now time.Time) {
	cfg := s.settings.Get()

	if !cfg.BrowserNotificationsEnabled {
		return
	}
	if !s.provider.Supported() {
		return
	}
	if s.provider.Permission() != PermissionGranted {
		return
	}
	if !settings.ShouldSendNotification(cfg, now) {
		return
	}

	tag := e.taskID
	if tag == "" {
		tag = newID()
	}

	var onClick func()
	if e.taskID != "" && s.onFocusTask != nil {
		taskID := e.taskID
		onClick = func() { s.onFocusTask(taskID) }
	}

	err := s.provider.Show(ctx, BrowserNotification{
		Title:              e.title,
		Body:               e.body,
		Tag:                tag,
		RequireInteraction: e.priority == domain.PriorityHigh,
		OnClick:            onClick,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to show browser notification", "title", e.title, "error", err)
		return
	}

	if cfg.SoundEnabled {
		if err := s.audio.Play(ctx); err != nil {
			slog.WarnContext(ctx, "failed to play notification sound", "error", err)
		}
	}
}

// newID returns a fresh time-ordered notification id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
