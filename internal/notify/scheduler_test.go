package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/settings"
)

type fakeProvider struct {
	supported  bool
	permission Permission
	shown      []BrowserNotification
	showErr    error
}

func (p *fakeProvider) Supported() bool        { return p.supported }
func (p *fakeProvider) Permission() Permission { return p.permission }

func (p *fakeProvider) RequestPermission(ctx context.Context) (Permission, error) {
	return p.permission, nil
}

func (p *fakeProvider) Show(ctx context.Context, n BrowserNotification) error {
	if p.showErr != nil {
		return p.showErr
	}
	p.shown = append(p.shown, n)
	return nil
}

type fakeAudio struct {
	plays   int
	playErr error
}

func (a *fakeAudio) Play(ctx context.Context) error {
	if a.playErr != nil {
		return a.playErr
	}
	a.plays++
	return nil
}

type fixture struct {
	scheduler *Scheduler
	settings  *settings.Store
	inapp     *InAppStore
	sent      *SentStore
	snooze    *SnoozeStore
	provider  *fakeProvider
	audio     *fakeAudio
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := newTestKV(t)

	f := &fixture{
		settings: settings.NewStore(ctx, kv),
		inapp:    NewInAppStore(ctx, kv),
		sent:     NewSentStore(ctx, kv),
		snooze:   NewSnoozeStore(ctx, kv),
		provider: &fakeProvider{supported: true, permission: PermissionGranted},
		audio:    &fakeAudio{},
	}
	f.scheduler = NewScheduler(f.settings, f.inapp, f.sent, f.snooze,
		WithProvider(f.provider),
		WithAudio(f.audio),
	)
	return f
}

// taskDueAt builds an incomplete task whose due instant is the given time.
func taskDueAt(id string, due time.Time) domain.Task {
	return domain.Task{
		ID:       id,
		Title:    "Ship the release",
		DueDate:  time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location()),
		DueTime:  due.Format("15:04"),
		Priority: domain.PriorityMedium,
	}
}

func inAppTypes(f *fixture) []domain.NotificationType {
	var types []domain.NotificationType
	for _, n := range f.inapp.List() {
		types = append(types, n.Type)
	}
	return types
}

func TestScheduler_TimingClassesFireOnceEach(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	start := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	tasks := []domain.Task{taskDueAt("task-1", start.Add(20*time.Minute))}

	// 20 minutes out: outside both the 15min and 5min windows.
	f.scheduler.Scan(ctx, tasks, start)
	assert.Empty(t, f.inapp.List())
	assert.Empty(t, f.provider.shown)

	// 15 minutes out: the 15min class fires.
	f.scheduler.Scan(ctx, tasks, start.Add(5*time.Minute))
	require.Len(t, f.inapp.List(), 1)
	assert.Equal(t, domain.NotificationTaskDueSoon, f.inapp.List()[0].Type)
	assert.Contains(t, f.inapp.List()[0].Message, "Due in 15 minutes")
	assert.Equal(t, "Snooze", f.inapp.List()[0].ActionLabel)
	require.Len(t, f.provider.shown, 1)
	assert.Equal(t, "Coming Up: Ship the release", f.provider.shown[0].Title)

	// Next tick, still inside the 15min window: no repeat.
	f.scheduler.Scan(ctx, tasks, start.Add(6*time.Minute))
	assert.Len(t, f.inapp.List(), 1)

	// 5 minutes out: the 5min class fires independently.
	f.scheduler.Scan(ctx, tasks, start.Add(15*time.Minute))
	require.Len(t, f.inapp.List(), 2)
	assert.Contains(t, f.inapp.List()[0].Message, "Due in 5 minutes")

	// No further repeats the same day.
	f.scheduler.Scan(ctx, tasks, start.Add(16*time.Minute))
	assert.Len(t, f.inapp.List(), 2)
	assert.Len(t, f.provider.shown, 2)
}

func TestScheduler_DueNow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	tasks := []domain.Task{taskDueAt("task-1", now)}

	f.scheduler.Scan(ctx, tasks, now)

	types := inAppTypes(f)
	assert.Contains(t, types, domain.NotificationTaskDueNow)
	require.NotEmpty(t, f.provider.shown)
	assert.Equal(t, "Due Now: Ship the release", f.provider.shown[0].Title)
	assert.Equal(t, "This task is due now!", f.provider.shown[0].Body)

	// Re-evaluating at the same instant does not repeat the class.
	shown := len(f.provider.shown)
	f.scheduler.Scan(ctx, tasks, now)
	assert.Len(t, f.provider.shown, shown)
}

func TestScheduler_DueNowWindowSpansTwoMinutes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

	// 90 seconds out still counts as due now.
	f.scheduler.Scan(ctx, []domain.Task{taskDueAt("task-1", now.Add(90*time.Second))}, now)
	assert.Contains(t, inAppTypes(f), domain.NotificationTaskDueNow)

	// Two full minutes out does not.
	g := newFixture(t)
	g.scheduler.Scan(ctx, []domain.Task{taskDueAt("task-2", now.Add(2*time.Minute))}, now)
	assert.NotContains(t, inAppTypes(g), domain.NotificationTaskDueNow)
}

func TestScheduler_Overdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	task := taskDueAt("task-1", now.Add(-10*time.Minute))
	task.Priority = domain.PriorityLow

	f.scheduler.Scan(ctx, []domain.Task{task}, now)

	require.Len(t, f.inapp.List(), 1)
	n := f.inapp.List()[0]
	assert.Equal(t, domain.NotificationTaskOverdue, n.Type)
	assert.Equal(t, "Mark as Done", n.ActionLabel)
	assert.Contains(t, n.Message, "was due at 09:50")

	require.Len(t, f.provider.shown, 1)
	assert.Equal(t, "Overdue: Ship the release", f.provider.shown[0].Title)
	// Overdue always escalates to require-interaction.
	assert.True(t, f.provider.shown[0].RequireInteraction)

	// Overdue short-circuits: no due-soon classes fired for this task.
	assert.NotContains(t, inAppTypes(f), domain.NotificationTaskDueSoon)

	// No repeat the same day.
	f.scheduler.Scan(ctx, []domain.Task{task}, now.Add(time.Minute))
	assert.Len(t, f.inapp.List(), 1)
}

func TestScheduler_OverdueWindowExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	task := taskDueAt("task-1", now.Add(-2*time.Hour))

	f.scheduler.Scan(ctx, []domain.Task{task}, now)

	assert.Empty(t, f.inapp.List())
	assert.Empty(t, f.provider.shown)
}

func TestScheduler_SkipsIneligibleTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

	completed := taskDueAt("done", now)
	completed.Completed = true

	allDay := taskDueAt("all-day", now)
	allDay.AllDay = true

	noTime := taskDueAt("no-time", now)
	noTime.DueTime = ""

	f.scheduler.Scan(ctx, []domain.Task{completed, allDay, noTime}, now)

	assert.Empty(t, f.inapp.List())
	assert.Empty(t, f.provider.shown)
}

func TestScheduler_SnoozeSuppressesEveryClass(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	start := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	tasks := []domain.Task{taskDueAt("task-1", start.Add(5*time.Minute))}

	f.scheduler.Snooze(ctx, "task-1", 10, start)

	// Inside the snooze window nothing fires, not even classes that had
	// never fired before.
	f.scheduler.Scan(ctx, tasks, start)
	f.scheduler.Scan(ctx, tasks, start.Add(4*time.Minute))
	assert.Empty(t, f.inapp.List())
	assert.Empty(t, f.provider.shown)

	// After expiry the task is evaluated again: now overdue.
	f.scheduler.Scan(ctx, tasks, start.Add(11*time.Minute))
	assert.Contains(t, inAppTypes(f), domain.NotificationTaskOverdue)
}

func TestScheduler_QuietHoursGatesBrowserOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.settings.Update(ctx, func(s *settings.NotificationSettings) {
		s.QuietHoursEnabled = true // 22:00 - 08:00
	}))

	now := time.Date(2025, 1, 8, 23, 0, 0, 0, time.UTC)
	tasks := []domain.Task{taskDueAt("task-1", now)}

	f.scheduler.Scan(ctx, tasks, now)

	// In-app delivery bypasses quiet hours.
	assert.NotEmpty(t, f.inapp.List())
	assert.Empty(t, f.provider.shown)
}

func TestScheduler_InAppToggleOff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.settings.Update(ctx, func(s *settings.NotificationSettings) {
		s.InAppNotificationsEnabled = false
	}))

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	f.scheduler.Scan(ctx, []domain.Task{taskDueAt("task-1", now)}, now)

	assert.Empty(t, f.inapp.List())
	assert.NotEmpty(t, f.provider.shown)
}

func TestScheduler_BrowserGates(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	tasks := []domain.Task{taskDueAt("task-1", now)}

	tests := []struct {
		name  string
		setup func(ctx context.Context, f *fixture)
	}{
		{"toggle off", func(ctx context.Context, f *fixture) {
			require.NoError(t, f.settings.Update(ctx, func(s *settings.NotificationSettings) {
				s.BrowserNotificationsEnabled = false
			}))
		}},
		{"unsupported platform", func(ctx context.Context, f *fixture) {
			f.provider.supported = false
		}},
		{"permission denied", func(ctx context.Context, f *fixture) {
			f.provider.permission = PermissionDenied
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			tt.setup(ctx, f)

			f.scheduler.Scan(ctx, tasks, now)

			assert.Empty(t, f.provider.shown)
			// In-app delivery is unaffected by browser gates.
			assert.NotEmpty(t, f.inapp.List())
		})
	}
}

func TestScheduler_ProviderFailureDoesNotAbortScan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.showErr = errors.New("platform refused")

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	f.scheduler.Scan(ctx, []domain.Task{taskDueAt("task-1", now)}, now)

	// The in-app side still lands and the class is still marked sent.
	assert.NotEmpty(t, f.inapp.List())
	assert.True(t, f.sent.WasSent("task-1", classDue, now))
}

func TestScheduler_SoundPlaysWhenEnabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.settings.Update(ctx, func(s *settings.NotificationSettings) {
		s.SoundEnabled = true
	}))

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	f.scheduler.Scan(ctx, []domain.Task{taskDueAt("task-1", now)}, now)

	assert.Equal(t, 1, f.audio.plays)
}

func TestScheduler_NotificationClickSignalsTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var focused string
	f.scheduler = NewScheduler(f.settings, f.inapp, f.sent, f.snooze,
		WithProvider(f.provider),
		WithFocusHandler(func(taskID string) { focused = taskID }),
	)

	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	f.scheduler.Scan(ctx, []domain.Task{taskDueAt("task-1", now)}, now)

	require.Len(t, f.provider.shown, 1)
	require.NotNil(t, f.provider.shown[0].OnClick)
	f.provider.shown[0].OnClick()
	assert.Equal(t, "task-1", focused)
	assert.Equal(t, "task-1", f.provider.shown[0].Tag)
}

func TestScheduler_DailySummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.settings.Update(ctx, func(s *settings.NotificationSettings) {
		s.DailySummaryEnabled = true
		s.DailySummaryTime = "09:00"
	}))

	summaryTime := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		taskDueAt("task-1", summaryTime.Add(3*time.Hour)),
		taskDueAt("task-2", summaryTime.Add(5*time.Hour)),
	}

	// Wrong minute: nothing.
	f.scheduler.Scan(ctx, tasks, summaryTime.Add(-time.Minute))
	assert.NotContains(t, inAppTypes(f), domain.NotificationDailySummary)

	f.scheduler.Scan(ctx, tasks, summaryTime)
	require.Contains(t, inAppTypes(f), domain.NotificationDailySummary)
	assert.Contains(t, f.inapp.List()[0].Message, "You have 2 tasks due today")

	// Re-scanning within the same minute does not repeat.
	before := len(f.inapp.List())
	f.scheduler.Scan(ctx, tasks, summaryTime.Add(30*time.Second))
	assert.Len(t, f.inapp.List(), before)
}

func TestScheduler_DailySummaryZeroTasksNotMarked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.settings.Update(ctx, func(s *settings.NotificationSettings) {
		s.DailySummaryEnabled = true
		s.DailySummaryTime = "09:00"
	}))

	summaryTime := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

	// Nothing due today: no emission and no sent marker.
	f.scheduler.Scan(ctx, nil, summaryTime)
	assert.Empty(t, f.inapp.List())

	// A task due today appearing within the same minute still gets the
	// summary, because the marker was never set.
	tasks := []domain.Task{taskDueAt("task-1", summaryTime.Add(2*time.Hour))}
	f.scheduler.Scan(ctx, tasks, summaryTime.Add(20*time.Second))
	assert.Contains(t, inAppTypes(f), domain.NotificationDailySummary)
	assert.Contains(t, f.inapp.List()[0].Message, "You have 1 task due today")
}
