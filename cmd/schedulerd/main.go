// Command schedulerd runs the TaskFlow notification scheduler: it loads the
// persisted task collection and notification state, then scans once a
// minute for reminders that are due.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/kvstore"
	"github.com/taskflow/taskflow/internal/notify"
	"github.com/taskflow/taskflow/internal/settings"
	"github.com/taskflow/taskflow/internal/stats"
	"github.com/taskflow/taskflow/internal/task"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadSchedulerConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	kv, err := openKV(ctx, cfg)
	if err != nil {
		slog.Error("failed to open key-value store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	settingsStore := settings.NewStore(ctx, kv)
	inapp := notify.NewInAppStore(ctx, kv)
	sent := notify.NewSentStore(ctx, kv)
	snooze := notify.NewSnoozeStore(ctx, kv)
	tasks := task.NewService(ctx, kv)

	scheduler := notify.NewScheduler(settingsStore, inapp, sent, snooze,
		notify.WithFocusHandler(func(taskID string) {
			slog.Info("notification clicked", "task_id", taskID)
		}),
	)

	if cfg.PostgresURL != "" {
		statsStore, err := stats.NewStore(ctx, stats.DBConfig{DSN: cfg.PostgresURL})
		if err != nil {
			slog.Error("failed to open stats backend", "error", err)
			os.Exit(1)
		}
		defer statsStore.Close()
		slog.Info("pomodoro stats backend ready")
	}

	scan := func() {
		scheduler.Scan(ctx, tasks.List(domain.SortByDueDate), time.Now())
	}

	// One immediate check, then the fixed cadence.
	scan()

	runner := cron.New()
	if _, err := runner.AddFunc("@every "+cfg.ScanInterval.String(), scan); err != nil {
		slog.Error("failed to schedule scan", "error", err)
		os.Exit(1)
	}
	runner.Start()

	slog.Info("scheduler started",
		"kv_backend", cfg.KVBackend,
		"scan_interval", cfg.ScanInterval.String(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("received shutdown signal, stopping scheduler")
	stopCtx := runner.Stop()
	cancel()
	<-stopCtx.Done()

	slog.Info("scheduler shut down gracefully")
}

func openKV(ctx context.Context, cfg *config.SchedulerConfig) (kvstore.Store, error) {
	if cfg.KVBackend == config.KVBackendSQLite {
		return kvstore.NewSQLiteStore(ctx, cfg.SQLitePath)
	}
	return kvstore.NewFSStore(cfg.DataDir)
}
