// Package config holds the environment-driven configuration of the
// scheduler host binary.
package config

import (
	"fmt"
	"time"

	"github.com/taskflow/taskflow/internal/env"
)

// KV backend selectors.
const (
	KVBackendFS     = "fs"
	KVBackendSQLite = "sqlite"
)

// SchedulerConfig configures the schedulerd binary.
type SchedulerConfig struct {
	// DataDir is the root of the filesystem KV store.
	DataDir string `env:"TASKFLOW_DATA_DIR"`

	// KVBackend selects the persistent store: "fs" or "sqlite".
	KVBackend string `env:"TASKFLOW_KV_BACKEND"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `env:"TASKFLOW_SQLITE_PATH"`

	// ScanInterval is the notification scan cadence.
	ScanInterval time.Duration `env:"TASKFLOW_SCAN_INTERVAL"`

	// PostgresURL, when set, enables the pomodoro stats backend.
	PostgresURL string `env:"TASKFLOW_POSTGRES_URL"`
}

// Validate checks the loaded configuration.
func (c *SchedulerConfig) Validate() error {
	switch c.KVBackend {
	case KVBackendFS, KVBackendSQLite:
	default:
		return fmt.Errorf("unknown kv backend %q", c.KVBackend)
	}

	if c.ScanInterval < time.Second {
		return fmt.Errorf("scan interval %s is below 1s", c.ScanInterval)
	}

	return nil
}

// LoadSchedulerConfig loads and validates the scheduler configuration,
// applying defaults for unset variables.
func LoadSchedulerConfig() (*SchedulerConfig, error) {
	cfg := &SchedulerConfig{
		DataDir:      "data",
		KVBackend:    KVBackendFS,
		SQLitePath:   "taskflow.db",
		ScanInterval: time.Minute,
	}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load scheduler config: %w", err)
	}

	return cfg, nil
}
