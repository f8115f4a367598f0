// Package stats persists pomodoro sessions and derives per-day and total
// focus statistics. It is the one server-backed piece of the application;
// the scheduler core never depends on it.
package stats

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SessionType distinguishes focus work from breaks.
type SessionType string

const (
	SessionWork  SessionType = "work"
	SessionBreak SessionType = "break"
)

// Session is one recorded pomodoro interval.
type Session struct {
	ID              string
	UserID          string
	Type            SessionType
	DurationMinutes int
	CreatedAt       time.Time
}

// Summary aggregates a user's sessions.
type Summary struct {
	TotalSessions     int
	TotalFocusMinutes int
	TotalBreaks       int
	SessionsToday     int
}

// DBConfig holds PostgreSQL connection configuration.
type DBConfig struct {
	DSN             string
	MaxOpenConns    int           // default 10
	ConnMaxLifetime time.Duration // default 5min
}

// Store is a PostgreSQL-backed session store.
type Store struct {
	db *sql.DB
}

// NewStore opens the database, configures the pool, and runs migrations.
func NewStore(ctx context.Context, cfg DBConfig) (*Store, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSession inserts one session for the user.
func (s *Store) RecordSession(ctx context.Context, userID string, sessionType SessionType, durationMinutes int) (Session, error) {
	session := Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            sessionType,
		DurationMinutes: durationMinutes,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pomodoro_sessions (id, user_id, session_type, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, string(session.Type), session.DurationMinutes, session.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("failed to record session: %w", err)
	}

	return session, nil
}

// UserSummary aggregates the user's sessions: lifetime totals plus the
// count of sessions started today (UTC calendar day).
func (s *Store) UserSummary(ctx context.Context, userID string) (Summary, error) {
	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)

	var out Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(duration_minutes) FILTER (WHERE session_type = 'work'), 0),
			COUNT(*) FILTER (WHERE session_type = 'break'),
			COUNT(*) FILTER (WHERE created_at >= $2)
		FROM pomodoro_sessions
		WHERE user_id = $1`,
		userID, startOfDay).Scan(
		&out.TotalSessions, &out.TotalFocusMinutes, &out.TotalBreaks, &out.SessionsToday)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize sessions: %w", err)
	}

	return out, nil
}
