// Package history persists run outcomes in a sqlite database inside the
// log folder, so past runs can be inspected with `pygate history`.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vertti/pygate/pkg/check"
)

// DefaultFileName is the database file created inside the log folder.
const DefaultFileName = "history.db"

// defaultRetention is how many runs are kept before pruning.
const defaultRetention = 200

// Run summarises one gate run.
type Run struct {
	ID         string    `json:"id"`
	Project    string    `json:"project"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Passed     int       `json:"passed"`
	Failed     int       `json:"failed"`
}

// RunCheck is one check outcome inside a run.
type RunCheck struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	DurationMS int64  `json:"duration_ms"`
}

// Store wraps read/write access to the history database.
type Store struct {
	db        *sql.DB
	retention int
}

// Open initialises the sqlite store with WAL enabled and the required
// schema, creating the parent directory when needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db, retention: defaultRetention}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func configure(db *sql.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			duration_ms INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs (started_at DESC);`,
		`CREATE TABLE IF NOT EXISTS run_checks (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			passed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// RecordRun persists a run and its per-check outcomes, then enforces
// retention. Passed and Failed counts are derived from the results.
func (s *Store) RecordRun(ctx context.Context, run Run, results []check.Result) error {
	if s == nil || s.db == nil {
		return nil
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	passed, failed := 0, 0
	for _, r := range results {
		if r.OK() {
			passed++
		} else {
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, started_at, duration_ms, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Project, run.StartedAt.UTC(), run.DurationMS, passed, failed)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, r := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_checks (run_id, position, name, passed, duration_ms)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, i, r.Name, boolToInt(r.OK()), int64(r.Duration/time.Millisecond))
		if err != nil {
			return fmt.Errorf("insert run check: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		)
	`, s.retention)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM run_checks WHERE run_id NOT IN (SELECT id FROM runs)
	`)
	if err != nil {
		return fmt.Errorf("prune run checks: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first. The slice is never
// nil so an empty history renders as [] in JSON.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project, started_at, duration_ms, passed, failed
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Project, &r.StartedAt, &r.DurationMS, &r.Passed, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunChecks returns the check outcomes of one run in execution order.
func (s *Store) RunChecks(ctx context.Context, runID string) ([]RunCheck, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, passed, duration_ms
		FROM run_checks
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run checks: %w", err)
	}
	defer rows.Close()

	checks := make([]RunCheck, 0, 8)
	for rows.Next() {
		var c RunCheck
		var passed int
		if err := rows.Scan(&c.Name, &passed, &c.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run check: %w", err)
		}
		c.Passed = passed == 1
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run checks: %w", err)
	}
	return checks, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
