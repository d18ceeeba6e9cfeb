package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lintgate/lintgate/internal/store"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Aggregates for each gate run; issue text is never stored
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		ref TEXT NOT NULL,
		branch TEXT,
		files INTEGER NOT NULL,
		fixed_count INTEGER NOT NULL,
		new_count INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	-- Per-linter issue counts for each run
	CREATE TABLE IF NOT EXISTS run_linters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		linter TEXT NOT NULL,
		fixed INTEGER NOT NULL,
		new INTEGER NOT NULL,
		UNIQUE(run_id, linter),
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_run_linters_run ON run_linters(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a new gate run.
func (s *Store) CreateRun(ctx context.Context, run store.Run) error {
	query := `
		INSERT INTO runs (run_id, timestamp, ref, branch, files, fixed_count, new_count, warnings, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Timestamp.Unix(),
		run.Ref,
		run.Branch,
		run.Files,
		run.FixedCount,
		run.NewCount,
		run.Warnings,
		run.Duration.Milliseconds(),
	)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, error) {
	query := `
		SELECT run_id, timestamp, ref, branch, files, fixed_count, new_count, warnings, duration_ms
		FROM runs
		WHERE run_id = ?
	`

	var run store.Run
	var timestamp, durationMS int64

	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID,
		&timestamp,
		&run.Ref,
		&run.Branch,
		&run.Files,
		&run.FixedCount,
		&run.NewCount,
		&run.Warnings,
		&durationMS,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return store.Run{}, fmt.Errorf("run not found: %s", runID)
		}
		return store.Run{}, fmt.Errorf("failed to get run: %w", err)
	}

	run.Timestamp = time.Unix(timestamp, 0)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}

// ListRuns retrieves the most recent runs, limited by the given count.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `
		SELECT run_id, timestamp, ref, branch, files, fixed_count, new_count, warnings, duration_ms
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		var timestamp, durationMS int64

		if err := rows.Scan(
			&run.RunID,
			&timestamp,
			&run.Ref,
			&run.Branch,
			&run.Files,
			&run.FixedCount,
			&run.NewCount,
			&run.Warnings,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = time.Unix(timestamp, 0)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// SaveLinterTotals stores per-linter counts in a single transaction.
func (s *Store) SaveLinterTotals(ctx context.Context, totals []store.LinterTotals) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_linters (run_id, linter, fixed, new)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range totals {
		if _, err := stmt.ExecContext(ctx, t.RunID, t.Linter, t.Fixed, t.New); err != nil {
			return fmt.Errorf("failed to insert linter totals: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLinterTotalsByRun retrieves the per-linter counts for a given run.
func (s *Store) GetLinterTotalsByRun(ctx context.Context, runID string) ([]store.LinterTotals, error) {
	query := `
		SELECT run_id, linter, fixed, new
		FROM run_linters
		WHERE run_id = ?
		ORDER BY linter ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get linter totals: %w", err)
	}
	defer rows.Close()

	var totals []store.LinterTotals
	for rows.Next() {
		var t store.LinterTotals

		if err := rows.Scan(&t.RunID, &t.Linter, &t.Fixed, &t.New); err != nil {
			return nil, fmt.Errorf("failed to scan linter totals: %w", err)
		}

		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linter totals: %w", err)
	}

	return totals, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
