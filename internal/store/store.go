package store

import (
	"context"
	"time"
)

// Store defines the persistence layer interface for gate run history.
// Only aggregates are persisted; issue text never leaves the run that
// produced it.
type Store interface {
	// Run management
	CreateRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Per-linter counts
	SaveLinterTotals(ctx context.Context, totals []LinterTotals) error
	GetLinterTotalsByRun(ctx context.Context, runID string) ([]LinterTotals, error)

	// Utility
	Close() error
}

// Run represents a single gate execution.
type Run struct {
	RunID      string
	Timestamp  time.Time
	Ref        string
	Branch     string
	Files      int
	FixedCount int
	NewCount   int
	Warnings   int
	Duration   time.Duration
}

// LinterTotals records how many issues one linter fixed and introduced
// in one run.
type LinterTotals struct {
	RunID  string
	Linter string
	Fixed  int
	New    int
}
