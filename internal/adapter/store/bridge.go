package store

import (
	"context"
	"sort"

	"github.com/lintgate/lintgate/internal/store"
	"github.com/lintgate/lintgate/internal/usecase/gate"
)

// Bridge adapts store.Store to the gate.HistoryStore interface.
// This avoids circular dependencies between packages.
type Bridge struct {
	store store.Store
}

// NewBridge creates a new store adapter.
func NewBridge(s store.Store) *Bridge {
	return &Bridge{store: s}
}

// SaveRun converts and saves one run record with its per-linter counts.
func (b *Bridge) SaveRun(ctx context.Context, record gate.RunRecord) error {
	runID := store.GenerateRunID(record.Timestamp, record.Ref, record.Branch)

	run := store.Run{
		RunID:      runID,
		Timestamp:  record.Timestamp,
		Ref:        record.Ref,
		Branch:     record.Branch,
		Files:      record.Files,
		FixedCount: record.FixedCount,
		NewCount:   record.NewCount,
		Warnings:   record.Warnings,
		Duration:   record.Duration,
	}
	if err := b.store.CreateRun(ctx, run); err != nil {
		return err
	}

	if len(record.PerLinter) == 0 {
		return nil
	}

	// Sorted for deterministic insert order
	names := make([]string, 0, len(record.PerLinter))
	for name := range record.PerLinter {
		names = append(names, name)
	}
	sort.Strings(names)

	totals := make([]store.LinterTotals, 0, len(names))
	for _, name := range names {
		t := record.PerLinter[name]
		totals = append(totals, store.LinterTotals{
			RunID:  runID,
			Linter: name,
			Fixed:  t.Fixed,
			New:    t.New,
		})
	}
	return b.store.SaveLinterTotals(ctx, totals)
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}
