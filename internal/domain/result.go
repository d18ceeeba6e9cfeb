package domain

import "time"

// PairResult is the reconciled outcome for one (file, linter) pair. The
// Fixed and New lists are disjoint; findings present in both versions are
// dropped during reconciliation and never reported.
type PairResult struct {
	File    string
	Linter  string
	Fixed   []Issue
	New     []Issue
	Warning string // non-empty when the pair degraded and contributed no issues
}

// FileReport groups the reconciled results for one file across every
// linter that ran on it, in registry order, each list sorted by line.
type FileReport struct {
	File     string
	Fixed    []Issue
	New      []Issue
	Warnings []string
}

// RunSummary carries the run-wide totals that determine the terminal
// outcome. Fixed findings are reported but never fail the run.
type RunSummary struct {
	Files      int
	Linters    int
	FixedCount int
	NewCount   int
	Warnings   int
	Duration   time.Duration
}

// Success reports whether the run passed: no new issues were introduced.
func (s RunSummary) Success() bool {
	return s.NewCount == 0
}
