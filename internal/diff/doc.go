// Package diff computes line-number correspondence tables between two
// versions of a file from its unified diff.
//
// The tables drive issue reconciliation: a finding reported at a line of
// one version is translated to the matching line of the other version,
// or treated as unmatched when that line was added or removed. Lines not
// covered by any hunk are extrapolated with the offset carried from the
// most recently resolved pair, which approximates unchanged regions that
// fall outside the diff's context window. The extrapolation is a
// best-effort heuristic, not a guarantee, for files with many widely
// separated edits.
package diff
