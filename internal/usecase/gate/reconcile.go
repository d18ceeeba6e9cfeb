package gate

import (
	"strings"

	"github.com/lintgate/lintgate/internal/diff"
	"github.com/lintgate/lintgate/internal/domain"
)

// genericErrorMarker flags linter lines that name an error without a line
// number, e.g. "foo.py: error: duplicate module". Such lines can still be
// compared across revisions once the file prefix is swapped.
const genericErrorMarker = ": error:"

// Reconciliation partitions one (file, linter) pair's output into the
// issues only the reference copy reported (fixed) and the issues only the
// working copy reported (new). Lines reported by both sides, after file
// and line translation, are pre-existing and appear in neither set.
type Reconciliation struct {
	Fixed []domain.Issue
	New   []domain.Issue
}

// Reconcile classifies the raw output of two linter runs over the same
// file: refLines came from the reference copy at refPath, workLines from
// the working copy at workPath. The mapping translates line numbers
// between the two revisions. The comparison is textual; an issue whose
// message changed between revisions counts as fixed on one side and new
// on the other.
func Reconcile(refLines, workLines []string, refPath, workPath string, mapping diff.Mapping) Reconciliation {
	refRaw := rawSet(refLines)
	workRaw := rawSet(workLines)

	var rec Reconciliation
	for _, line := range refLines {
		issue := domain.ParseIssue(line, refPath)
		if unmatched(issue, workPath, workRaw, mapping.NewLine) {
			rec.Fixed = append(rec.Fixed, issue)
		}
	}
	for _, line := range workLines {
		issue := domain.ParseIssue(line, workPath)
		if unmatched(issue, refPath, refRaw, mapping.OldLine) {
			rec.New = append(rec.New, issue)
		}
	}
	return rec
}

// unmatched reports whether issue lacks a counterpart in the other side's
// raw output once its file and line number are translated across. Issues
// carrying neither a line number nor the generic error marker cannot be
// compared and are never exclusive to one side.
func unmatched(issue domain.Issue, otherPath string, otherRaw map[string]struct{}, translate func(int) int) bool {
	if issue.Numbered() {
		line := translate(issue.Line)
		if line == diff.NoMatch {
			return true
		}
		_, found := otherRaw[issue.Relocated(otherPath, line).String()]
		return !found
	}
	if strings.Contains(issue.Rest, genericErrorMarker) {
		_, found := otherRaw[issue.Relocated(otherPath, issue.Line).String()]
		return !found
	}
	return false
}

func rawSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		set[line] = struct{}{}
	}
	return set
}
