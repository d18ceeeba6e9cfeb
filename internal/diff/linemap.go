package diff

import (
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// NoMatch marks a line with no counterpart in the other file version.
const NoMatch = -1

// Mapping relates line numbers between the reference and working
// versions of one file. Both tables are 1-indexed with index 0 unused;
// OldToNew is empty when the file has no content at the reference
// revision. A Mapping is immutable once computed.
type Mapping struct {
	OldToNew []int
	NewToOld []int
}

// NewLine returns the working-side line corresponding to the given
// reference-side line, or NoMatch if the line was removed or falls
// outside the table.
func (m Mapping) NewLine(oldLine int) int {
	return lookup(m.OldToNew, oldLine)
}

// OldLine returns the reference-side line corresponding to the given
// working-side line, or NoMatch if the line was added or falls outside
// the table.
func (m Mapping) OldLine(newLine int) int {
	return lookup(m.NewToOld, newLine)
}

// RefMissing reports whether the reference side has no lines to map,
// which happens when the file is absent at the reference revision.
func (m Mapping) RefMissing() bool {
	return len(m.OldToNew) == 0
}

func lookup(table []int, line int) int {
	if line < 1 || line >= len(table) {
		return NoMatch
	}
	return table[line]
}

// Identity returns the mapping for an unchanged file: every line maps
// to itself on both sides.
func Identity(lineCount int) Mapping {
	return Mapping{
		OldToNew: fillGaps(nil, lineCount),
		NewToOld: fillGaps(nil, lineCount),
	}
}

// ComputeMapping parses the unified diff between the reference and
// working versions of one file and derives the line mapping. The diff
// text may be empty (unchanged file) or contain the usual git envelope
// (diff --git, index, ---, +++ headers). oldLineCount must be 0 when
// the file is absent at the reference revision, which yields an empty
// OldToNew table.
func ComputeMapping(diffText string, oldLineCount, newLineCount int) (Mapping, error) {
	oldEntries := make(map[int]int)
	newEntries := make(map[int]int)

	if strings.TrimSpace(diffText) != "" {
		files, err := godiff.NewMultiFileDiffReader(strings.NewReader(diffText)).ReadAllFiles()
		if err != nil {
			return Mapping{}, err
		}
		for _, file := range files {
			for _, hunk := range file.Hunks {
				walkHunk(hunk, oldEntries, newEntries)
			}
		}
	}

	var oldToNew []int
	if oldLineCount > 0 {
		oldToNew = fillGaps(oldEntries, oldLineCount)
	}
	return Mapping{
		OldToNew: oldToNew,
		NewToOld: fillGaps(newEntries, newLineCount),
	}, nil
}

// walkHunk advances a cursor pair through the hunk body: a deletion
// consumes a reference line with no counterpart, an insertion consumes
// a working line with no counterpart, and a context line pairs the two
// cursors and advances both.
func walkHunk(hunk *godiff.Hunk, oldEntries, newEntries map[int]int) {
	oldCursor := int(hunk.OrigStartLine)
	newCursor := int(hunk.NewStartLine)

	body := strings.TrimSuffix(string(hunk.Body), "\n")
	if body == "" {
		return
	}
	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			oldEntries[oldCursor] = NoMatch
			oldCursor++
		case strings.HasPrefix(line, "+"):
			newEntries[newCursor] = NoMatch
			newCursor++
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file" consumes no line on either side.
		default:
			oldEntries[oldCursor] = newCursor
			newEntries[newCursor] = oldCursor
			oldCursor++
			newCursor++
		}
	}
}

// fillGaps extends the sparse per-hunk entries to a dense 1-indexed
// table of the given length. Lines not covered by any hunk map across
// with the offset of the most recently resolved pair; entries mapped to
// NoMatch keep the previous offset, so a deletion does not skew the
// extrapolation of the lines that follow it.
func fillGaps(entries map[int]int, lineCount int) []int {
	table := make([]int, lineCount+1)
	table[0] = NoMatch
	gap := 0
	for i := 1; i <= lineCount; i++ {
		if mapped, ok := entries[i]; ok {
			table[i] = mapped
			if mapped != NoMatch {
				gap = mapped - i
			}
			continue
		}
		table[i] = i + gap
	}
	return table
}
