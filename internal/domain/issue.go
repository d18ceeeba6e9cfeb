package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// NoLine is the sentinel line number for issues whose text carries no
// ":<digits>:" field. Unnumbered issues sort before numbered ones.
const NoLine = -1

var lineField = regexp.MustCompile(`:(\d+):`)

// Issue is one diagnostic line emitted by a linter, split into the file
// path prefix, an optional ":<digits>:" line field, and the surrounding
// text. The split is lossless: String reassembles the original line.
type Issue struct {
	File string // path prefix exactly as the linter printed it
	Mid  string // text between the file prefix and the line field, usually empty
	Line int    // extracted line number, NoLine when absent
	Rest string // everything after the line field (or after the file prefix)
}

// ParseIssue splits a raw linter output line into an Issue. The raw line
// must begin with file; the first ":<digits>:" occurrence after the file
// prefix becomes the line field.
func ParseIssue(raw, file string) Issue {
	rest := strings.TrimPrefix(raw, file)
	loc := lineField.FindStringIndex(rest)
	if loc == nil {
		return Issue{File: file, Line: NoLine, Rest: rest}
	}
	n, err := strconv.Atoi(rest[loc[0]+1 : loc[1]-1])
	if err != nil {
		return Issue{File: file, Line: NoLine, Rest: rest}
	}
	return Issue{
		File: file,
		Mid:  rest[:loc[0]],
		Line: n,
		Rest: rest[loc[1]:],
	}
}

// String reassembles the issue into the exact text the linter emitted.
func (i Issue) String() string {
	if i.Line == NoLine {
		return i.File + i.Rest
	}
	return i.File + i.Mid + ":" + strconv.Itoa(i.Line) + ":" + i.Rest
}

// Numbered reports whether the issue carries a line field.
func (i Issue) Numbered() bool {
	return i.Line != NoLine
}

// Relocated returns a copy of the issue pointing at a different file and
// line, keeping the message text intact. Used to rewrite a finding from
// one file version into the coordinates of the other.
func (i Issue) Relocated(file string, line int) Issue {
	out := i
	out.File = file
	out.Line = line
	return out
}

// ContainsAny reports whether the issue text contains any of the given
// substrings. Matching runs against the original text, not a relocated
// rendering.
func (i Issue) ContainsAny(substrings []string) bool {
	text := i.String()
	for _, s := range substrings {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}
