package domain

import "strings"

// Linter describes one external checker from the registry: the command
// template it runs, the files it applies to, and how its output is
// filtered.
type Linter struct {
	Name          string
	Command       []string          // argv template; the target file path is appended
	Extensions    []string          // file suffixes the linter applies to
	UseStderr     bool              // capture stderr instead of stdout
	RunByDefault  bool              // enabled unless overridden by a flag
	IgnoredIssues []string          // substrings that suppress matching issues
	ExcludedPaths []string          // path prefixes the linter never runs on
	Env           map[string]string // extra environment for the invocation
}

// Binary returns the executable name the linter invokes, or "" for an
// empty command template.
func (l Linter) Binary() string {
	if len(l.Command) == 0 {
		return ""
	}
	return l.Command[0]
}

// AppliesTo reports whether the linter should run on the given path: the
// path must end with one of the linter's extensions and must not fall
// under any excluded path prefix. A linter with no extensions applies to
// nothing.
func (l Linter) AppliesTo(path string) bool {
	if !hasAnySuffix(path, l.Extensions) {
		return false
	}
	return !hasAnyPrefix(path, l.ExcludedPaths)
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
