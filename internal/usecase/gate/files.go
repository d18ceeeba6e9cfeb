package gate

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/lintgate/lintgate/internal/domain"
)

// SelectFiles filters candidate paths down to the files the gate should
// analyze: paths under basePath that at least one of the linters applies
// to. The result is sorted and free of duplicates.
func SelectFiles(linters []domain.Linter, candidates []string, basePath string) []string {
	base := filepath.Clean(basePath)
	seen := make(map[string]struct{}, len(candidates))
	var files []string
	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		if !underBase(candidate, base) {
			continue
		}
		for _, linter := range linters {
			if linter.AppliesTo(candidate) {
				files = append(files, candidate)
				break
			}
		}
	}
	sort.Strings(files)
	return files
}

// underBase reports whether path sits at or below base. A base of "."
// places every repository path in scope.
func underBase(path, base string) bool {
	if base == "." || base == "" {
		return true
	}
	return path == base || strings.HasPrefix(path, base+"/")
}
