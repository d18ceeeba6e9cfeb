package gate

import (
	"sort"
	"time"

	"github.com/lintgate/lintgate/internal/domain"
)

// Aggregate folds per-pair results into per-file reports and run totals.
// Pairs arrive grouped by file with linters in registry order, and the
// sort is stable, so issues on the same line keep registry order. The
// warnings map carries per-file notes recorded outside any single pair,
// such as a diff that could not be parsed.
func Aggregate(files []string, pairs []domain.PairResult, warnings map[string][]string, linterCount int, duration time.Duration) ([]domain.FileReport, domain.RunSummary) {
	byFile := make(map[string][]domain.PairResult, len(files))
	for _, pair := range pairs {
		byFile[pair.File] = append(byFile[pair.File], pair)
	}

	reports := make([]domain.FileReport, 0, len(files))
	summary := domain.RunSummary{
		Files:    len(files),
		Linters:  linterCount,
		Duration: duration,
	}
	for _, file := range files {
		report := domain.FileReport{File: file}
		report.Warnings = append(report.Warnings, warnings[file]...)
		for _, pair := range byFile[file] {
			report.Fixed = append(report.Fixed, pair.Fixed...)
			report.New = append(report.New, pair.New...)
			if pair.Warning != "" {
				report.Warnings = append(report.Warnings, pair.Warning)
			}
		}
		sortIssues(report.Fixed)
		sortIssues(report.New)
		summary.FixedCount += len(report.Fixed)
		summary.NewCount += len(report.New)
		summary.Warnings += len(report.Warnings)
		reports = append(reports, report)
	}
	return reports, summary
}

// sortIssues orders issues by line number, keeping the incoming order for
// equal lines. Unnumbered issues carry a line of -1 and sort first.
func sortIssues(issues []domain.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
}
