// Package console renders gate progress and results to a terminal,
// with ANSI styling when the output supports it.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lintgate/lintgate/internal/domain"
)

var (
	colorSuccess = lipgloss.Color("2")
	colorFailure = lipgloss.Color("1")
	colorWarning = lipgloss.Color("3")
	colorInfo    = lipgloss.Color("6")
	colorMuted   = lipgloss.Color("8")
)

// styleSet holds the styles for one renderer instance so that color can
// be switched off per invocation rather than process-wide.
type styleSet struct {
	header  lipgloss.Style
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(color bool) styleSet {
	if !color {
		plain := lipgloss.NewStyle()
		return styleSet{
			header:  plain,
			title:   plain,
			success: plain,
			failure: plain,
			warning: plain,
			info:    plain,
			dim:     plain,
		}
	}
	return styleSet{
		header:  lipgloss.NewStyle().Bold(true),
		title:   lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		failure: lipgloss.NewStyle().Foreground(colorFailure),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
		info:    lipgloss.NewStyle().Foreground(colorInfo),
		dim:     lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Renderer writes gate outcomes to out. It is not safe for concurrent
// use; the orchestrator renders after the worker pool drains.
type Renderer struct {
	out    io.Writer
	styles styleSet
}

// New creates a renderer. Pass color=false when out is not a terminal.
func New(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, styles: newStyles(color)}
}

// NoFiles reports that nothing was selected for analysis.
func (r *Renderer) NoFiles() {
	fmt.Fprintln(r.out, r.styles.success.Render("No changed files."))
}

// DirtyWarning reports uncommitted changes to tracked files.
func (r *Renderer) DirtyWarning(files []string) {
	fmt.Fprintln(r.out, r.styles.warning.Render("You have uncommitted changes to tracked files."))
	for _, file := range files {
		fmt.Fprintln(r.out, r.styles.dim.Render("  "+file))
	}
}

// RunStarted announces the linters, files, and reference in play.
func (r *Renderer) RunStarted(linters []domain.Linter, files []string, ref string) {
	names := make([]string, len(linters))
	for i, linter := range linters {
		names[i] = linter.Name
	}
	header := fmt.Sprintf("Running %d linters (%s) on %d %s against %s.",
		len(linters), strings.Join(names, ", "), len(files), fileWord(len(files)), ref)
	fmt.Fprintln(r.out, r.styles.header.Render(header))
	for _, file := range files {
		fmt.Fprintln(r.out, file)
	}
}

// FileReport renders the classified issues for one file: new issues
// verbatim, a fixed count, and any degradation warnings.
func (r *Renderer) FileReport(report domain.FileReport) {
	fmt.Fprintln(r.out, r.styles.title.Render(report.File+":"))
	for _, warning := range report.Warnings {
		fmt.Fprintln(r.out, r.styles.warning.Render(warning))
	}
	if len(report.New) == 0 {
		fmt.Fprintln(r.out, r.styles.dim.Render("no issues"))
	} else {
		for _, issue := range report.New {
			fmt.Fprintln(r.out, issue.String())
		}
	}
	if n := len(report.Fixed); n > 0 {
		fmt.Fprintln(r.out, r.styles.success.Render(fmt.Sprintf("%d issues fixed", n)))
	}
}

// Summary renders the run totals and the final verdict.
func (r *Renderer) Summary(files []string, summary domain.RunSummary) {
	fmt.Fprintf(r.out, "\n%s\n", r.styles.header.Render(fmt.Sprintf("Summary: analyzed %d files:", len(files))))
	for _, file := range files {
		fmt.Fprintln(r.out, file)
	}
	if summary.FixedCount > 0 {
		fmt.Fprintf(r.out, "\n%s\n", r.styles.success.Render(fmt.Sprintf("Fixed %d issues.", summary.FixedCount)))
	}
	if summary.NewCount > 0 {
		fmt.Fprintf(r.out, "\n%s\n", r.styles.failure.Render(fmt.Sprintf("Found %d issues.", summary.NewCount)))
	} else {
		fmt.Fprintf(r.out, "\n%s\n", r.styles.success.Render("No issues found."))
	}
}

func fileWord(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
