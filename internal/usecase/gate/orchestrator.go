package gate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lintgate/lintgate/internal/diff"
	"github.com/lintgate/lintgate/internal/domain"
)

// worktreeReleaseTimeout bounds the teardown of the reference checkout,
// which must run even after the run context has been canceled.
const worktreeReleaseTimeout = 30 * time.Second

// GitEngine abstracts the repository operations the gate needs.
type GitEngine interface {
	// ResolveRef resolves a branch, tag, or revision to a commit hash.
	ResolveRef(ctx context.Context, ref string) (string, error)

	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch(ctx context.Context) (string, error)

	// ChangedFiles returns the paths that differ between the index and
	// the reference revision.
	ChangedFiles(ctx context.Context, ref string) ([]string, error)

	// DirtyFiles returns tracked files with staged or unstaged
	// modifications.
	DirtyFiles(ctx context.Context) ([]string, error)

	// AllFiles returns every tracked path.
	AllFiles(ctx context.Context) ([]string, error)

	// ExistingAtHead filters paths down to those present in the HEAD
	// commit, preserving input order.
	ExistingAtHead(ctx context.Context, paths []string) ([]string, error)

	// DiffText returns the unified diff between the reference revision
	// and the working copy of a single file.
	DiffText(ctx context.Context, ref, path string) (string, error)

	// AddWorktree materializes a detached checkout of ref at dir.
	AddWorktree(ctx context.Context, dir, ref string) error

	// RemoveWorktree tears down a checkout created by AddWorktree.
	RemoveWorktree(ctx context.Context, dir string) error

	// InstallLFS prepares LFS so the checkout skips smudging.
	InstallLFS(ctx context.Context, dir string) error

	// PullLFS fetches LFS objects into the checkout at dir.
	PullLFS(ctx context.Context, dir string) error
}

// LinterRunner executes one linter over one file and returns the output
// lines that begin with the file path.
type LinterRunner interface {
	Run(ctx context.Context, linter domain.Linter, filePath string) ([]string, error)
}

// Renderer presents gate outcomes to the user.
type Renderer interface {
	// NoFiles reports that nothing was selected for analysis.
	NoFiles()

	// DirtyWarning reports uncommitted changes to tracked files.
	DirtyWarning(files []string)

	// RunStarted announces the linters, files, and reference in play.
	RunStarted(linters []domain.Linter, files []string, ref string)

	// FileReport renders the classified issues for one file.
	FileReport(report domain.FileReport)

	// Summary renders the run totals and final verdict.
	Summary(files []string, summary domain.RunSummary)
}

// HistoryStore persists run-level aggregates for later inspection. Issue
// text is never stored, only counts.
type HistoryStore interface {
	SaveRun(ctx context.Context, record RunRecord) error
	Close() error
}

// RunRecord is the persisted shape of one gate run.
type RunRecord struct {
	Timestamp  time.Time
	Ref        string
	Branch     string
	Files      int
	FixedCount int
	NewCount   int
	Warnings   int
	Duration   time.Duration
	PerLinter  map[string]LinterTotals
}

// LinterTotals carries the per-linter issue counts of a run.
type LinterTotals struct {
	Fixed int
	New   int
}

// Request captures one gate invocation.
type Request struct {
	Ref                string
	BasePath           string
	AllFiles           bool
	IncludePreexisting bool
	IgnoreDirty        bool
	UseGitLFS          bool
	Workers            int
}

// Result captures the gate outcome for exit-code decisions.
type Result struct {
	Reports []domain.FileReport
	Summary domain.RunSummary
}

// Deps captures the collaborators for the orchestrator.
type Deps struct {
	Git      GitEngine
	Runner   LinterRunner
	Renderer Renderer
	Store    HistoryStore // Optional: persistence for run aggregates
	Logger   Logger       // Optional: structured logging for progress and warnings
}

// Orchestrator implements the differential gate flow: discover files,
// materialize the reference checkout, fan (file, linter) pairs out to a
// bounded pool, and fold the classified results into reports.
type Orchestrator struct {
	deps Deps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) validateDependencies() error {
	if o.deps.Git == nil {
		return errors.New("git engine is required")
	}
	if o.deps.Runner == nil {
		return errors.New("linter runner is required")
	}
	if o.deps.Renderer == nil {
		return errors.New("renderer is required")
	}
	// Store is optional
	// Logger is optional
	return nil
}

// Run executes the gate for the given linters and request. Linter and
// diff failures scoped to a single (file, linter) pair degrade to
// warnings; only configuration and history resolution problems abort.
func (o *Orchestrator) Run(ctx context.Context, linters []domain.Linter, req Request) (Result, error) {
	if err := o.validateDependencies(); err != nil {
		return Result{}, domain.NewConfigurationError("invalid gate wiring", err)
	}
	if len(linters) == 0 {
		return Result{}, domain.NewConfigurationError("no linters enabled", nil)
	}
	if req.Ref == "" {
		return Result{}, domain.NewConfigurationError("reference revision not set", nil)
	}
	workers := req.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	hash, err := o.deps.Git.ResolveRef(ctx, req.Ref)
	if err != nil {
		return Result{}, domain.NewHistoryResolutionError(fmt.Sprintf("reference %s not found", req.Ref), err)
	}
	o.logInfo(ctx, "reference resolved", map[string]interface{}{"ref": req.Ref, "commit": hash})

	files, err := o.discoverFiles(ctx, linters, req)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		o.deps.Renderer.NoFiles()
		return Result{Summary: domain.RunSummary{Linters: len(linters), Duration: time.Since(start)}}, nil
	}

	o.deps.Renderer.RunStarted(linters, files, req.Ref)

	var worktreeDir string
	if !req.IncludePreexisting {
		worktreeDir, err = o.acquireWorktree(ctx, req)
		if err != nil {
			return Result{}, err
		}
		defer o.releaseWorktree(worktreeDir)
	}

	contexts := o.fileContexts(ctx, files, worktreeDir, req)

	slots := make([]domain.PairResult, len(files)*len(linters))
	type pairJob struct {
		slot   int
		file   string
		linter domain.Linter
	}
	var jobs []pairJob
	for fi, file := range files {
		for li, linter := range linters {
			idx := fi*len(linters) + li
			slots[idx] = domain.PairResult{File: file, Linter: linter.Name}
			if linter.AppliesTo(file) {
				jobs = append(jobs, pairJob{slot: idx, file: file, linter: linter})
			}
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			slots[job.slot] = o.runPair(gCtx, job.file, job.linter, contexts[job.file], worktreeDir, req.IncludePreexisting)
			// Pair failures are recorded as warnings, never propagated.
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("gate run canceled: %w", err)
	}

	warnings := make(map[string][]string)
	for file, fctx := range contexts {
		if fctx.warning != "" {
			warnings[file] = append(warnings[file], fctx.warning)
		}
	}

	reports, summary := Aggregate(files, slots, warnings, len(linters), time.Since(start))
	for _, report := range reports {
		o.deps.Renderer.FileReport(report)
	}
	o.deps.Renderer.Summary(files, summary)

	o.saveRun(ctx, req, start, slots, summary)

	return Result{Reports: reports, Summary: summary}, nil
}

// discoverFiles assembles the candidate list the way a reviewer would
// see the change: every path differing from the reference, plus dirty
// tracked files unless ignored, kept only if present in HEAD.
func (o *Orchestrator) discoverFiles(ctx context.Context, linters []domain.Linter, req Request) ([]string, error) {
	if req.AllFiles {
		all, err := o.deps.Git.AllFiles(ctx)
		if err != nil {
			return nil, domain.NewHistoryResolutionError("list tracked files", err)
		}
		return SelectFiles(linters, all, req.BasePath), nil
	}

	changed, err := o.deps.Git.ChangedFiles(ctx, req.Ref)
	if err != nil {
		return nil, domain.NewHistoryResolutionError(fmt.Sprintf("diff against %s", req.Ref), err)
	}
	if !req.IgnoreDirty {
		dirty, err := o.deps.Git.DirtyFiles(ctx)
		if err != nil {
			return nil, domain.NewHistoryResolutionError("inspect working tree state", err)
		}
		if len(dirty) > 0 {
			o.deps.Renderer.DirtyWarning(dirty)
			changed = append(changed, dirty...)
		}
	}
	existing, err := o.deps.Git.ExistingAtHead(ctx, changed)
	if err != nil {
		return nil, domain.NewHistoryResolutionError("filter files against HEAD", err)
	}
	return SelectFiles(linters, existing, req.BasePath), nil
}

// acquireWorktree materializes the reference checkout in a fresh
// temporary directory. LFS steps are best effort; checkout failure is
// fatal because every reconciliation depends on the reference copy.
func (o *Orchestrator) acquireWorktree(ctx context.Context, req Request) (string, error) {
	dir, err := os.MkdirTemp("", "lintgate-ref-")
	if err != nil {
		return "", domain.NewHistoryResolutionError("create reference checkout directory", err)
	}
	if req.UseGitLFS {
		o.logInfo(ctx, "initializing git lfs", map[string]interface{}{"dir": dir})
		if err := o.deps.Git.InstallLFS(ctx, dir); err != nil {
			o.logWarning(ctx, "git lfs install failed", map[string]interface{}{"error": err.Error()})
		}
	}
	o.logInfo(ctx, "creating reference worktree", map[string]interface{}{"dir": dir, "ref": req.Ref})
	if err := o.deps.Git.AddWorktree(ctx, dir, req.Ref); err != nil {
		_ = os.Remove(dir)
		return "", domain.NewHistoryResolutionError(fmt.Sprintf("materialize reference worktree for %s", req.Ref), err)
	}
	if req.UseGitLFS {
		o.logInfo(ctx, "pulling git lfs objects", map[string]interface{}{"dir": dir})
		if err := o.deps.Git.PullLFS(ctx, dir); err != nil {
			o.logWarning(ctx, "git lfs pull failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return dir, nil
}

// releaseWorktree tears the reference checkout down exactly once, on a
// fresh context so cancellation of the run cannot leak the checkout.
func (o *Orchestrator) releaseWorktree(dir string) {
	ctx, cancel := context.WithTimeout(context.Background(), worktreeReleaseTimeout)
	defer cancel()
	o.logInfo(ctx, "removing reference worktree", map[string]interface{}{"dir": dir})
	if err := o.deps.Git.RemoveWorktree(ctx, dir); err != nil {
		o.logWarning(ctx, "failed to remove reference worktree", map[string]interface{}{"dir": dir, "error": err.Error()})
	}
}

// fileContext carries the per-file inputs shared by every linter pair on
// that file.
type fileContext struct {
	mapping diff.Mapping
	warning string
}

// fileContexts computes the line mapping for every file up front, before
// any worker starts. A file whose diff cannot be parsed degrades to an
// empty mapping, which classifies every working-side issue as new, and
// carries a warning.
func (o *Orchestrator) fileContexts(ctx context.Context, files []string, worktreeDir string, req Request) map[string]fileContext {
	contexts := make(map[string]fileContext, len(files))
	if req.IncludePreexisting {
		return contexts
	}
	for _, file := range files {
		contexts[file] = o.buildFileContext(ctx, file, worktreeDir, req.Ref)
	}
	return contexts
}

func (o *Orchestrator) buildFileContext(ctx context.Context, file, worktreeDir, ref string) fileContext {
	diffText, err := o.deps.Git.DiffText(ctx, ref, file)
	if err != nil {
		return o.degradedContext(ctx, file, err)
	}
	oldCount, err := countFileLines(filepath.Join(worktreeDir, file))
	if err != nil {
		return o.degradedContext(ctx, file, err)
	}
	newCount, err := countFileLines(file)
	if err != nil {
		return o.degradedContext(ctx, file, err)
	}
	mapping, err := diff.ComputeMapping(diffText, oldCount, newCount)
	if err != nil {
		return o.degradedContext(ctx, file, err)
	}
	return fileContext{mapping: mapping}
}

func (o *Orchestrator) degradedContext(ctx context.Context, file string, err error) fileContext {
	parseErr := domain.NewDiffParseError(file, err)
	o.logWarning(ctx, "line mapping unavailable, reporting all issues as new", map[string]interface{}{
		"file":  file,
		"error": err.Error(),
	})
	return fileContext{warning: parseErr.Error()}
}

// runPair executes one linter against one file. With a usable mapping it
// lints both the reference copy and the working copy and reconciles;
// otherwise it lints the working copy alone and reports everything as
// new. Failures are contained in the pair's warning.
func (o *Orchestrator) runPair(ctx context.Context, file string, linter domain.Linter, fctx fileContext, worktreeDir string, includePreexisting bool) domain.PairResult {
	result := domain.PairResult{File: file, Linter: linter.Name}
	o.logInfo(ctx, "running linter", map[string]interface{}{"linter": linter.Name, "file": file})

	if includePreexisting || fctx.mapping.RefMissing() {
		lines, err := o.deps.Runner.Run(ctx, linter, file)
		if err != nil {
			result.Warning = domain.NewLinterExecutionError(file, linter.Name, "linter run failed", err).Error()
			return result
		}
		for _, line := range lines {
			issue := domain.ParseIssue(line, file)
			if issue.ContainsAny(linter.IgnoredIssues) {
				continue
			}
			result.New = append(result.New, issue)
		}
		return result
	}

	refPath := filepath.Join(worktreeDir, file)
	refLines, err := o.deps.Runner.Run(ctx, linter, refPath)
	if err != nil {
		result.Warning = domain.NewLinterExecutionError(file, linter.Name, "reference lint run failed", err).Error()
		return result
	}
	workLines, err := o.deps.Runner.Run(ctx, linter, file)
	if err != nil {
		result.Warning = domain.NewLinterExecutionError(file, linter.Name, "working copy lint run failed", err).Error()
		return result
	}

	rec := Reconcile(refLines, workLines, refPath, file, fctx.mapping)
	result.Fixed = dropIgnored(rec.Fixed, linter.IgnoredIssues)
	result.New = dropIgnored(rec.New, linter.IgnoredIssues)
	return result
}

// dropIgnored removes issues whose original text contains any of the
// linter's ignored substrings. The filter runs after reconciliation so
// that ignoring an issue never turns its counterpart into a phantom.
func dropIgnored(issues []domain.Issue, ignored []string) []domain.Issue {
	if len(ignored) == 0 || len(issues) == 0 {
		return issues
	}
	kept := issues[:0]
	for _, issue := range issues {
		if !issue.ContainsAny(ignored) {
			kept = append(kept, issue)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// saveRun persists run aggregates when a store is configured. Store
// failures are logged and never affect the gate outcome.
func (o *Orchestrator) saveRun(ctx context.Context, req Request, start time.Time, pairs []domain.PairResult, summary domain.RunSummary) {
	if o.deps.Store == nil {
		return
	}

	branch, err := o.deps.Git.CurrentBranch(ctx)
	if err != nil {
		// Detached HEAD is normal in CI; record the run without a branch.
		branch = ""
	}

	record := RunRecord{
		Timestamp:  start,
		Ref:        req.Ref,
		Branch:     branch,
		Files:      summary.Files,
		FixedCount: summary.FixedCount,
		NewCount:   summary.NewCount,
		Warnings:   summary.Warnings,
		Duration:   summary.Duration,
		PerLinter:  perLinterTotals(pairs),
	}
	if err := o.deps.Store.SaveRun(ctx, record); err != nil {
		o.logWarning(ctx, "failed to save run history", map[string]interface{}{"error": err.Error()})
	}
}

func perLinterTotals(pairs []domain.PairResult) map[string]LinterTotals {
	totals := make(map[string]LinterTotals)
	for _, pair := range pairs {
		t := totals[pair.Linter]
		t.Fixed += len(pair.Fixed)
		t.New += len(pair.New)
		totals[pair.Linter] = t
	}
	return totals
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s %v\n", message, fields)
}

// countFileLines counts the lines of the file at path. A missing file
// counts as zero lines, which downstream treats as a missing revision.
func countFileLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return countLines(data), nil
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
