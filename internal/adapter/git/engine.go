package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Engine implements the gate's git port, backed by go-git for history
// lookups and by the git CLI for diff and worktree plumbing.
type Engine struct {
	repoDir string
}

// NewEngine constructs a Git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

func (e *Engine) open() (*goGit.Repository, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	return repo, nil
}

// ResolveRef resolves a branch, tag, or revision to a commit hash.
func (e *Engine) ResolveRef(ctx context.Context, ref string) (string, error) {
	repo, err := e.open()
	if err != nil {
		return "", err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return "", fmt.Errorf("resolve ref %s: %w", ref, err)
	}
	return commit.Hash.String(), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := e.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	name := head.Name()
	if name.IsBranch() {
		return name.Short(), nil
	}
	return "", fmt.Errorf("detached HEAD")
}

// ChangedFiles returns the paths that differ between the index and the
// reference revision.
func (e *Engine) ChangedFiles(ctx context.Context, ref string) ([]string, error) {
	out, err := runGitCommand(ctx, e.repoDir, "diff", "--name-only", "--cached", ref)
	if err != nil {
		return nil, fmt.Errorf("git diff --cached %s: %w", ref, err)
	}
	return splitPathLines(out), nil
}

// DirtyFiles returns tracked files carrying staged or unstaged
// modifications. Untracked files are not reported.
func (e *Engine) DirtyFiles(ctx context.Context) ([]string, error) {
	unstaged, err := runGitCommand(ctx, e.repoDir, "diff", "--name-only", "--diff-filter=M")
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}
	staged, err := runGitCommand(ctx, e.repoDir, "diff", "--name-only", "--diff-filter=M", "--cached")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached: %w", err)
	}

	seen := make(map[string]struct{})
	var files []string
	for _, f := range append(splitPathLines(unstaged), splitPathLines(staged)...) {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// AllFiles returns every path tracked by the index.
func (e *Engine) AllFiles(ctx context.Context) ([]string, error) {
	out, err := runGitCommand(ctx, e.repoDir, "ls-files")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	return splitPathLines(out), nil
}

// ExistingAtHead filters paths down to those present in the HEAD commit
// tree, preserving input order.
func (e *Engine) ExistingAtHead(ctx context.Context, paths []string) ([]string, error) {
	repo, err := e.open()
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("load HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load HEAD tree: %w", err)
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := tree.FindEntry(p); err != nil {
			if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
				continue
			}
			return nil, fmt.Errorf("inspect %s at HEAD: %w", p, err)
		}
		existing = append(existing, p)
	}
	return existing, nil
}

// DiffText returns the unified diff between the reference revision and
// the working copy of a single file.
func (e *Engine) DiffText(ctx context.Context, ref, path string) (string, error) {
	out, err := runGitCommand(ctx, e.repoDir, "diff", ref, "--", path)
	if err != nil {
		return "", fmt.Errorf("git diff %s: %w", path, err)
	}
	return out, nil
}

// AddWorktree materializes a detached checkout of ref at dir.
func (e *Engine) AddWorktree(ctx context.Context, dir, ref string) error {
	if _, err := runGitCommand(ctx, e.repoDir, "worktree", "add", "--detach", dir, ref); err != nil {
		return fmt.Errorf("git worktree add: %w", err)
	}
	return nil
}

// RemoveWorktree tears down a worktree previously created by AddWorktree.
func (e *Engine) RemoveWorktree(ctx context.Context, dir string) error {
	if _, err := runGitCommand(ctx, e.repoDir, "worktree", "remove", "--force", dir); err != nil {
		return fmt.Errorf("git worktree remove: %w", err)
	}
	return nil
}

// InstallLFS enables LFS with smudge disabled so a subsequent checkout
// does not download large objects eagerly.
func (e *Engine) InstallLFS(ctx context.Context, dir string) error {
	if _, err := runGitCommand(ctx, dir, "lfs", "install", "--skip-smudge"); err != nil {
		return fmt.Errorf("git lfs install: %w", err)
	}
	return nil
}

// PullLFS fetches LFS objects into the checkout at dir.
func (e *Engine) PullLFS(ctx context.Context, dir string) error {
	if _, err := runGitCommand(ctx, dir, "lfs", "pull"); err != nil {
		return fmt.Errorf("git lfs pull: %w", err)
	}
	return nil
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		name := plumbing.Revision(candidate)
		hash, err := repo.ResolveRevision(name)
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

func runGitCommand(ctx context.Context, dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %v: %w", args, ctx.Err())
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}

func splitPathLines(out string) []string {
	trimmed := strings.TrimRight(out, "\r\n")
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
