// Package runner executes registered linters as external commands.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/lintgate/lintgate/internal/domain"
)

// Exec invokes linters as subprocesses and captures their diagnostics.
type Exec struct {
	timeout time.Duration
}

// NewExec constructs a runner with the given per-invocation timeout.
// A zero timeout disables the limit.
func NewExec(timeout time.Duration) *Exec {
	return &Exec{timeout: timeout}
}

// Run executes the linter against filePath and returns the output lines
// that begin with the exact file path string. All other output (banners,
// summaries, progress) is discarded at this boundary. A nonzero exit
// status alone is not a failure: most linters exit nonzero whenever they
// report issues.
func (e *Exec) Run(ctx context.Context, linter domain.Linter, filePath string) ([]string, error) {
	if len(linter.Command) == 0 {
		return nil, fmt.Errorf("linter %s has an empty command", linter.Name)
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := append(append([]string{}, linter.Command[1:]...), filePath)
	cmd := exec.CommandContext(runCtx, linter.Command[0], args...)
	if len(linter.Env) > 0 {
		cmd.Env = append(os.Environ(), flattenEnv(linter.Env)...)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		switch {
		case runCtx.Err() != nil:
			return nil, fmt.Errorf("%s on %s: %w", linter.Name, filePath, runCtx.Err())
		case errors.As(err, &exitErr):
			// Normal for a linter that found issues; the diagnostics are
			// on the captured streams.
		default:
			return nil, fmt.Errorf("%s on %s: %w", linter.Name, filePath, err)
		}
	}

	output := stdout.String()
	if linter.UseStderr {
		output = stderr.String()
	}
	return matchingLines(output, filePath), nil
}

// MissingBinaries returns the linters whose executables cannot be
// resolved on PATH, preserving registry order.
func MissingBinaries(linters []domain.Linter) []domain.Linter {
	var missing []domain.Linter
	for _, linter := range linters {
		if _, err := exec.LookPath(linter.Binary()); err != nil {
			missing = append(missing, linter)
		}
	}
	return missing
}

func matchingLines(output, filePath string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, filePath) {
			lines = append(lines, line)
		}
	}
	return lines
}

func flattenEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	vars := make([]string, 0, len(env))
	for _, key := range keys {
		vars = append(vars, key+"="+env[key])
	}
	return vars
}
