package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lintgate/lintgate/internal/domain"
)

// LinterSpec is one entry of the linter registry file: a top-level YAML
// list of checker definitions.
type LinterSpec struct {
	Name          string            `yaml:"name"`
	Cmd           []string          `yaml:"cmd"`
	Extensions    []string          `yaml:"extensions"`
	UseStderr     bool              `yaml:"use_stderr"`
	RunByDefault  *bool             `yaml:"run_by_default"`
	IgnoredIssues []string          `yaml:"ignored_issues"`
	ExcludedPaths []string          `yaml:"excluded_paths"`
	Env           map[string]string `yaml:"env"`
}

// LoadRegistry reads the linter registry from path and validates it. An
// absent file, malformed YAML, or an empty list are all registry
// configuration failures. Environment references in env values are
// expanded.
func LoadRegistry(path string) ([]domain.Linter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read linter registry %s: %w", path, err)
	}

	var specs []LinterSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse linter registry %s: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("linter registry %s is empty", path)
	}

	linters := make([]domain.Linter, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("linter registry %s: entry %d has no name", path, i+1)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("linter registry %s: duplicate linter %q", path, spec.Name)
		}
		seen[spec.Name] = true
		if len(spec.Cmd) == 0 {
			return nil, fmt.Errorf("linter registry %s: linter %q has no cmd", path, spec.Name)
		}
		linters = append(linters, spec.toLinter())
	}
	return linters, nil
}

func (s LinterSpec) toLinter() domain.Linter {
	runByDefault := true
	if s.RunByDefault != nil {
		runByDefault = *s.RunByDefault
	}

	var env map[string]string
	if len(s.Env) > 0 {
		env = make(map[string]string, len(s.Env))
		for key, value := range s.Env {
			env[key] = expandEnvString(value)
		}
	}

	return domain.Linter{
		Name:          s.Name,
		Command:       s.Cmd,
		Extensions:    s.Extensions,
		UseStderr:     s.UseStderr,
		RunByDefault:  runByDefault,
		IgnoredIssues: s.IgnoredIssues,
		ExcludedPaths: s.ExcludedPaths,
		Env:           env,
	}
}
