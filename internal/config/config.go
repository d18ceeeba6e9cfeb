package config

// Config represents the full application configuration.
type Config struct {
	Run           RunConfig           `yaml:"run"`
	Git           GitConfig           `yaml:"git"`
	Linters       LintersConfig       `yaml:"linters"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// RunConfig holds the run-wide settings every pipeline stage reads. It
// is constructed once during startup and passed down explicitly.
type RunConfig struct {
	// RefBranch is the reference revision the working tree is compared
	// against.
	RefBranch string `yaml:"refBranch"`

	// BasePath restricts linting to files under this prefix.
	BasePath string `yaml:"basePath"`

	// AllFiles lints every tracked file instead of the changed set.
	AllFiles bool `yaml:"allFiles"`

	// IncludePreexisting reports every current finding instead of only
	// the newly introduced ones. No reference checkout is created.
	IncludePreexisting bool `yaml:"includePreexisting"`

	// IgnoreDirty leaves uncommitted and staged modifications out of the
	// changed-file set.
	IgnoreDirty bool `yaml:"ignoreDirty"`

	// UseGitLFS hydrates LFS content in the reference checkout.
	UseGitLFS bool `yaml:"useGitLFS"`

	// Workers bounds the number of concurrently running linter
	// invocations.
	Workers int `yaml:"workers"`

	// LinterTimeout caps a single linter invocation, e.g. "2m". A timed
	// out invocation contributes zero issues and a warning.
	LinterTimeout string `yaml:"linterTimeout"`

	// NoColor disables ANSI styling regardless of terminal detection.
	NoColor bool `yaml:"noColor"`
}

type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// LintersConfig points at the linter registry definition.
type LintersConfig struct {
	Registry string `yaml:"registry"`
}

// StoreConfig configures the run-history persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warn, error
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.Run = chooseRun(base.Run, overlay.Run)
	result.Git = chooseGit(base.Git, overlay.Git)
	result.Linters = chooseLinters(base.Linters, overlay.Linters)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseRun(base, overlay RunConfig) RunConfig {
	result := base

	if overlay.RefBranch != "" {
		result.RefBranch = overlay.RefBranch
	}
	if overlay.BasePath != "" {
		result.BasePath = overlay.BasePath
	}
	if overlay.Workers != 0 {
		result.Workers = overlay.Workers
	}
	if overlay.LinterTimeout != "" {
		result.LinterTimeout = overlay.LinterTimeout
	}
	if overlay.AllFiles {
		result.AllFiles = true
	}
	if overlay.IncludePreexisting {
		result.IncludePreexisting = true
	}
	if overlay.IgnoreDirty {
		result.IgnoreDirty = true
	}
	if overlay.UseGitLFS {
		result.UseGitLFS = true
	}
	if overlay.NoColor {
		result.NoColor = true
	}

	return result
}

func chooseGit(base, overlay GitConfig) GitConfig {
	if overlay.RepositoryDir != "" {
		return overlay
	}
	return base
}

func chooseLinters(base, overlay LintersConfig) LintersConfig {
	if overlay.Registry != "" {
		return overlay
	}
	return base
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base

	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}

	return result
}
