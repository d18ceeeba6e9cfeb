package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lintgate/lintgate/internal/domain"
	"github.com/lintgate/lintgate/internal/usecase/gate"
)

// linterToggle pairs the generated --<name>/--no-<name> flags with the
// registry default for one linter.
type linterToggle struct {
	name    string
	enable  *bool
	disable *bool
	def     bool
}

// gateCommand creates the gate subcommand. One --<name>/--no-<name> flag
// pair is generated per registry entry, so the flag surface depends on
// the loaded registry.
func gateCommand(deps Dependencies) *cobra.Command {
	var ref string
	var basePath string
	var allFiles bool
	var includePreexisting bool
	var ignoreDirty bool
	var lfs bool
	var workers int
	var noColor bool
	var registryPath string

	defaults := deps.Defaults
	if defaults.Ref == "" {
		defaults.Ref = "origin/main"
	}
	if defaults.BasePath == "" {
		defaults.BasePath = "."
	}
	if defaults.Workers < 1 {
		defaults.Workers = 4
	}

	var toggles []linterToggle

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Lint changed files and fail on newly introduced issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if deps.RegistryErr != nil {
				return domain.NewConfigurationError(fmt.Sprintf("linter registry %s not loaded", deps.RegistryPath), deps.RegistryErr)
			}

			if info, err := os.Stat(basePath); err != nil || !info.IsDir() {
				return domain.NewConfigurationError(fmt.Sprintf("base path %s not found", basePath), err)
			}

			enabled := enabledLinters(cmd, deps.Linters, toggles)
			if len(enabled) == 0 {
				return domain.NewConfigurationError("no linters enabled", nil)
			}

			if deps.MissingBinaries != nil {
				missing := deps.MissingBinaries(enabled)
				if len(missing) > 0 {
					for _, linter := range missing {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "linter %s (cmd=%s) not found; install it or pass --no-%s\n",
							linter.Name, linter.Binary(), linter.Name)
					}
					return domain.NewConfigurationError(fmt.Sprintf("missing %d linter binaries", len(missing)), nil)
				}
			}

			result, err := deps.Gate.Run(ctx, enabled, gate.Request{
				Ref:                ref,
				BasePath:           basePath,
				AllFiles:           allFiles,
				IncludePreexisting: includePreexisting,
				IgnoreDirty:        ignoreDirty,
				UseGitLFS:          lfs,
				Workers:            resolveWorkers(cmd, workers, defaults.Workers),
			})
			if err != nil {
				return err
			}
			if !result.Summary.Success() {
				return ErrIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", defaults.Ref, "Reference revision the working tree is compared against")
	cmd.Flags().StringVar(&basePath, "base-path", defaults.BasePath, "Directory subtree to lint (recursively)")
	cmd.Flags().BoolVar(&allFiles, "all-files", false, "Lint every tracked file instead of the diff from --ref")
	cmd.Flags().BoolVar(&includePreexisting, "include-preexisting", false, "Report preexisting issues too (skips the reference checkout)")
	cmd.Flags().BoolVar(&ignoreDirty, "ignore-dirty", false, "Exclude files with uncommitted or staged changes")
	cmd.Flags().BoolVar(&lfs, "lfs", false, "Hydrate git-lfs files in the reference checkout (requires git-lfs)")
	cmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Parallel lint jobs")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&registryPath, "registry", deps.RegistryPath, "Path to the linter registry YAML (read at startup)")

	for _, linter := range deps.Linters {
		toggle := linterToggle{name: linter.Name, def: linter.RunByDefault}
		toggle.enable = cmd.Flags().Bool(linter.Name, false, fmt.Sprintf("Run %s", linter.Name))
		toggle.disable = cmd.Flags().Bool("no-"+linter.Name, false, fmt.Sprintf("Skip %s", linter.Name))
		toggles = append(toggles, toggle)
	}

	return cmd
}

// enabledLinters applies the toggle flags to the registry and returns the
// linters that should run, preserving registry order.
func enabledLinters(cmd *cobra.Command, linters []domain.Linter, toggles []linterToggle) []domain.Linter {
	state := make(map[string]bool, len(toggles))
	for _, toggle := range toggles {
		state[toggle.name] = resolveLinterEnabled(cmd, toggle)
	}

	var enabled []domain.Linter
	for _, linter := range linters {
		if state[linter.Name] {
			enabled = append(enabled, linter)
		}
	}
	return enabled
}

// resolveLinterEnabled determines whether one linter runs based on CLI flags and the registry.
// Priority: --no-<name> (disables) > --<name> (enables) > registry run_by_default
func resolveLinterEnabled(cmd *cobra.Command, toggle linterToggle) bool {
	if cmd.Flags().Changed("no-"+toggle.name) && *toggle.disable {
		return false
	}
	if cmd.Flags().Changed(toggle.name) && *toggle.enable {
		return true
	}
	return toggle.def
}

// resolveWorkers returns the CLI value if the flag was explicitly set,
// otherwise the config default. Non-positive values warn and fall back.
func resolveWorkers(cmd *cobra.Command, cliValue, configDefault int) int {
	if !cmd.Flags().Changed("workers") {
		return configDefault
	}
	if cliValue < 1 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: --workers must be at least 1, using default %d\n", configDefault)
		return configDefault
	}
	return cliValue
}
