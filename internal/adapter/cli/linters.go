package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lintersCommand creates the linters subcommand, which prints the
// registry entries and whether each runs by default.
func lintersCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linters",
		Short: "List the linters in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.RegistryErr != nil {
				return fmt.Errorf("linter registry %s not loaded: %w", deps.RegistryPath, deps.RegistryErr)
			}
			if len(deps.Linters) == 0 {
				return fmt.Errorf("no linters loaded from %s", deps.RegistryPath)
			}

			titleCaser := cases.Title(language.English)
			out := cmd.OutOrStdout()
			for _, linter := range deps.Linters {
				state := "on"
				if !linter.RunByDefault {
					state = "off"
				}
				_, _ = fmt.Fprintf(out, "%s (--%s, default %s)\n", titleCaser.String(linter.Name), linter.Name, state)
				_, _ = fmt.Fprintf(out, "  cmd:        %s\n", strings.Join(linter.Command, " "))
				_, _ = fmt.Fprintf(out, "  extensions: %s\n", strings.Join(linter.Extensions, ", "))
			}
			return nil
		},
	}
	return cmd
}
