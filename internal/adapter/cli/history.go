package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// historyCommand creates the history subcommand, which lists recent gate
// runs recorded in the store.
func historyCommand(deps Dependencies) *cobra.Command {
	var limit int
	var perLinter bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent gate runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.History == nil {
				return fmt.Errorf("run history is disabled; set store.enabled in the configuration")
			}

			runs, err := deps.History.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			for _, run := range runs {
				_, _ = fmt.Fprintf(out, "%s  %s  ref=%s branch=%s files=%d fixed=%d new=%d warnings=%d  %s\n",
					run.RunID,
					run.Timestamp.UTC().Format(time.RFC3339),
					run.Ref, run.Branch,
					run.Files, run.FixedCount, run.NewCount, run.Warnings,
					run.Duration.Round(time.Millisecond))
				if !perLinter {
					continue
				}
				totals, err := deps.History.GetLinterTotalsByRun(cmd.Context(), run.RunID)
				if err != nil {
					return fmt.Errorf("linter totals for %s: %w", run.RunID, err)
				}
				for _, total := range totals {
					_, _ = fmt.Fprintf(out, "    %s: fixed=%d new=%d\n", total.Linter, total.Fixed, total.New)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&perLinter, "per-linter", false, "Include per-linter counts for each run")

	return cmd
}
