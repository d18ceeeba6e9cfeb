package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lintgate/lintgate/internal/domain"
	"github.com/lintgate/lintgate/internal/store"
	"github.com/lintgate/lintgate/internal/usecase/gate"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrIssuesFound indicates the gate reported newly introduced issues.
// The renderer has already printed the verdict; the host process maps
// this to a nonzero exit without further output.
var ErrIssuesFound = errors.New("new issues found")

// GateRunner defines the dependency required to run the gate command.
type GateRunner interface {
	Run(ctx context.Context, linters []domain.Linter, req gate.Request) (gate.Result, error)
}

// HistoryReader defines the dependency required to run the history command.
type HistoryReader interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	GetLinterTotalsByRun(ctx context.Context, runID string) ([]store.LinterTotals, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// RunDefaults holds default gate settings from config.
type RunDefaults struct {
	Ref      string
	BasePath string
	Workers  int
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Gate            GateRunner
	History         HistoryReader // Optional: nil when the run-history store is disabled
	Linters         []domain.Linter
	MissingBinaries func(linters []domain.Linter) []domain.Linter // Optional: PATH preflight for enabled linters
	Args            Arguments
	Defaults        RunDefaults
	RegistryPath    string // Where the linter registry was loaded from
	RegistryErr     error  // Optional: deferred registry load failure, fatal for commands that need linters
	Version         string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "lintgate",
		Short: "Differential lint gate for CI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(gateCommand(deps))
	root.AddCommand(lintersCommand(deps))
	root.AddCommand(historyCommand(deps))
	root.AddCommand(checkSkipCommand())

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}
