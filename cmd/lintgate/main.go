package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lintgate/lintgate/internal/adapter/cli"
	"github.com/lintgate/lintgate/internal/adapter/console"
	"github.com/lintgate/lintgate/internal/adapter/git"
	"github.com/lintgate/lintgate/internal/adapter/observability"
	"github.com/lintgate/lintgate/internal/adapter/runner"
	storeAdapter "github.com/lintgate/lintgate/internal/adapter/store"
	"github.com/lintgate/lintgate/internal/adapter/store/sqlite"
	"github.com/lintgate/lintgate/internal/config"
	"github.com/lintgate/lintgate/internal/usecase/gate"
	"github.com/lintgate/lintgate/internal/version"
)

const defaultLinterTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		// The gate verdict is already on stdout; everything else is
		// worth a line on stderr.
		if !errors.Is(err, cli.ErrIssuesFound) && !errors.Is(err, cli.ErrShouldRun) {
			log.Println(err)
		}
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "lintgate",
		EnvPrefix:   "LINTGATE",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	// The per-linter toggle flags are generated from the registry, so it
	// has to be read before the flag set exists. A load failure is
	// deferred to the commands that need linters; --version and
	// check-skip stay usable without a registry.
	registryPath := registryPathFromArgs(os.Args[1:], cfg.Linters.Registry)
	linters, registryErr := config.LoadRegistry(registryPath)
	if registryErr != nil {
		linters = nil
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}
	gitEngine := git.NewEngine(repoDir)

	timeout := defaultLinterTimeout
	if cfg.Run.LinterTimeout != "" {
		if parsed, err := time.ParseDuration(cfg.Run.LinterTimeout); err == nil {
			timeout = parsed
		} else {
			log.Printf("warning: invalid linter timeout %q, using default %s", cfg.Run.LinterTimeout, defaultLinterTimeout)
		}
	}
	lintRunner := runner.NewExec(timeout)

	color := gate.IsOutputTerminal() && !cfg.Run.NoColor && !colorDisabled(os.Args[1:])
	renderer := console.New(os.Stdout, color)

	// Create gate logger adapter if logging is enabled
	var gateLogger gate.Logger
	if cfg.Observability.Logging.Enabled {
		gateLogger = observability.NewGateLogger(os.Stderr, cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
	}

	// Initialize store if enabled
	var historyStore gate.HistoryStore
	var historyReader cli.HistoryReader
	if cfg.Store.Enabled {
		// Create store directory if it doesn't exist
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				// Wrap in adapter bridge
				historyStore = storeAdapter.NewBridge(sqliteStore)
				historyReader = sqliteStore
				// Ensure store is closed on exit
				defer historyStore.Close()
			}
		}
	}

	orchestrator := gate.NewOrchestrator(gate.Deps{
		Git:      gitEngine,
		Runner:   lintRunner,
		Renderer: renderer,
		Store:    historyStore,
		Logger:   gateLogger,
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Gate:            orchestrator,
		History:         historyReader,
		Linters:         linters,
		MissingBinaries: runner.MissingBinaries,
		Defaults: cli.RunDefaults{
			Ref:      cfg.Run.RefBranch,
			BasePath: cfg.Run.BasePath,
			Workers:  cfg.Run.Workers,
		},
		RegistryPath: registryPath,
		RegistryErr:  registryErr,
		Version:      version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

// registryPathFromArgs pre-scans the raw arguments for --registry. The
// registry decides which toggle flags exist, so it cannot wait for the
// flag set to be parsed.
func registryPathFromArgs(args []string, fallback string) string {
	for i, arg := range args {
		if arg == "--registry" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--registry=") {
			return strings.TrimPrefix(arg, "--registry=")
		}
	}
	return fallback
}

// colorDisabled pre-scans the raw arguments for --no-color, which has to
// reach the renderer before the flag set is parsed.
func colorDisabled(args []string) bool {
	for _, arg := range args {
		if arg == "--no-color" || arg == "--no-color=true" {
			return true
		}
	}
	return false
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lintgate"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ gate.GitEngine = (*git.Engine)(nil)
var _ gate.LinterRunner = (*runner.Exec)(nil)
var _ gate.Renderer = (*console.Renderer)(nil)
var _ gate.HistoryStore = (*storeAdapter.Bridge)(nil)
var _ gate.Logger = (*observability.GateLogger)(nil)
var _ cli.GateRunner = (*gate.Orchestrator)(nil)
var _ cli.HistoryReader = (*sqlite.Store)(nil)
