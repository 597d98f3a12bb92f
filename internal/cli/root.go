// Package cli wires configuration, logging and storage into the ppimap
// cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agenthands/ppimap/internal/config"
	"github.com/agenthands/ppimap/internal/core"
	"github.com/agenthands/ppimap/internal/driver"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/logging"
	"github.com/agenthands/ppimap/internal/store"
)

// App is the state shared by every command of one invocation. Config and
// Logger are set by the root command before any subcommand runs.
type App struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool

	Config *config.Config
	Logger zerolog.Logger

	closeLog func() error
}

// NewRootCommand builds the ppimap command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&App{Logger: zerolog.Nop()})
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ppimap",
		Short: "Reconcile protein-protein interaction data sets",
		Long: `ppimap maps StringDB protein-protein interactions between identifier
namespaces and species. It projects a species' binding interactions onto
human proteins through orthologs, and measures the overlap between human
StringDB and BioGrid interactions.`,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}

	root.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", os.Getenv("PPIMAP_CONFIG"), "TOML config file (defaults built in)")
	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "log at debug level")
	root.PersistentFlags().BoolVarP(&app.Quiet, "quiet", "q", false, "log warnings and errors only")

	root.AddCommand(
		newHumanCommand(app),
		newOverlapCommand(app),
		newServeCommand(app),
		newProvenanceCommand(app),
	)
	return root
}

// Execute runs the command tree with args and releases the log output
// afterwards.
func Execute(ctx context.Context, args []string) error {
	app := &App{Logger: zerolog.Nop()}
	defer app.Close()

	root := newRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// Close releases the log file opened by setup, if any.
func (a *App) Close() error {
	if a.closeLog == nil {
		return nil
	}
	closeLog := a.closeLog
	a.closeLog = nil
	a.Logger = zerolog.Nop()
	return closeLog()
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	loadEnvFiles()

	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	logCfg := cfg.Log.Logging()
	switch {
	case a.Quiet:
		logCfg.Level = "warn"
	case a.Verbose:
		logCfg.Level = "debug"
	}
	a.Logger, a.closeLog = logging.New(logCfg)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.Logger))
	a.Logger.Debug().Str("config", a.ConfigPath).Str("command", cmd.Name()).Msg("configuration loaded")
	return nil
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}

// openStore returns the SQLite store when enabled, else an in-memory one.
func (a *App) openStore(ctx context.Context) (store.ProvenanceStore, error) {
	if !a.Config.Store.Enabled {
		return store.NewMemoryStore(), nil
	}
	path := a.Config.Store.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, ppierrors.NewFileAccessError("create directory for", path, err)
		}
	}
	st, err := store.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open provenance store: %w", err)
	}
	return st, nil
}

// openExporter connects to Memgraph when enabled. The returned close
// function is never nil.
func (a *App) openExporter(ctx context.Context) (*core.GraphExporter, func(), error) {
	m := a.Config.Memgraph
	if !m.Enabled {
		return nil, func() {}, nil
	}
	d, err := driver.NewMemgraphDriver(ctx, m.URI, m.User, m.Password, a.Logger)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to Memgraph: %w", err)
	}
	exporter := core.NewGraphExporter(d, m.BatchSize, a.Logger)
	if err := exporter.BuildIndices(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to build graph indices")
	}
	return exporter, func() {
		if err := d.Close(context.Background()); err != nil {
			a.Logger.Warn().Err(err).Msg("failed to close Memgraph driver")
		}
	}, nil
}

func printYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
