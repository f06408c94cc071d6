// Package cli is the todo command tree. Without a subcommand it starts the
// terminal UI; every subcommand performs one tracker operation and exits.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"todocal/internal/clock"
	"todocal/internal/config"
	"todocal/internal/logger"
	"todocal/internal/metrics"
	"todocal/internal/storage"
	"todocal/internal/tracker"
	"todocal/internal/ui"
)

var errNotFound = errors.New("no such task")

// ShutdownSignals cancel the context passed to Execute.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

type app struct {
	stdout io.Writer
	stderr io.Writer
	clock  clock.Clock

	configPath string
	verbose    bool

	cfg     config.Config
	store   *storage.Store
	tracker *tracker.Tracker
	reg     *prometheus.Registry
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, stdout, stderr, clock.Real{})
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, c clock.Clock) int {
	a := &app{stdout: stdout, stderr: stderr, clock: c}
	root := a.newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) newRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "A task tracker with a calendar",
		Long:          "todo keeps a single list of tasks with due dates, categories and notes. Run it without arguments for the terminal UI.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config file (default: $"+config.EnvConfigPath+" or the user config dir)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "V", false, "Enable debug logging (overrides log_level)")

	cmd.AddCommand(
		a.newAddCmd(),
		a.newListCmd(),
		a.newEditCmd(),
		a.newToggleCmd(),
		a.newRmCmd(),
		a.newNoteCmd(),
		a.newClearCompletedCmd(),
		a.newCompleteCmd(),
		a.newCalendarCmd(),
		a.newStatsCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newThemeCmd(),
	)
	return cmd
}

func (a *app) open() error {
	log.SetOutput(a.stderr)

	path := a.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if a.verbose {
		logger.SetLevel(logger.LevelDebug)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.store = store

	a.reg = prometheus.NewRegistry()
	tr, err := tracker.New(store, a.clock, metrics.New(a.reg))
	if err != nil {
		return err
	}
	a.tracker = tr
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.reg != nil && a.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile, a.reg); err != nil {
			logger.Warn(ctx, "write metrics failed", "path", a.cfg.MetricsFile, "err", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Error(ctx, err, "close database")
		}
	}
}

func (a *app) runTUI(ctx context.Context) error {
	if a.cfg.LogFile != "" {
		f, err := tea.LogToFile(a.cfg.LogFile, "todocal ")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	logger.Info(ctx, "starting ui", "tasks", len(a.tracker.Tasks()))
	return ui.Run(ctx, a.tracker, a.store, a.cfg)
}

// persisted turns a persistence failure into a stderr warning: the change
// was applied but not saved.
func (a *app) persisted(err error) error {
	if errors.Is(err, tracker.ErrPersist) {
		_, _ = fmt.Fprintln(a.stderr, "Warning:", err)
		return nil
	}
	return err
}
