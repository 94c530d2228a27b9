package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-task-gantt/internal/application/gantt"
	"github.com/penwyp/go-task-gantt/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Input related
	logFormat  string
	eventsFile string
	timezone   string

	// Output related
	outputFormat string
	outFile      string
	width        int
	noColor      bool

	// Reconstruction
	skipUnmatched bool

	// Runtime behaviour
	watch    bool
	debounce time.Duration
	noCache  bool
	reset    bool

	rootCmd = &cobra.Command{
		Use:   "go-task-gantt [logfile]",
		Short: "Gantt charts from task execution logs",
		Long: `go-task-gantt reconstructs phase intervals (mutex, search, send, delay...) from a
timestamped task log and renders them as a Gantt chart.

The log format is detected from its first lines: logs announcing how many tasks the macro
distributes work across are tracked per task, logs without task ids use one global lane.

Examples:
  go-task-gantt                                   # Chart better.log in the terminal
  go-task-gantt run.log --output summary          # Window, per-type active time and anomalies
  go-task-gantt run.log.gz -o svg --out run.svg   # Write an SVG chart
  go-task-gantt run.log -o trace --out run.json   # Chrome trace viewer / Perfetto profile
  go-task-gantt run.log --skip-unmatched          # Record unmatched ends instead of failing
  go-task-gantt run.log --events my-events.yaml   # Use a custom event table
  go-task-gantt run.log --watch                   # Redraw whenever the log grows`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGantt,
	}
)

const (
	defaultLogPath  = "better.log"
	defaultLogFile  = "~/.go-task-gantt/logs/app.log"
	defaultCacheDir = "~/.go-task-gantt/cache"
)

func init() {
	// Input configuration
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"Log format (auto, tasked, serial or the name of the --events table)")
	rootCmd.PersistentFlags().StringVar(&eventsFile, "events", "",
		"YAML file with a custom event table")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "UTC",
		"Timezone of the log timestamps (e.g., UTC, Local, Europe/Berlin)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", gantt.OutputChart,
		"Output format ("+strings.Join(gantt.Outputs(), ", ")+")")
	rootCmd.Flags().StringVar(&outFile, "out", "",
		"Write the output to a file instead of stdout")
	rootCmd.Flags().IntVar(&width, "width", 0,
		"Chart width in columns (0 = terminal width)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false,
		"Disable colors in the terminal chart")

	// Reconstruction
	rootCmd.Flags().BoolVar(&skipUnmatched, "skip-unmatched", false,
		"Record unmatched end events as anomalies instead of failing")

	// Runtime behaviour
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Re-render whenever the log file changes")
	rootCmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond,
		"Quiet period before re-rendering in watch mode")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false,
		"Do not read or write the result cache")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before reconstruction")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runGantt(cmd *cobra.Command, args []string) error {
	runID := uuid.NewString()
	if err := initLogging(runID); err != nil {
		return err
	}

	cacheDir := expandPath(defaultCacheDir)
	if !noCache {
		if err := ensureDir(cacheDir); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	config := &gantt.Config{
		LogFile:       logPath(args),
		LogFormat:     logFormat,
		EventsFile:    eventsFile,
		Timezone:      timezone,
		Output:        outputFormat,
		OutFile:       outFile,
		Width:         width,
		NoColor:       noColor,
		SkipUnmatched: skipUnmatched,
		CacheDir:      cacheDir,
		NoCache:       noCache,
		Watch:         watch,
		Debounce:      debounce,
		RunID:         runID,
	}

	orchestrator, err := gantt.NewOrchestrator(config)
	if err != nil {
		return err
	}
	orchestrator.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if reset {
		if err := orchestrator.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return orchestrator.Run(ctx)
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// Helper functions

func initLogging(runID string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug, util.F("run", runID)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return util.InitializeTimeProvider(timezone)
}

func logPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultLogPath
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
