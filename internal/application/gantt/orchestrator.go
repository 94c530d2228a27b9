package gantt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/penwyp/go-task-gantt/internal/data/cache"
	"github.com/penwyp/go-task-gantt/internal/data/detector"
	"github.com/penwyp/go-task-gantt/internal/data/reader"
	"github.com/penwyp/go-task-gantt/internal/presentation/chart"
	"github.com/penwyp/go-task-gantt/internal/presentation/formatter"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// Orchestrator resolves the event table, runs the reconstruction pass and renders the result,
// once or every time the log changes.
type Orchestrator struct {
	config   *Config
	registry *detector.Registry
	custom   *events.Table
	cache    cache.Cache
	location *time.Location
	stats    *RunStats
	stdout   io.Writer
	stderr   io.Writer
}

// NewOrchestrator validates the config and prepares every component that does not depend on
// the log contents.
func NewOrchestrator(config *Config) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	provider := &util.TimeProvider{}
	if err := provider.SetTimezone(config.Timezone); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:   config,
		registry: detector.NewRegistry(),
		location: provider.Location(),
		stats:    NewRunStats(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}

	if config.EventsFile != "" {
		table, err := events.LoadTable(config.EventsFile)
		if err != nil {
			return nil, err
		}
		o.registry.Register(table)
		o.custom = table
		util.LogInfof("Loaded event table %s with %d types from %s", table.Name, len(table.Specs), config.EventsFile)
	}

	if !config.NoCache {
		c, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			util.LogWarnf("Cache disabled: %v", err)
		} else {
			o.cache = c
		}
	}

	return o, nil
}

// SetOutput redirects rendered output and watch-mode errors, mostly for tests.
func (o *Orchestrator) SetOutput(stdout, stderr io.Writer) {
	o.stdout = stdout
	o.stderr = stderr
}

// Run performs one reconstruction and render. In watch mode it then re-runs on every change
// until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting gantt run", util.F("file", o.config.LogFile), util.F("output", o.config.Output))
	defer o.stats.LogFinalStats()

	if !o.config.Watch {
		return o.runOnce(ctx)
	}

	watcher, err := NewFileWatcher(o.config.LogFile)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", o.config.LogFile, err)
	}
	defer watcher.Close()

	o.runWatched(ctx)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			util.LogDebugf("Log changed: %s %s", ev.Operation, ev.Path)
			if timer == nil {
				timer = time.NewTimer(o.config.Debounce)
			} else {
				timer.Reset(o.config.Debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			o.runWatched(ctx)
		}
	}
}

// runWatched reports failures instead of returning them: the log may be mid-write.
func (o *Orchestrator) runWatched(ctx context.Context) {
	if err := o.runOnce(ctx); err != nil {
		util.LogWarnf("Watch pass failed: %v", err)
		fmt.Fprintf(o.stderr, "Error: %v\n", err)
	}
}

func (o *Orchestrator) runOnce(ctx context.Context) error {
	start := time.Now()
	o.stats.IncrementPass()
	result, table, err := o.Reconstruct(ctx)
	if err != nil {
		o.stats.IncrementFailure()
		return err
	}
	util.LogDebugf("Reconstruction took %v", time.Since(start))
	return o.Render(result, table)
}

// ResolveTable picks the event table: an explicit format name, the --events table, or
// detection from the head of the log.
func (o *Orchestrator) ResolveTable(ctx context.Context) (*events.Table, error) {
	name := o.config.LogFormat
	if !strings.EqualFold(name, "auto") {
		return o.registry.Lookup(name)
	}
	if o.custom != nil {
		return o.custom, nil
	}
	table, err := o.registry.DetectFile(ctx, o.config.LogFile)
	if err != nil {
		return nil, err
	}
	util.LogInfof("Auto-detected %s log format", table.Name)
	return table, nil
}

func (o *Orchestrator) options() reconstruct.Options {
	return reconstruct.Options{SkipUnmatched: o.config.SkipUnmatched, Location: o.location}
}

func (o *Orchestrator) cacheKey(table *events.Table) cache.Key {
	return cache.Key{
		FilePath:    o.config.LogFile,
		TableDigest: table.Digest(),
		Options:     fmt.Sprintf("skip=%t;tz=%s", o.config.SkipUnmatched, o.location),
	}
}

// Reconstruct runs the single pass over the log, or returns the cached result of an
// identical earlier pass.
func (o *Orchestrator) Reconstruct(ctx context.Context) (*reconstruct.Result, *events.Table, error) {
	table, err := o.ResolveTable(ctx)
	if err != nil {
		return nil, nil, err
	}

	if o.cache != nil {
		res := o.cache.Get(o.cacheKey(table))
		if res.Found {
			o.stats.IncrementHit()
			util.LogDebugf("Cache hit for %s", o.config.LogFile)
			return res.Data, table, nil
		}
		o.stats.IncrementMiss(res.MissReason)
		util.LogDebugf("Cache miss for %s: %s", o.config.LogFile, res.MissReason)
	}

	rc, err := reader.Open(o.config.LogFile)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	session := reconstruct.NewSession(table, o.options())
	if err := reader.Lines(ctx, rc, session.Feed); err != nil {
		return nil, nil, err
	}
	result, err := session.Finish()
	if err != nil {
		return nil, nil, err
	}

	if o.cache != nil {
		if err := o.cache.Set(o.cacheKey(table), result); err != nil {
			util.LogWarnf("Failed to cache result for %s: %v", o.config.LogFile, err)
		}
	}
	return result, table, nil
}

// Render writes the result in the configured output, to --out or stdout. The --out file is
// only replaced once the whole output has been produced.
func (o *Orchestrator) Render(result *reconstruct.Result, table *events.Table) error {
	if o.config.OutFile != "" {
		err := writeFileAtomic(o.config.OutFile, func(w io.Writer) error {
			return o.renderTo(w, result, table)
		})
		if err != nil {
			return err
		}
		util.LogInfof("Wrote %s output to %s", o.config.Output, o.config.OutFile)
		return nil
	}

	if o.config.Watch && o.config.Output == OutputChart && chart.IsTerminal() {
		fmt.Fprint(o.stdout, util.ClearScreen+util.MoveCursorHome)
	}
	return o.renderTo(o.stdout, result, table)
}

func (o *Orchestrator) renderTo(w io.Writer, result *reconstruct.Result, table *events.Table) error {
	f, err := o.formatterFor(w, table)
	if err != nil {
		return err
	}
	if err := f.Format(result); err != nil {
		return fmt.Errorf("failed to write %s output: %w", o.config.Output, err)
	}
	return nil
}

// writeFileAtomic buffers everything render produces and moves it over path through a temp
// file in the same directory. When render fails, path is left untouched.
func writeFileAtomic(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (o *Orchestrator) formatterFor(w io.Writer, table *events.Table) (formatter.Formatter, error) {
	switch o.config.Output {
	case OutputChart:
		color := !o.config.NoColor && o.config.OutFile == "" && chart.IsTerminal()
		return chart.NewTerminalRenderer(w, table, chart.Options{Width: o.config.Width, Color: color}), nil
	case OutputSVG:
		return chart.NewSVGRenderer(w, table, chart.DefaultSVGOptions()), nil
	default:
		return formatter.New(o.config.Output, w, table)
	}
}

// Stats returns the pass and cache counters of this orchestrator.
func (o *Orchestrator) Stats() *RunStats {
	return o.stats
}

// ClearCache removes every cached result.
func (o *Orchestrator) ClearCache() error {
	if o.cache == nil {
		return nil
	}
	return o.cache.Clear()
}
