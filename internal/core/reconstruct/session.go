package reconstruct

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/timestamp"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// Result is the finalized output of one reconstruction pass.
type Result struct {
	Format          string               `json:"format" msgpack:"format"`
	Origin          time.Time            `json:"origin" msgpack:"origin"`
	Window          float64              `json:"window_seconds" msgpack:"window_seconds"`
	TaskCount       int                  `json:"task_count" msgpack:"task_count"`
	Lines           int                  `json:"lines" msgpack:"lines"`
	TimestampMisses int                  `json:"timestamp_misses" msgpack:"timestamp_misses"`
	Store           *model.IntervalStore `json:"store" msgpack:"store"`
	Anomalies       []Anomaly            `json:"anomalies,omitempty" msgpack:"anomalies,omitempty"`
}

// MaxPendingLines is how many lines a per-task log may run before its banner.
const MaxPendingLines = 4096

// Session runs one sequential reconstruction pass. It owns the timestamp fallback and the
// store; lines must be fed in file order.
//
// Per-task logs cannot be folded before the banner gives the task count, so lines seen
// before the banner are queued, up to MaxPendingLines, and replayed once it appears.
type Session struct {
	table      *events.Table
	classifier *events.Classifier
	extractor  timestamp.Extractor
	opts       Options

	recon     *Reconstructor
	pending   []model.LogLine
	taskCount int
	lines     int
	maxOffset float64
	err       error
}

// NewSession creates a session for one log using the given event table.
func NewSession(table *events.Table, opts Options) *Session {
	s := &Session{
		table:      table,
		classifier: events.NewClassifier(table),
		opts:       opts,
	}
	s.extractor.Location = opts.Location
	if !table.PerTask() {
		s.recon = NewReconstructor(table, 0, opts)
	}
	return s
}

// Feed folds one line. After the first fatal error every call returns that error.
func (s *Session) Feed(line model.LogLine) error {
	if s.err != nil {
		return s.err
	}
	s.lines++

	if !s.extractor.Seeded() {
		if strings.TrimSpace(line.Text) == "" {
			return nil
		}
		if err := s.extractor.Seed(line.Text); err != nil {
			return s.fail(&ConfigurationError{
				Format: s.table.Name,
				Err:    fmt.Errorf("line %d: %w", line.Number, err),
			})
		}
		util.LogDebugf("Log origin %s from line %d", s.extractor.Origin().Format(timestamp.Layout), line.Number)
	}

	if s.recon == nil {
		n, ok := s.classifier.TaskCount(line.Text)
		if !ok {
			if len(s.pending) >= MaxPendingLines {
				return s.fail(&ConfigurationError{
					Format: s.table.Name,
					Err:    fmt.Errorf("%w within the first %d lines", ErrNoBanner, MaxPendingLines),
				})
			}
			s.pending = append(s.pending, line)
			return nil
		}
		s.taskCount = n
		s.recon = NewReconstructor(s.table, n, s.opts)
		util.LogInfof("Banner on line %d: %d tasks, replaying %d queued lines", line.Number, n, len(s.pending))

		pending := s.pending
		s.pending = nil
		for _, queued := range pending {
			if err := s.process(queued); err != nil {
				return s.fail(err)
			}
		}
	} else if s.table.PerTask() {
		if n, ok := s.classifier.TaskCount(line.Text); ok && n != s.taskCount {
			util.LogWarnf("Ignoring second banner on line %d (%d tasks, already sized for %d)", line.Number, n, s.taskCount)
		}
	}

	if err := s.process(line); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Session) process(line model.LogLine) error {
	ts := s.extractor.Extract(line.Text)
	offset := s.extractor.Offset(ts)
	if offset > s.maxOffset {
		s.maxOffset = offset
	}

	cs := s.classifier.Classify(line.Text)
	if len(cs) == 0 {
		return nil
	}
	return s.recon.Apply(cs, offset, line)
}

func (s *Session) fail(err error) error {
	s.err = err
	return err
}

// Finish finalizes the pass. Intervals still open stay open.
func (s *Session) Finish() (*Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.extractor.Seeded() {
		return nil, s.fail(&ConfigurationError{Format: s.table.Name, Err: ErrEmptyLog})
	}
	if s.recon == nil {
		return nil, s.fail(&ConfigurationError{Format: s.table.Name, Err: ErrNoBanner})
	}

	store := s.recon.Store()
	result := &Result{
		Format:          s.table.Name,
		Origin:          s.extractor.Origin(),
		Window:          s.maxOffset,
		TaskCount:       s.taskCount,
		Lines:           s.lines,
		TimestampMisses: s.extractor.Misses(),
		Store:           store,
		Anomalies:       s.recon.Anomalies(),
	}

	util.LogInfof("Reconstructed %d intervals (%d open) from %d lines over %.3fs, %d anomalies",
		store.Count(), store.OpenCount(), result.Lines, result.Window, len(result.Anomalies))
	return result, nil
}

// ReconstructLines runs a full pass over in-memory lines.
func ReconstructLines(table *events.Table, lines []string, opts Options) (*Result, error) {
	s := NewSession(table, opts)
	for i, text := range lines {
		if err := s.Feed(model.LogLine{Number: i + 1, Text: text}); err != nil {
			return nil, err
		}
	}
	return s.Finish()
}
