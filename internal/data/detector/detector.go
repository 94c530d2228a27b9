package detector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/data/reader"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// SniffLines is how many non-blank lines are inspected.
const SniffLines = 200

// ErrUnknownFormat means no registered table recognized the sniffed lines.
var ErrUnknownFormat = errors.New("unable to detect log format")

var errSniffDone = errors.New("sniff done")

// Registry holds the candidate event tables in priority order.
type Registry struct {
	tables []*events.Table
}

// NewRegistry returns a registry with the built-in tables, tasked first.
func NewRegistry() *Registry {
	return &Registry{tables: []*events.Table{events.Tasked(), events.Serial()}}
}

// Register appends a table. Earlier tables win ties.
func (r *Registry) Register(t *events.Table) {
	r.tables = append(r.tables, t)
}

// Tables returns the registered tables.
func (r *Registry) Tables() []*events.Table {
	return r.tables
}

// Lookup returns a registered table by name, case-insensitively.
func (r *Registry) Lookup(name string) (*events.Table, error) {
	for _, t := range r.tables {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("log format not found: %s", name)
}

// Detect picks the table that best explains lines. A banner match selects its table outright;
// otherwise the table whose patterns match the most lines wins.
func (r *Registry) Detect(lines []string) (*events.Table, error) {
	var (
		best      *events.Table
		bestScore int
	)
	for _, t := range r.tables {
		classifier := events.NewClassifier(t)
		score := 0
		for _, line := range lines {
			if _, ok := classifier.TaskCount(line); ok {
				util.LogDebugf("Detected %s format from banner", t.Name)
				return t, nil
			}
			if len(classifier.Classify(line)) > 0 {
				score++
			}
		}
		util.LogDebugf("Format %s matched %d of %d sniffed lines", t.Name, score, len(lines))
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	if best == nil {
		return nil, ErrUnknownFormat
	}
	return best, nil
}

// DetectFile sniffs the head of a log file.
func (r *Registry) DetectFile(ctx context.Context, path string) (*events.Table, error) {
	lines, err := Sniff(ctx, path)
	if err != nil {
		return nil, err
	}
	t, err := r.Detect(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Sniff returns up to SniffLines non-blank lines from the start of a log.
func Sniff(ctx context.Context, path string) ([]string, error) {
	rc, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lines := make([]string, 0, SniffLines)
	err = reader.Lines(ctx, rc, func(line model.LogLine) error {
		if strings.TrimSpace(line.Text) == "" {
			return nil
		}
		lines = append(lines, line.Text)
		if len(lines) >= SniffLines {
			return errSniffDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errSniffDone) {
		return nil, err
	}
	return lines, nil
}
