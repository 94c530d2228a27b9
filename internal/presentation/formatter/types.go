package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
)

// Formatter writes a reconstruction result in one output format.
type Formatter interface {
	Format(result *reconstruct.Result) error
}

// Row aggregates the intervals of one (type, task) pair.
type Row struct {
	Type      model.EventType
	Task      model.TaskID
	Intervals int
	Markers   int
	Open      int
	Truncated int
	Active    float64
	Longest   float64
}

// Summarize builds one row per (type, task) pair that has intervals, ordered by task then by
// the store's type order. Open intervals count up to the end of the window.
func Summarize(result *reconstruct.Result) []Row {
	store := result.Store
	var rows []Row
	for _, task := range store.SortedTasks() {
		for _, t := range store.Types {
			ivs := store.Intervals(t, task)
			if len(ivs) == 0 {
				continue
			}
			row := Row{Type: t, Task: task}
			for _, iv := range ivs {
				switch {
				case iv.Marker:
					row.Markers++
					continue
				case iv.Open:
					row.Open++
				case iv.Truncated:
					row.Truncated++
				}
				row.Intervals++
				span := iv.Span(result.Window)
				row.Active += span
				if span > row.Longest {
					row.Longest = span
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Names lists the accepted output names for New.
var Names = []string{"table", "summary", "json", "csv", "trace", "msgpack"}

// New returns the formatter registered under name. The table is only consulted by formats
// that carry styling.
func New(name string, w io.Writer, table *events.Table) (Formatter, error) {
	switch strings.ToLower(name) {
	case "table":
		return NewTableFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "trace":
		return NewTraceFormatter(w, table), nil
	case "msgpack":
		return NewMsgpackFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", name, strings.Join(Names, ", "))
	}
}
