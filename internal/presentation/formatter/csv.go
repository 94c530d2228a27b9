package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

// Format writes one record per interval. Open intervals report the span up to the window end.
func (f *CSVFormatter) Format(result *reconstruct.Result) error {
	w := csv.NewWriter(f.w)
	defer w.Flush()

	headers := []string{"type", "task", "start", "duration", "open", "marker", "truncated", "line"}
	if err := w.Write(headers); err != nil {
		return err
	}

	store := result.Store
	for _, task := range store.SortedTasks() {
		for _, t := range store.Types {
			for _, iv := range store.Intervals(t, task) {
				record := []string{
					string(t),
					task.String(),
					strconv.FormatFloat(iv.Start, 'f', 3, 64),
					strconv.FormatFloat(iv.Span(result.Window), 'f', 3, 64),
					strconv.FormatBool(iv.Open),
					strconv.FormatBool(iv.Marker),
					strconv.FormatBool(iv.Truncated),
					strconv.Itoa(iv.Line),
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}
