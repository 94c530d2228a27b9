package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// SummaryFormatter prints a short report: what was read, totals per event type and every
// anomaly that was tolerated.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(result *reconstruct.Result) error {
	store := result.Store

	fmt.Fprintf(f.w, "Format:     %s\n", result.Format)
	fmt.Fprintf(f.w, "Origin:     %s\n", result.Origin.Format("2006-01-02 15:04:05.000"))
	fmt.Fprintf(f.w, "Window:     %s (%s)\n", util.FormatSeconds(result.Window), util.FormatElapsed(result.Window))
	if result.TaskCount > 0 {
		fmt.Fprintf(f.w, "Tasks:      %d\n", result.TaskCount)
	}
	fmt.Fprintf(f.w, "Lines:      %d (%d without timestamp)\n", result.Lines, result.TimestampMisses)
	fmt.Fprintf(f.w, "Intervals:  %d (%d open)\n", store.Count(), store.OpenCount())

	perType := make(map[model.EventType]float64, len(store.Types))
	for _, row := range Summarize(result) {
		perType[row.Type] += row.Active
	}
	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, "Active time by type:")
	for _, t := range store.Types {
		active := perType[t]
		fmt.Fprintf(f.w, "  %s %s %s\n",
			util.PadRight(string(t), 10),
			util.PadLeft(util.FormatSeconds(active), 12),
			util.PadLeft(util.FormatPercent(active, result.Window*float64(len(store.Tasks))), 7))
	}

	if len(result.Anomalies) > 0 {
		fmt.Fprintln(f.w)
		fmt.Fprintf(f.w, "Anomalies (%d):\n", len(result.Anomalies))
		for _, a := range result.Anomalies {
			fmt.Fprintf(f.w, "  %s\n", a.String())
		}
	}
	return nil
}
