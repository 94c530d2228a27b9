package formatter

import (
	"io"
	"math"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
)

// Trace Event Format phases used by the exporter.
const (
	PhaseComplete = "X"
	PhaseInstant  = "i"
	PhaseMetadata = "M"
)

// TraceProfile is the Chrome Trace Event Format document, loadable in chrome://tracing
// and Perfetto.
type TraceProfile struct {
	OtherData   map[string]string `json:"otherData,omitempty"`
	TraceEvents []TraceEvent      `json:"traceEvents"`
}

type TraceEvent struct {
	Name      string         `json:"name"`
	Phase     string         `json:"ph"`
	ProcessID int            `json:"pid"`
	ThreadID  int            `json:"tid"`
	Category  string         `json:"cat,omitempty"`
	TimeStamp int64          `json:"ts"`
	Duration  int64          `json:"dur,omitempty"`
	Scope     string         `json:"s,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

type TraceFormatter struct {
	w     io.Writer
	table *events.Table
}

func NewTraceFormatter(w io.Writer, table *events.Table) *TraceFormatter {
	return &TraceFormatter{w: w, table: table}
}

func (f *TraceFormatter) Format(result *reconstruct.Result) error {
	profile := BuildTrace(result, f.table)
	data, err := sonic.Marshal(profile)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}

// BuildTrace converts intervals to trace events: one thread per task, complete events for
// intervals and instant events for markers. Timestamps are microseconds since the origin.
func BuildTrace(result *reconstruct.Result, table *events.Table) *TraceProfile {
	store := result.Store
	profile := &TraceProfile{
		OtherData: map[string]string{
			"format": result.Format,
			"origin": result.Origin.Format("2006-01-02 15:04:05.000"),
		},
		TraceEvents: make([]TraceEvent, 0, store.Count()+len(store.Tasks)),
	}

	for _, task := range store.SortedTasks() {
		profile.TraceEvents = append(profile.TraceEvents, TraceEvent{
			Name:      "thread_name",
			Phase:     PhaseMetadata,
			ProcessID: 1,
			ThreadID:  threadID(task),
			Args:      map[string]any{"name": threadName(task)},
		})
	}

	for _, task := range store.SortedTasks() {
		for _, t := range store.Types {
			var color string
			if table != nil {
				if spec, ok := table.Spec(t); ok {
					color = spec.Style.RGB()
				}
			}
			for _, iv := range store.Intervals(t, task) {
				ev := TraceEvent{
					Name:      string(t),
					ProcessID: 1,
					ThreadID:  threadID(task),
					Category:  result.Format,
					TimeStamp: micros(iv.Start),
					Args:      map[string]any{"line": iv.Line},
				}
				if color != "" {
					ev.Args["color"] = color
				}
				if iv.Marker {
					ev.Phase = PhaseInstant
					ev.Scope = "t"
				} else {
					ev.Phase = PhaseComplete
					ev.Duration = micros(iv.Span(result.Window))
					if iv.Open {
						ev.Args["open"] = true
					}
					if iv.Truncated {
						ev.Args["truncated"] = true
					}
				}
				profile.TraceEvents = append(profile.TraceEvents, ev)
			}
		}
	}
	return profile
}

func micros(seconds float64) int64 {
	return int64(math.Round(seconds * 1e6))
}

func threadID(task model.TaskID) int {
	if task == model.GlobalTask {
		return 0
	}
	return int(task) + 1
}

func threadName(task model.TaskID) string {
	if task == model.GlobalTask {
		return "macro"
	}
	return "Task " + task.String()
}
