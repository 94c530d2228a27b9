package reconstruct

import (
	"fmt"
	"time"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// Options tune how strictly a log is reconstructed.
type Options struct {
	// SkipUnmatched records ordering errors as anomalies instead of aborting.
	SkipUnmatched bool
	// Location interprets the log's wall-clock timestamps. Nil means UTC.
	Location *time.Location
}

// Reconstructor folds classified lines into an IntervalStore.
type Reconstructor struct {
	table     *events.Table
	store     *model.IntervalStore
	active    map[model.EventType]bool
	opts      Options
	anomalies []Anomaly
}

// NewReconstructor creates a reconstructor with a store sized to the table's types and
// taskCount tasks. taskCount is ignored for global tables.
func NewReconstructor(table *events.Table, taskCount int, opts Options) *Reconstructor {
	tasks := []model.TaskID{model.GlobalTask}
	if table.PerTask() {
		tasks = model.TaskRange(taskCount)
	}
	return &Reconstructor{
		table:  table,
		store:  model.NewIntervalStore(table.Types(), tasks),
		active: make(map[model.EventType]bool, len(table.Specs)),
		opts:   opts,
	}
}

// Store returns the store being built.
func (r *Reconstructor) Store() *model.IntervalStore {
	return r.store
}

// Anomalies returns the irregularities recorded so far.
func (r *Reconstructor) Anomalies() []Anomaly {
	return r.anomalies
}

// Apply folds all classifications of one line. When one type matched both its start and
// end pattern, per-task tables honor the start; global tables honor the start only while the
// type is inactive and the end otherwise.
func (r *Reconstructor) Apply(cs []model.Classification, offset float64, line model.LogLine) error {
	for i := 0; i < len(cs); i++ {
		c := cs[i]
		if c.Role == model.RoleStart && i+1 < len(cs) && cs[i+1].Type == c.Type && cs[i+1].Role == model.RoleEnd {
			if !r.table.PerTask() && r.active[c.Type] {
				c = cs[i+1]
			}
			i++
		}
		if err := r.Fold(c, offset, line); err != nil {
			return err
		}
	}
	return nil
}

// Fold applies a single classification at the given offset.
func (r *Reconstructor) Fold(c model.Classification, offset float64, line model.LogLine) error {
	spec, ok := r.table.Spec(c.Type)
	if !ok {
		return fmt.Errorf("line %d: event type %s is not in table %s", line.Number, c.Type, r.table.Name)
	}

	if !r.table.PerTask() {
		r.foldGlobal(spec, c, offset, line)
		return nil
	}

	if !r.store.Has(c.Type, c.Task) {
		return r.reject(&EventOrderingError{
			Type: c.Type, Task: c.Task, Role: c.Role,
			Line: line.Text, LineNumber: line.Number,
			Reason: fmt.Sprintf("%s (log declares %d tasks)", ReasonUnknownTask, len(r.store.Tasks)),
		}, AnomalyUnknownTask)
	}

	switch c.Role {
	case model.RoleStart:
		r.start(spec, c, offset, line)
		return nil
	case model.RoleEnd:
		last := r.store.Last(c.Type, c.Task)
		if last == nil || !last.Open {
			return r.reject(&EventOrderingError{
				Type: c.Type, Task: c.Task, Role: c.Role,
				Line: line.Text, LineNumber: line.Number,
				Reason: ReasonNoOpenInterval,
			}, AnomalyUnmatchedEnd)
		}
		r.close(last, c, offset, line)
		return nil
	default:
		return fmt.Errorf("line %d: unknown role %d", line.Number, c.Role)
	}
}

func (r *Reconstructor) start(spec events.Spec, c model.Classification, offset float64, line model.LogLine) {
	if spec.Marker {
		r.store.Append(c.Type, c.Task, model.Interval{Start: offset, Marker: true, Line: line.Number})
		return
	}

	if last := r.store.Last(c.Type, c.Task); last != nil && last.Open {
		last.Truncated = true
		r.record(Anomaly{
			Kind: AnomalyRestart, Type: c.Type, Task: c.Task,
			LineNumber: line.Number, Text: line.Text,
			Detail: fmt.Sprintf("interval opened on line %d restarted before it ended", last.Line),
		})
		r.close(last, c, offset, line)
	}
	r.store.Append(c.Type, c.Task, model.Interval{Start: offset, Open: true, Line: line.Number})
}

// close ends iv at offset. Every closing path goes through here so that backwards timestamps
// are always reported.
func (r *Reconstructor) close(iv *model.Interval, c model.Classification, offset float64, line model.LogLine) {
	iv.Duration = offset - iv.Start
	iv.Open = false
	if iv.Duration < 0 {
		r.record(Anomaly{
			Kind: AnomalyNegativeDuration, Type: c.Type, Task: c.Task,
			LineNumber: line.Number, Text: line.Text,
			Detail: fmt.Sprintf("duration %.3fs, timestamps went backwards since line %d", iv.Duration, iv.Line),
		})
	}
}

func (r *Reconstructor) foldGlobal(spec events.Spec, c model.Classification, offset float64, line model.LogLine) {
	switch c.Role {
	case model.RoleStart:
		if spec.Marker {
			r.store.Append(c.Type, model.GlobalTask, model.Interval{Start: offset, Marker: true, Line: line.Number})
			return
		}
		if r.active[c.Type] {
			return
		}
		r.active[c.Type] = true
		r.store.Append(c.Type, model.GlobalTask, model.Interval{Start: offset, Open: true, Line: line.Number})
	case model.RoleEnd:
		if !r.active[c.Type] {
			return
		}
		r.active[c.Type] = false
		if last := r.store.Last(c.Type, model.GlobalTask); last != nil && last.Open {
			r.close(last, c, offset, line)
		}
	}
}

// reject either aborts with err or, when skipping, records it as an anomaly.
func (r *Reconstructor) reject(err *EventOrderingError, kind AnomalyKind) error {
	if !r.opts.SkipUnmatched {
		return err
	}
	r.record(Anomaly{
		Kind: kind, Type: err.Type, Task: err.Task,
		LineNumber: err.LineNumber, Text: err.Line, Detail: err.Reason,
	})
	return nil
}

func (r *Reconstructor) record(a Anomaly) {
	r.anomalies = append(r.anomalies, a)
	util.LogWarnf("Reconstruction anomaly: %s", a)
}
