package reconstruct

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-task-gantt/internal/core/model"
)

var (
	// ErrNoBanner means a per-task log never announced how many tasks it runs.
	ErrNoBanner = errors.New("task-count banner \"Macro will distribute work across <N> tasks\" not found")
	// ErrEmptyLog means the input had no non-blank lines.
	ErrEmptyLog = errors.New("log is empty")
)

// Reasons carried by EventOrderingError.
const (
	ReasonNoOpenInterval = "no open interval"
	ReasonUnknownTask    = "unknown task"
)

// EventOrderingError reports an event line that cannot be folded into the store,
// typically an end line without a matching start.
type EventOrderingError struct {
	Type       model.EventType
	Task       model.TaskID
	Role       model.Role
	Line       string
	LineNumber int
	Reason     string
}

func (e *EventOrderingError) Error() string {
	return fmt.Sprintf("line %d: %s %s for task %s: %s: %q",
		e.LineNumber, e.Type, e.Role, e.Task, e.Reason, e.Line)
}

// ConfigurationError reports a log that cannot be reconstructed at all.
type ConfigurationError struct {
	Format string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot reconstruct %s log: %v", e.Format, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AnomalyKind classifies non-fatal findings.
type AnomalyKind string

const (
	AnomalyNegativeDuration AnomalyKind = "negative_duration"
	AnomalyRestart          AnomalyKind = "restart"
	AnomalyUnmatchedEnd     AnomalyKind = "unmatched_end"
	AnomalyUnknownTask      AnomalyKind = "unknown_task"
)

// Anomaly is a recorded, non-fatal irregularity in the log.
type Anomaly struct {
	Kind       AnomalyKind     `json:"kind" msgpack:"kind"`
	Type       model.EventType `json:"type" msgpack:"type"`
	Task       model.TaskID    `json:"task" msgpack:"task"`
	LineNumber int             `json:"line" msgpack:"line"`
	Text       string          `json:"text" msgpack:"text"`
	Detail     string          `json:"detail,omitempty" msgpack:"detail,omitempty"`
}

func (a Anomaly) String() string {
	s := fmt.Sprintf("line %d: %s (%s, task %s)", a.LineNumber, a.Kind, a.Type, a.Task)
	if a.Detail != "" {
		s += ": " + a.Detail
	}
	return s
}
