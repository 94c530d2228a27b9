package events

import (
	"fmt"
	"hash/crc32"
	"regexp"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/model"
)

// Tracking decides whether a table tracks intervals per task or with one global flag per type.
type Tracking string

const (
	TrackTask   Tracking = "task"
	TrackGlobal Tracking = "global"
)

// Built-in table names, also used as log format names.
const (
	FormatTasked = "tasked"
	FormatSerial = "serial"
)

// Style holds the presentation hints of an event type.
type Style struct {
	Height int
	Color  string
}

// RGB returns the color without a trailing alpha byte.
func (s Style) RGB() string {
	if len(s.Color) == 9 && strings.HasPrefix(s.Color, "#") {
		return s.Color[:7]
	}
	return s.Color
}

// Spec describes how one event type is detected. End is nil for marker types.
type Spec struct {
	Name   model.EventType
	Start  *regexp.Regexp
	End    *regexp.Regexp
	Marker bool
	Style  Style
}

// Table is the set of event types of one log format.
type Table struct {
	Name     string
	Tracking Tracking
	Banner   *regexp.Regexp
	Specs    []Spec
}

// DefaultBanner matches the line announcing the number of tasks.
const DefaultBanner = `Macro will distribute work across (.*?) tasks`

// Types returns the event type names in table order.
func (t *Table) Types() []model.EventType {
	types := make([]model.EventType, len(t.Specs))
	for i, s := range t.Specs {
		types[i] = s.Name
	}
	return types
}

// Spec returns the spec for a type name.
func (t *Table) Spec(name model.EventType) (Spec, bool) {
	for _, s := range t.Specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// PerTask reports whether intervals are tracked per task.
func (t *Table) PerTask() bool {
	return t.Tracking == TrackTask
}

// Digest identifies the table content. Two tables with the same digest classify identically.
func (t *Table) Digest() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteString("|")
	sb.WriteString(string(t.Tracking))
	if t.Banner != nil {
		sb.WriteString("|")
		sb.WriteString(t.Banner.String())
	}
	for _, s := range t.Specs {
		fmt.Fprintf(&sb, "|%s:%s", s.Name, s.Start.String())
		if s.End != nil {
			sb.WriteString("~")
			sb.WriteString(s.End.String())
		}
		if s.Marker {
			sb.WriteString("!")
		}
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(sb.String())))
}

// Validate checks the structural rules every table must follow.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("event table has no name")
	}
	if t.Tracking != TrackTask && t.Tracking != TrackGlobal {
		return fmt.Errorf("event table %s: unknown tracking %q", t.Name, t.Tracking)
	}
	if t.PerTask() && t.Banner == nil {
		return fmt.Errorf("event table %s: per-task tracking needs a banner pattern", t.Name)
	}
	if len(t.Specs) == 0 {
		return fmt.Errorf("event table %s: no event types", t.Name)
	}

	seen := make(map[model.EventType]bool, len(t.Specs))
	for _, s := range t.Specs {
		if s.Name == "" {
			return fmt.Errorf("event table %s: event type without a name", t.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("event table %s: duplicate event type %s", t.Name, s.Name)
		}
		seen[s.Name] = true

		if s.Start == nil {
			return fmt.Errorf("event type %s: missing start pattern", s.Name)
		}
		if s.End == nil && !s.Marker {
			return fmt.Errorf("event type %s: missing end pattern (set marker for start-only events)", s.Name)
		}
		if s.Marker && s.End != nil {
			return fmt.Errorf("event type %s: marker events cannot have an end pattern", s.Name)
		}
		if t.PerTask() {
			if s.Start.NumSubexp() < 1 {
				return fmt.Errorf("event type %s: start pattern must capture the task id", s.Name)
			}
			if s.End != nil && s.End.NumSubexp() < 1 {
				return fmt.Errorf("event type %s: end pattern must capture the task id", s.Name)
			}
		}
	}
	return nil
}

// Tasked returns the built-in table for logs with TASK identifiers and a task-count banner.
func Tasked() *Table {
	return &Table{
		Name:     FormatTasked,
		Tracking: TrackTask,
		Banner:   regexp.MustCompile(DefaultBanner),
		Specs: []Spec{
			{Name: "total", Start: regexp.MustCompile(`Task (\d+) assigned`), End: regexp.MustCompile(`Task (\d+).*all`), Style: Style{3, "#462d26ff"}},
			{Name: "mutex", Start: regexp.MustCompile(`TASK (\d+).*has.*mutex`), End: regexp.MustCompile(`TASK (\d+).*released.*mutex`), Style: Style{15, "#30302ee7"}},
			{Name: "search", Start: regexp.MustCompile(`TASK (\d+).*Searching`), End: regexp.MustCompile(`TASK (\d+).*released.*mutex.*SEARCH`), Style: Style{11, "#395c78ff"}},
			{Name: "send", Start: regexp.MustCompile(`TASK (\d+).*found`), End: regexp.MustCompile(`TASK (\d+).*finished SEND`), Style: Style{7, "#9d312fd6"}},
			{Name: "delay", Start: regexp.MustCompile(`TASK (\d+) retriggered`), End: regexp.MustCompile(`TASK (\d+).*waiting`), Style: Style{6, "#ef9849ef"}},
			{Name: "valid", Start: regexp.MustCompile(`TASK (\d+) looking`), End: regexp.MustCompile(`TASK (\d+) found`), Style: Style{10, "#768a88ff"}},
			{Name: "request", Start: regexp.MustCompile(`TASK (\d+).*requesting`), Marker: true, Style: Style{16, "#57a851ff"}},
		},
	}
}

// Serial returns the built-in table for single-task logs without task identifiers.
func Serial() *Table {
	return &Table{
		Name:     FormatSerial,
		Tracking: TrackGlobal,
		Specs: []Spec{
			{Name: "total", Start: regexp.MustCompile(`Using high`), End: regexp.MustCompile(`Macro spent.*total`), Style: Style{3, "#462d26ff"}},
			{Name: "search", Start: regexp.MustCompile(`Searching incomplete events`), End: regexp.MustCompile(`Finished searching incomplete`), Style: Style{11, "#395c78ff"}},
			{Name: "send", Start: regexp.MustCompile(`Found a valid`), End: regexp.MustCompile(`Retriggered event`), Style: Style{7, "#9d312fd6"}},
			{Name: "valid", Start: regexp.MustCompile(`Looking for`), End: regexp.MustCompile(`Found a valid|Searched and`), Style: Style{10, "#768a88e7"}},
		},
	}
}

// Builtin returns a built-in table by format name.
func Builtin(name string) (*Table, error) {
	switch strings.ToLower(name) {
	case FormatTasked:
		return Tasked(), nil
	case FormatSerial:
		return Serial(), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (expected %s or %s)", name, FormatTasked, FormatSerial)
	}
}
