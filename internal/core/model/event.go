package model

import "fmt"

// EventType names a phase category such as "mutex" or "search".
type EventType string

// TaskID identifies one of the tasks the macro distributed work across.
type TaskID int

// GlobalTask is the pseudo task used by formats without per-task identifiers.
const GlobalTask TaskID = -1

func (t TaskID) String() string {
	if t == GlobalTask {
		return "global"
	}
	return fmt.Sprintf("%d", int(t))
}

// Role tells whether a classified line opens or closes an event.
type Role int

const (
	RoleStart Role = iota
	RoleEnd
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	default:
		return "unknown"
	}
}

// LogLine is a single line of the input together with its 1-based line number.
type LogLine struct {
	Number int
	Text   string
}

// Classification is one (event type, task, role) match produced for a line.
// A single line may produce several classifications.
type Classification struct {
	Type EventType
	Task TaskID
	Role Role
}
