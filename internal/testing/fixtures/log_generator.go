package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout matches the macro's log timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Origin is the first timestamp of every generated log.
var Origin = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// taskedCycle is one full pass of a task through every tasked event type, in order.
var taskedCycle = []string{
	"Task %d assigned to events",
	"TASK %d has the mutex",
	"TASK %d Searching incomplete events",
	"TASK %d released the mutex after SEARCH",
	"TASK %d looking for a valid event",
	"TASK %d found a valid event",
	"TASK %d requesting send",
	"TASK %d finished SEND",
	"TASK %d retriggered event",
	"TASK %d waiting for the next window",
	"Task %d done with all events",
}

// SerialCycle is one full pass of a serial log.
var SerialCycle = []string{
	"Using high priority",
	"Searching incomplete events",
	"Finished searching incomplete events",
	"Looking for a valid event",
	"Found a valid event",
	"Retriggered event",
	"Macro spent 1.2s total",
}

// LogGenerator writes macro logs for tests.
type LogGenerator struct {
	baseDir string
	step    time.Duration
}

// NewLogGenerator creates a generator writing under baseDir with 25ms between lines.
func NewLogGenerator(baseDir string) *LogGenerator {
	return &LogGenerator{baseDir: baseDir, step: 25 * time.Millisecond}
}

// Stamp prefixes text with the timestamp origin+offset.
func Stamp(offset time.Duration, text string) string {
	return Origin.Add(offset).Format(TimestampLayout) + " " + text
}

// Tasked builds a per-task log: a banner, then cycles rounds in which every task walks
// through every event type. Tasks are interleaved line by line.
func (g *LogGenerator) Tasked(tasks, cycles int) []string {
	lines := []string{Stamp(0, fmt.Sprintf("Macro will distribute work across %d tasks", tasks))}
	offset := g.step
	for c := 0; c < cycles; c++ {
		for _, tmpl := range taskedCycle {
			for k := 0; k < tasks; k++ {
				lines = append(lines, Stamp(offset, fmt.Sprintf(tmpl, k)))
				offset += g.step
			}
		}
	}
	return lines
}

// Serial builds a single-task log of cycles rounds.
func (g *LogGenerator) Serial(cycles int) []string {
	var lines []string
	var offset time.Duration
	for c := 0; c < cycles; c++ {
		for _, text := range SerialCycle {
			lines = append(lines, Stamp(offset, text))
			offset += g.step
		}
	}
	return lines
}

// LinesPerTaskedCycle is how many lines each task contributes per cycle.
func LinesPerTaskedCycle() int {
	return len(taskedCycle)
}

// WriteLog writes lines to name under the base directory and returns its path.
func (g *LogGenerator) WriteLog(name string, lines []string) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// AppendLog appends lines to an existing log.
func AppendLog(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}
