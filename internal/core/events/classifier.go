package events

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/model"
)

// Classifier matches lines against every event type of a table.
type Classifier struct {
	table *Table
}

// NewClassifier creates a classifier for the table.
func NewClassifier(table *Table) *Classifier {
	return &Classifier{table: table}
}

// Table returns the table the classifier matches against.
func (c *Classifier) Table() *Table {
	return c.table
}

// Classify returns every (type, task, role) the line matches, in table order.
// When a line matches both patterns of one type, the start comes first; the reconstructor
// decides which one applies.
func (c *Classifier) Classify(line string) []model.Classification {
	var out []model.Classification
	for _, spec := range c.table.Specs {
		if task, ok := c.match(spec.Start, line); ok {
			out = append(out, model.Classification{Type: spec.Name, Task: task, Role: model.RoleStart})
		}
		if spec.End == nil {
			continue
		}
		if task, ok := c.match(spec.End, line); ok {
			out = append(out, model.Classification{Type: spec.Name, Task: task, Role: model.RoleEnd})
		}
	}
	return out
}

func (c *Classifier) match(re *regexp.Regexp, line string) (model.TaskID, bool) {
	if !c.table.PerTask() {
		return model.GlobalTask, re.MatchString(line)
	}
	m := re.FindStringSubmatch(line)
	if len(m) < 2 {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id < 0 {
		return 0, false
	}
	return model.TaskID(id), true
}

// TaskCount extracts the task count from a banner line. It returns false for lines that are
// not banners or whose count is not an integer.
func (c *Classifier) TaskCount(line string) (int, bool) {
	if c.table.Banner == nil {
		return 0, false
	}
	m := c.table.Banner.FindStringSubmatch(line)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(m[1]))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
