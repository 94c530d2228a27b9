package events

import (
	"testing"

	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(t model.EventType, task model.TaskID) model.Classification {
	return model.Classification{Type: t, Task: task, Role: model.RoleStart}
}

func end(t model.EventType, task model.TaskID) model.Classification {
	return model.Classification{Type: t, Task: task, Role: model.RoleEnd}
}

func TestClassifierTasked(t *testing.T) {
	c := NewClassifier(Tasked())

	tests := []struct {
		name string
		line string
		want []model.Classification
	}{
		{"assigned", "2024-01-01 00:00:00.100 Task 3 assigned to worker", []model.Classification{start("total", 3)}},
		{"all done", "2024-01-01 00:00:09.000 Task 3 finished all events", []model.Classification{end("total", 3)}},
		{"has mutex", "2024-01-01 00:00:01.000 TASK 0 has the mutex", []model.Classification{start("mutex", 0)}},
		{"released mutex", "2024-01-01 00:00:03.500 TASK 0 released the mutex", []model.Classification{end("mutex", 0)}},
		{
			"released mutex after search",
			"2024-01-01 00:00:03.500 TASK 1 released the mutex after SEARCH",
			[]model.Classification{end("mutex", 1), end("search", 1)},
		},
		{"searching", "2024-01-01 00:00:02.000 TASK 2 Searching incomplete events", []model.Classification{start("search", 2)}},
		{
			"found is send start and valid end",
			"2024-01-01 00:00:04.000 TASK 1 found a valid event",
			[]model.Classification{start("send", 1), end("valid", 1)},
		},
		{"finished send", "2024-01-01 00:00:05.000 TASK 1 finished SEND", []model.Classification{end("send", 1)}},
		{"retriggered", "2024-01-01 00:00:05.000 TASK 4 retriggered event", []model.Classification{start("delay", 4)}},
		{"waiting", "2024-01-01 00:00:06.000 TASK 4 is waiting", []model.Classification{end("delay", 4)}},
		{"looking", "2024-01-01 00:00:06.000 TASK 0 looking for events", []model.Classification{start("valid", 0)}},
		{"requesting", "2024-01-01 00:00:07.000 TASK 2 is requesting more work", []model.Classification{start("request", 2)}},
		{"multi digit task", "2024-01-01 00:00:07.000 TASK 12 has the mutex", []model.Classification{start("mutex", 12)}},
		{"no match", "2024-01-01 00:00:07.000 Macro heartbeat", nil},
		{"lowercase task does not match", "2024-01-01 00:00:07.000 task 1 has the mutex", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line))
		})
	}
}

func TestClassifierSearchMutexBothMatch(t *testing.T) {
	c := NewClassifier(Tasked())

	// "has ... mutex" and "released ... mutex" both match; the start is listed first.
	got := c.Classify("2024-01-01 00:00:01.000 TASK 0 has released the mutex")
	require.Len(t, got, 2)
	assert.Equal(t, start("mutex", 0), got[0])
	assert.Equal(t, end("mutex", 0), got[1])
}

func TestClassifierSerial(t *testing.T) {
	c := NewClassifier(Serial())

	tests := []struct {
		name string
		line string
		want []model.Classification
	}{
		{"using high", "2024-01-01 00:00:00.000 Using high priority", []model.Classification{start("total", model.GlobalTask)}},
		{"macro spent", "2024-01-01 00:01:00.000 Macro spent 60s in total", []model.Classification{end("total", model.GlobalTask)}},
		{
			"found a valid",
			"2024-01-01 00:00:10.000 Found a valid event",
			[]model.Classification{start("send", model.GlobalTask), end("valid", model.GlobalTask)},
		},
		{"searched and", "2024-01-01 00:00:11.000 Searched and found nothing", []model.Classification{end("valid", model.GlobalTask)}},
		{"nothing", "2024-01-01 00:00:11.000 idle", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line))
		})
	}
}

func TestClassifierTaskCount(t *testing.T) {
	c := NewClassifier(Tasked())

	tests := []struct {
		line   string
		want   int
		wantOK bool
	}{
		{"2024-01-01 00:00:00.000 Macro will distribute work across 4 tasks", 4, true},
		{"2024-01-01 00:00:00.000 Macro will distribute work across  12  tasks", 12, true},
		{"2024-01-01 00:00:00.000 Macro will distribute work across many tasks", 0, false},
		{"2024-01-01 00:00:00.000 TASK 1 has the mutex", 0, false},
	}
	for _, tt := range tests {
		n, ok := c.TaskCount(tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
		assert.Equal(t, tt.want, n, tt.line)
	}

	_, ok := NewClassifier(Serial()).TaskCount("Macro will distribute work across 4 tasks")
	assert.False(t, ok, "serial tables have no banner")
}
