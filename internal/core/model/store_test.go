package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalEnd(t *testing.T) {
	tests := []struct {
		name   string
		iv     Interval
		window float64
		end    float64
		span   float64
	}{
		{"closed", Interval{Start: 1, Duration: 2.5}, 10, 3.5, 2.5},
		{"marker", Interval{Start: 4, Marker: true}, 10, 4, 0},
		{"open extends to window", Interval{Start: 6, Open: true}, 10, 10, 4},
		{"open after window", Interval{Start: 12, Open: true}, 10, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.end, tt.iv.End(tt.window))
			assert.Equal(t, tt.span, tt.iv.Span(tt.window))
		})
	}
}

func TestIntervalStore(t *testing.T) {
	store := NewIntervalStore([]EventType{"mutex", "send"}, TaskRange(2))

	assert.True(t, store.Has("mutex", 1))
	assert.False(t, store.Has("mutex", 2))
	assert.False(t, store.Has("delay", 0))
	assert.NotNil(t, store.Intervals("send", 0))
	assert.Empty(t, store.Intervals("send", 0))
	assert.Nil(t, store.Last("send", 0))

	store.Append("mutex", 0, Interval{Start: 0, Duration: 1, Line: 2})
	store.Append("mutex", 0, Interval{Start: 2, Open: true, Line: 5})
	store.Append("send", 1, Interval{Start: 1, Duration: 0.5, Line: 3})

	last := store.Last("mutex", 0)
	require.NotNil(t, last)
	assert.Equal(t, 5, last.Line)

	last.Open = false
	last.Duration = 3
	assert.Equal(t, 3.0, store.Intervals("mutex", 0)[1].Duration, "Last points into the store")

	assert.Equal(t, 3, store.Count())
	assert.Equal(t, 0, store.OpenCount())

	store.Append("send", 0, Interval{Start: 4, Open: true})
	assert.Equal(t, 1, store.OpenCount())
}

func TestNewIntervalStoreCopiesInputs(t *testing.T) {
	types := []EventType{"total"}
	tasks := []TaskID{3, 1, 2}
	store := NewIntervalStore(types, tasks)

	types[0] = "changed"
	tasks[0] = 9
	assert.Equal(t, []EventType{"total"}, store.Types)
	assert.Equal(t, []TaskID{1, 2, 3}, store.SortedTasks())
	assert.Equal(t, []TaskID{3, 1, 2}, store.Tasks)
}

func TestTaskIDAndRole(t *testing.T) {
	assert.Equal(t, "global", GlobalTask.String())
	assert.Equal(t, "7", TaskID(7).String())
	assert.Equal(t, "start", RoleStart.String())
	assert.Equal(t, "end", RoleEnd.String())
	assert.Equal(t, "unknown", Role(5).String())
	assert.Equal(t, []TaskID{}, TaskRange(0))
}
