package formatter

import (
	"testing"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/stretchr/testify/require"
)

// sampleResult reconstructs a two-task log over a 10s window:
//
//	task 0: mutex [1,4], search [2,4] and an open search from 10
//	task 1: request marker at 5, open mutex from 6
func sampleResult(t *testing.T) *reconstruct.Result {
	t.Helper()
	lines := []string{
		"2024-01-01 10:00:00.000 Macro will distribute work across 2 tasks",
		"2024-01-01 10:00:01.000 TASK 0 has mutex",
		"2024-01-01 10:00:02.000 TASK 0 Searching",
		"2024-01-01 10:00:04.000 TASK 0 released mutex SEARCH",
		"2024-01-01 10:00:05.000 TASK 1 requesting",
		"2024-01-01 10:00:06.000 TASK 1 has mutex",
		"2024-01-01 10:00:10.000 TASK 0 Searching",
	}
	result, err := reconstruct.ReconstructLines(events.Tasked(), lines, reconstruct.Options{})
	require.NoError(t, err)
	return result
}
