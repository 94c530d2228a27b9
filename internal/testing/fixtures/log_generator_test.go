package fixtures

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasked(t *testing.T) {
	g := NewLogGenerator(t.TempDir())
	lines := g.Tasked(3, 2)

	assert.Len(t, lines, 1+3*2*LinesPerTaskedCycle())
	assert.Equal(t, "2024-01-01 10:00:00.000 Macro will distribute work across 3 tasks", lines[0])
	assert.Equal(t, "2024-01-01 10:00:00.025 Task 0 assigned to events", lines[1])
	assert.Equal(t, "2024-01-01 10:00:00.050 Task 1 assigned to events", lines[2])
}

func TestSerial(t *testing.T) {
	g := NewLogGenerator(t.TempDir())
	lines := g.Serial(2)

	assert.Len(t, lines, 2*len(SerialCycle))
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "Macro spent 1.2s total"))
}

func TestWriteAndAppendLog(t *testing.T) {
	g := NewLogGenerator(t.TempDir())
	path, err := g.WriteLog("better.log", []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, AppendLog(path, []string{"c"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(data))
}
