package chart

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestTerminalRenderer(t *testing.T) {
	r := NewTerminalRenderer(nil, events.Tasked(), Options{Width: 37})
	out := r.Render(sampleResult(t))

	expected := strings.Join([]string{
		"tasked  2 tasks  window 10s",
		"Task 0 mutex   │  ██████            │",
		"       search  │    ████           ░│",
		"       request │                    │",
		"Task 1 mutex   │            ░░░░░░░░│",
		"       search  │                    │",
		"       request │          ▲         │",
		"               └────────────────────┘",
		"                0s       5s       10s",
		"Legend: ■ mutex  ■ search  ■ request  ░ open  ▲ marker",
	}, "\n") + "\n"
	assert.Equal(t, expected, out)
}

func TestTerminalRenderer_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTerminalRenderer(&buf, events.Tasked(), Options{Width: 60}).Format(sampleResult(t)))
	assert.Contains(t, buf.String(), "Legend:")
}

func TestTerminalRenderer_Empty(t *testing.T) {
	lines := []string{"2024-01-01 10:00:00.000 Macro will distribute work across 1 tasks"}
	result, err := reconstruct.ReconstructLines(events.Tasked(), lines, reconstruct.Options{})
	require.NoError(t, err)

	out := NewTerminalRenderer(nil, events.Tasked(), Options{Width: 60}).Render(result)
	assert.Equal(t, "tasked  1 tasks  window 0s\nno intervals\n", out)
}

func TestTerminalRenderer_SerialAndAnomalies(t *testing.T) {
	lines := []string{
		"2024-01-01 10:00:00.000 Using high priority",
		"2024-01-01 10:00:04.000 Searching incomplete events",
		"2024-01-01 10:00:02.000 Finished searching incomplete events",
		"2024-01-01 10:00:04.000 Macro spent 4s total",
	}
	result, err := reconstruct.ReconstructLines(events.Serial(), lines, reconstruct.Options{})
	require.NoError(t, err)
	require.Len(t, result.Anomalies, 1)

	out := NewTerminalRenderer(nil, events.Serial(), Options{Width: 31}).Render(result)
	assert.True(t, strings.HasPrefix(out, "serial  window 4s\n"))
	assert.Contains(t, out, "macro total  │████████████████│")
	assert.Contains(t, out, "1 anomalies tolerated")
}

func TestTerminalRenderer_Color(t *testing.T) {
	r := NewTerminalRenderer(nil, events.Tasked(), Options{Width: 37, Color: true})
	out := r.Render(sampleResult(t))
	assert.Contains(t, out, "mutex")
	assert.Contains(t, out, glyphMarker)
}

func TestScaleLane(t *testing.T) {
	s := newScale(10, 10)
	ivs := []model.Interval{
		{Start: 0, Duration: 2},
		{Start: 5, Open: true},
		{Start: 6, Marker: true},
		{Start: 3, Duration: 0},
	}
	cells := s.lane(ivs, "x", 10)

	var glyphs []string
	for _, c := range cells {
		glyphs = append(glyphs, c.glyph)
	}
	assert.Equal(t, "██ █ ░▲░░░", strings.Join(glyphs, ""))
}

func TestScale_ZeroWindow(t *testing.T) {
	s := newScale(0, 10)
	assert.Equal(t, 0, s.col(5))
	assert.Equal(t, 1, s.colEnd(5))
}

func TestTaskCenter(t *testing.T) {
	assert.InDelta(t, 25.0, TaskCenter(model.GlobalTask, 1), 1e-9)
	assert.InDelta(t, 100.0/3, TaskCenter(0, 2), 1e-9)
	assert.InDelta(t, 200.0/3, TaskCenter(1, 2), 1e-9)
}

func TestAlpha(t *testing.T) {
	assert.InDelta(t, 1.0, alpha("#462d26ff"), 1e-9)
	assert.InDelta(t, 0.0, alpha("#46202600"), 1e-9)
	assert.InDelta(t, 1.0, alpha("#462d26"), 1e-9)
	assert.InDelta(t, 1.0, alpha("#462d26zz"), 1e-9)
}

func TestSVGRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewSVGRenderer(&buf, events.Tasked(), SVGOptions{})
	require.NoError(t, r.Format(sampleResult(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `width="1200" height="600"`)
	assert.Contains(t, out, ">Task 0</text>")
	assert.Contains(t, out, ">Task 1</text>")
	assert.Contains(t, out, `stroke-dasharray="4,2"`)
	assert.Contains(t, out, "<polygon")
	assert.Equal(t, 1, strings.Count(out, ">mutex</text>"), "legend lists each type once")

	dec := xml.NewDecoder(strings.NewReader(out))
	rects := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "rect" {
			rects++
		}
	}
	// background + 4 bars + 3 legend swatches
	assert.Equal(t, 8, rects)
}

func TestSVGRenderer_SerialCentered(t *testing.T) {
	lines := []string{
		"2024-01-01 10:00:00.000 Using high priority",
		"2024-01-01 10:00:04.000 Macro spent 4s total",
	}
	result, err := reconstruct.ReconstructLines(events.Serial(), lines, reconstruct.Options{})
	require.NoError(t, err)

	out := NewSVGRenderer(nil, events.Serial(), DefaultSVGOptions()).Render(result)
	// total has height 3 around 25 on a 0..50 axis: y from 26.5 to 23.5 over a 500px plot
	assert.Contains(t, out, `<rect x="90" y="295" width="1080" height="30" fill="#462d26" fill-opacity="1">`)
	assert.NotContains(t, out, ">Task 0</text>")
}
