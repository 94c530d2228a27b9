package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/penwyp/go-task-gantt/internal/util"
)

const minChartWidth = 10

// Options control terminal rendering.
type Options struct {
	// Width is the total line width. Zero means the terminal width.
	Width int
	Color bool
}

// TerminalRenderer draws a gantt chart with one row group per task and one lane per event
// type that occurs in the log.
//
//	tasked  2 tasks  window 10s
//	Task 0 mutex   │  ██████            │
//	       search  │    ████           ░│
//	       request │                    │
//	Task 1 mutex   │            ░░░░░░░░│
//	       search  │                    │
//	       request │          ▲         │
//	               └────────────────────┘
//	                0s       5s       10s
type TerminalRenderer struct {
	w     io.Writer
	table *events.Table
	opts  Options
}

func NewTerminalRenderer(w io.Writer, table *events.Table, opts Options) *TerminalRenderer {
	return &TerminalRenderer{w: w, table: table, opts: opts}
}

// Format writes the rendered chart.
func (r *TerminalRenderer) Format(result *reconstruct.Result) error {
	_, err := io.WriteString(r.w, r.Render(result))
	return err
}

type cell struct {
	glyph string
	typ   model.EventType
}

// Render returns the chart as a string ending in a newline.
func (r *TerminalRenderer) Render(result *reconstruct.Result) string {
	store := result.Store
	pal := newPalette(r.table, r.opts.Color)
	lanes := activeTypes(store)
	tasks := store.SortedTasks()

	width := r.opts.Width
	if width <= 0 {
		width = TerminalWidth()
	}

	taskW, typeW := 0, 0
	for _, task := range tasks {
		taskW = max(taskW, util.GetDisplayWidth(taskLabel(task)))
	}
	for _, t := range lanes {
		typeW = max(typeW, util.GetDisplayWidth(string(t)))
	}
	prefixW := taskW + 1 + typeW + 1
	chartW := max(width-prefixW-2, minChartWidth)

	var sb strings.Builder
	sb.WriteString(pal.apply(titleStyle, header(result)))
	sb.WriteString("\n")

	if len(lanes) == 0 {
		sb.WriteString(pal.apply(dimStyle, "no intervals"))
		sb.WriteString("\n")
		return sb.String()
	}

	scale := newScale(result.Window, chartW)
	for _, task := range tasks {
		for i, t := range lanes {
			label := ""
			if i == 0 {
				label = taskLabel(task)
			}
			sb.WriteString(pal.apply(labelStyle, util.PadRight(label, taskW)))
			sb.WriteString(" ")
			sb.WriteString(util.PadRight(string(t), typeW))
			sb.WriteString(" ")
			sb.WriteString(pal.apply(dimStyle, "│"))
			for _, c := range scale.lane(store.Intervals(t, task), t, result.Window) {
				if c.glyph == " " {
					sb.WriteString(" ")
					continue
				}
				sb.WriteString(pal.render(c.typ, c.glyph))
			}
			sb.WriteString(pal.apply(dimStyle, "│"))
			sb.WriteString("\n")
		}
	}

	pad := strings.Repeat(" ", prefixW)
	sb.WriteString(pad)
	sb.WriteString(pal.apply(dimStyle, "└"+strings.Repeat("─", chartW)+"┘"))
	sb.WriteString("\n")
	sb.WriteString(pad)
	sb.WriteString(pal.apply(dimStyle, axisLabels(result.Window, chartW+2)))
	sb.WriteString("\n")

	sb.WriteString(legend(pal, lanes))
	sb.WriteString("\n")
	if n := len(result.Anomalies); n > 0 {
		sb.WriteString(pal.apply(dimStyle, fmt.Sprintf("%d anomalies tolerated; see the summary output", n)))
		sb.WriteString("\n")
	}
	return sb.String()
}

type scale struct {
	window float64
	cols   int
}

func newScale(window float64, cols int) scale {
	return scale{window: window, cols: cols}
}

func (s scale) col(x float64) int {
	if s.window <= 0 {
		return 0
	}
	c := int(math.Floor(x / s.window * float64(s.cols)))
	return min(max(c, 0), s.cols-1)
}

// colEnd is the exclusive end column for an offset.
func (s scale) colEnd(x float64) int {
	if s.window <= 0 {
		return 1
	}
	c := int(math.Ceil(x / s.window * float64(s.cols)))
	return min(max(c, 0), s.cols)
}

// lane rasterizes one (type, task) lane. Closed bars are drawn first, then open bars, then
// markers, so markers stay visible on top.
func (s scale) lane(ivs []model.Interval, t model.EventType, window float64) []cell {
	cells := make([]cell, s.cols)
	for i := range cells {
		cells[i] = cell{glyph: " "}
	}
	paint := func(iv model.Interval, glyph string) {
		c0 := s.col(iv.Start)
		c1 := max(s.colEnd(iv.End(window)), c0+1)
		for c := c0; c < c1; c++ {
			cells[c] = cell{glyph: glyph, typ: t}
		}
	}
	for _, iv := range ivs {
		if !iv.Marker && !iv.Open {
			paint(iv, glyphBar)
		}
	}
	for _, iv := range ivs {
		if iv.Open {
			paint(iv, glyphOpen)
		}
	}
	for _, iv := range ivs {
		if iv.Marker {
			cells[s.col(iv.Start)] = cell{glyph: glyphMarker, typ: t}
		}
	}
	return cells
}

func activeTypes(store *model.IntervalStore) []model.EventType {
	var out []model.EventType
	for _, t := range store.Types {
		for _, task := range store.Tasks {
			if len(store.Intervals(t, task)) > 0 {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func taskLabel(task model.TaskID) string {
	if task == model.GlobalTask {
		return "macro"
	}
	return "Task " + task.String()
}

func header(result *reconstruct.Result) string {
	if result.TaskCount > 0 {
		return fmt.Sprintf("%s  %d tasks  window %s", result.Format, result.TaskCount, util.FormatElapsed(result.Window))
	}
	return fmt.Sprintf("%s  window %s", result.Format, util.FormatElapsed(result.Window))
}

// axisLabels places 0 at the left edge, the window at the right edge and the midpoint
// between them when there is room.
func axisLabels(window float64, width int) string {
	left := " 0s"
	right := util.FormatElapsed(window)
	mid := util.FormatElapsed(window / 2)

	line := []rune(strings.Repeat(" ", width))
	copy(line, []rune(left))
	rr := []rune(right)
	if len(rr) < width-len(left) {
		copy(line[width-len(rr):], rr)
	}
	mr := []rune(mid)
	start := width/2 - len(mr)/2
	if start > len(left) && start+len(mr) < width-len(rr)-1 {
		copy(line[start:], mr)
	}
	return string(line)
}

func legend(pal *palette, lanes []model.EventType) string {
	parts := make([]string, 0, len(lanes)+2)
	for _, t := range lanes {
		parts = append(parts, pal.render(t, glyphLegend)+" "+string(t))
	}
	parts = append(parts, glyphOpen+" open", glyphMarker+" marker")
	return "Legend: " + strings.Join(parts, "  ")
}
