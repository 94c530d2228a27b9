package chart

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/penwyp/go-task-gantt/internal/util"
)

// SVGOptions size the SVG document.
type SVGOptions struct {
	Width  int
	Height int
}

// DefaultSVGOptions returns a 1200x600 canvas.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 1200, Height: 600}
}

const (
	svgMarginLeft   = 90
	svgMarginRight  = 30
	svgMarginTop    = 60
	svgMarginBottom = 40
	svgXTicks       = 5
	defaultBarColor = "#808080"
	defaultBarH     = 8
)

// SVGRenderer draws the chart as a standalone SVG. The vertical axis runs 0..100 for
// per-task logs with task k centered at 100*(k+1)/(N+1), and 0..50 for single-track logs
// with everything centered at 25. Bar heights are in those axis units.
type SVGRenderer struct {
	w     io.Writer
	table *events.Table
	opts  SVGOptions
}

func NewSVGRenderer(w io.Writer, table *events.Table, opts SVGOptions) *SVGRenderer {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultSVGOptions()
	}
	return &SVGRenderer{w: w, table: table, opts: opts}
}

func (r *SVGRenderer) Format(result *reconstruct.Result) error {
	_, err := io.WriteString(r.w, r.Render(result))
	return err
}

type svgFrame struct {
	left, top, plotW, plotH float64
	yMax, window            float64
}

func (f svgFrame) x(offset float64) float64 {
	if f.window <= 0 {
		return f.left
	}
	return f.left + offset/f.window*f.plotW
}

func (f svgFrame) y(v float64) float64 {
	return f.top + (f.yMax-v)/f.yMax*f.plotH
}

// TaskCenter returns the axis position of a task's row.
func TaskCenter(task model.TaskID, taskCount int) float64 {
	if task == model.GlobalTask {
		return 25
	}
	return 100 * float64(int(task)+1) / float64(taskCount+1)
}

func (r *SVGRenderer) Render(result *reconstruct.Result) string {
	store := result.Store
	frame := svgFrame{
		left:   svgMarginLeft,
		top:    svgMarginTop,
		plotW:  float64(r.opts.Width - svgMarginLeft - svgMarginRight),
		plotH:  float64(r.opts.Height - svgMarginTop - svgMarginBottom),
		yMax:   100,
		window: result.Window,
	}
	perTask := !(len(store.Tasks) == 1 && store.Tasks[0] == model.GlobalTask)
	if !perTask {
		frame.yMax = 50
	}
	taskCount := len(store.Tasks)

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" font-family="Arial, sans-serif" font-size="12">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, r.opts.Width, r.opts.Height))

	r.drawAxes(&svg, frame, result, perTask, taskCount)

	lanes := activeTypes(store)
	for _, task := range store.SortedTasks() {
		center := TaskCenter(task, taskCount)
		for _, t := range lanes {
			color, opacity, height := r.style(t)
			y := frame.y(center + height/2)
			h := frame.y(center-height/2) - y
			for _, iv := range store.Intervals(t, task) {
				tip := html.EscapeString(fmt.Sprintf("%s %s line %d: %s +%s",
					t, taskLabel(task), iv.Line, util.FormatSeconds(iv.Start), util.FormatSeconds(iv.Span(result.Window))))
				x := frame.x(iv.Start)
				if iv.Marker {
					svg.WriteString(fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s" fill="%s" fill-opacity="%s"><title>%s</title></polygon>`,
						num(x), num(y), num(x-4), num(y+h), num(x+4), num(y+h), color, num(opacity), tip))
					svg.WriteString("\n")
					continue
				}
				w := max(frame.x(iv.End(result.Window))-x, 1)
				extra := ""
				if iv.Open {
					extra = ` fill-opacity="0.35" stroke="` + color + `" stroke-dasharray="4,2"`
				} else {
					extra = ` fill-opacity="` + num(opacity) + `"`
				}
				svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s><title>%s</title></rect>`,
					num(x), num(y), num(w), num(h), color, extra, tip))
				svg.WriteString("\n")
			}
		}
	}

	r.drawLegend(&svg, lanes)
	svg.WriteString("</svg>\n")
	return svg.String()
}

func (r *SVGRenderer) drawAxes(svg *strings.Builder, frame svgFrame, result *reconstruct.Result, perTask bool, taskCount int) {
	bottom := frame.top + frame.plotH
	right := frame.left + frame.plotW
	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333333" stroke-width="1"/>`+"\n",
		num(frame.left), num(bottom), num(right), num(bottom)))
	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333333" stroke-width="1"/>`+"\n",
		num(frame.left), num(frame.top), num(frame.left), num(bottom)))

	for i := 0; i <= svgXTicks; i++ {
		offset := result.Window * float64(i) / svgXTicks
		x := frame.x(offset)
		svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#cccccc" stroke-width="1"/>`+"\n",
			num(x), num(frame.top), num(x), num(bottom)))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" fill="#666666">%s</text>`+"\n",
			num(x), num(bottom+16), util.FormatElapsed(offset)))
	}
	svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" fill="#333333">Time since start (seconds)</text>`+"\n",
		num(frame.left+frame.plotW/2), num(bottom+34)))

	if !perTask {
		return
	}
	for k := 0; k < taskCount; k++ {
		y := frame.y(TaskCenter(model.TaskID(k), taskCount))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="end" dominant-baseline="middle" fill="#333333">Task %d</text>`+"\n",
			num(frame.left-8), num(y), k))
	}
}

func (r *SVGRenderer) drawLegend(svg *strings.Builder, lanes []model.EventType) {
	x := float64(svgMarginLeft)
	for _, t := range lanes {
		color, _, _ := r.style(t)
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="20" width="12" height="12" fill="%s"/>`, num(x), color))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="30" fill="#333333">%s</text>`+"\n", num(x+16), html.EscapeString(string(t))))
		x += 24 + float64(7*len(t))
	}
}

// style returns the RGB color, opacity and bar height of an event type.
func (r *SVGRenderer) style(t model.EventType) (string, float64, float64) {
	if r.table == nil {
		return defaultBarColor, 1, defaultBarH
	}
	spec, ok := r.table.Spec(t)
	if !ok {
		return defaultBarColor, 1, defaultBarH
	}
	height := float64(spec.Style.Height)
	if height <= 0 {
		height = defaultBarH
	}
	color := spec.Style.RGB()
	if color == "" {
		color = defaultBarColor
	}
	return color, alpha(spec.Style.Color), height
}

// alpha reads the opacity from an 8-digit #rrggbbaa color.
func alpha(color string) float64 {
	if len(color) != 9 || color[0] != '#' {
		return 1
	}
	v, err := strconv.ParseUint(color[7:], 16, 8)
	if err != nil {
		return 1
	}
	return float64(v) / 255
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
