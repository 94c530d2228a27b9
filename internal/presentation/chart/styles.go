package chart

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
)

const (
	glyphBar    = "█"
	glyphOpen   = "░"
	glyphMarker = "▲"
	glyphLegend = "■"
)

var (
	colorGray = lipgloss.Color("#6272A4")
	colorCyan = lipgloss.Color("#8BE9FD")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	dimStyle   = lipgloss.NewStyle().Foreground(colorGray)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// palette maps each event type to its lipgloss style. With color disabled every style is
// the zero style, which renders text unchanged.
type palette struct {
	color  bool
	styles map[model.EventType]lipgloss.Style
}

func newPalette(table *events.Table, color bool) *palette {
	p := &palette{color: color, styles: make(map[model.EventType]lipgloss.Style)}
	if table == nil {
		return p
	}
	for _, spec := range table.Specs {
		p.styles[spec.Name] = lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Style.RGB()))
	}
	return p
}

func (p *palette) render(t model.EventType, s string) string {
	if !p.color {
		return s
	}
	if style, ok := p.styles[t]; ok {
		return style.Render(s)
	}
	return s
}

func (p *palette) apply(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}
