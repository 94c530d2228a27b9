package chart

import (
	"os"

	"github.com/penwyp/go-task-gantt/internal/util"
	"golang.org/x/term"
)

const (
	defaultWidth = 100
	minWidth     = 40
)

// TerminalWidth returns the width of stdout, or a fallback when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		width = defaultWidth
	}
	util.LogDebugf("Terminal width %d", width)
	return width
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
