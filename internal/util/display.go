package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"

	ClearScreen    = "\033[2J"
	MoveCursorHome = "\033[H"
)

// GetDisplayWidth calculates the display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads text with spaces to the given display width.
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text within the given display width.
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(text, width)
}

// Truncate cuts text to width display cells, ending with an ellipsis when shortened.
func Truncate(text string, width int) string {
	return runewidth.Truncate(text, width, "…")
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}

// FormatDiagnosticTitle formats diagnostic titles (Yellow + Bold)
func FormatDiagnosticTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorYellow, title, ColorReset)
}

// FormatSectionSeparator creates a visual separator line of the given width
func FormatSectionSeparator(width int) string {
	if width <= 0 {
		width = 80
	}
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorCyan, strings.Repeat("─", width), ColorReset)
}
