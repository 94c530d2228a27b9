package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-task-gantt/internal/core/reconstruct"
	"github.com/penwyp/go-task-gantt/internal/util"
)

type TableFormatter struct {
	w       io.Writer
	headers []string
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w: w,
		headers: []string{
			"Task", "Type", "Intervals", "Active", "Longest", "Open", "Markers", "Truncated",
		},
	}
}

func (f *TableFormatter) Format(result *reconstruct.Result) error {
	rows := Summarize(result)

	values := make([][]string, 0, len(rows)+1)
	var totalIntervals, totalOpen, totalMarkers, totalTruncated int
	var totalActive float64
	for _, row := range rows {
		values = append(values, []string{
			row.Task.String(),
			string(row.Type),
			fmt.Sprintf("%d", row.Intervals),
			util.FormatSeconds(row.Active),
			util.FormatSeconds(row.Longest),
			fmt.Sprintf("%d", row.Open),
			fmt.Sprintf("%d", row.Markers),
			fmt.Sprintf("%d", row.Truncated),
		})
		totalIntervals += row.Intervals
		totalOpen += row.Open
		totalMarkers += row.Markers
		totalTruncated += row.Truncated
		totalActive += row.Active
	}
	total := []string{
		"Total", "",
		fmt.Sprintf("%d", totalIntervals),
		util.FormatSeconds(totalActive),
		"",
		fmt.Sprintf("%d", totalOpen),
		fmt.Sprintf("%d", totalMarkers),
		fmt.Sprintf("%d", totalTruncated),
	}

	widths := f.calculateColumnWidths(append(values, total))

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")
	for _, v := range values {
		f.printRow(v, widths)
	}
	f.printBorder(widths, "middle")
	f.printRow(total, widths)
	f.printBorder(widths, "bottom")

	return nil
}

// calculateColumnWidths sizes each column to its widest cell
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(f.w, b.String())
}

// printRow left-aligns the task and type columns and right-aligns the numbers
func (f *TableFormatter) printRow(values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		if i < 2 {
			b.WriteString(" " + util.PadRight(value, widths[i]) + " │")
		} else {
			b.WriteString(" " + util.PadLeft(value, widths[i]) + " │")
		}
	}
	fmt.Fprintln(f.w, b.String())
}
