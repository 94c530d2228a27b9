package util

import (
	"fmt"
	"math"
	"time"
)

// FormatSeconds renders an offset or duration in seconds with millisecond precision.
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.3fs", s)
}

// FormatElapsed renders seconds the way axis labels need them: short and human.
func FormatElapsed(s float64) string {
	neg := s < 0
	if neg {
		s = -s
	}
	var out string
	switch {
	case s < 60:
		out = trimFloat(s) + "s"
	case s < 3600:
		m := math.Floor(s / 60)
		out = fmt.Sprintf("%dm%ss", int(m), trimFloat(s-m*60))
	default:
		d := time.Duration(s * float64(time.Second)).Round(time.Second)
		out = FormatDuration(d)
	}
	if neg {
		return "-" + out
	}
	return out
}

// FormatDuration renders hours and minutes.
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatPercent renders a ratio as a percentage.
func FormatPercent(part, whole float64) string {
	if whole <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/whole*100)
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	s := fmt.Sprintf("%.1f", f)
	return s
}
