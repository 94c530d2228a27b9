package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0.000s", FormatSeconds(0))
	assert.Equal(t, "1.250s", FormatSeconds(1.25))
	assert.Equal(t, "-0.500s", FormatSeconds(-0.5))
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0, expected: "0s"},
		{name: "whole seconds", input: 42, expected: "42s"},
		{name: "fractional seconds", input: 1.5, expected: "1.5s"},
		{name: "minutes", input: 90, expected: "1m30s"},
		{name: "hours", input: 7260, expected: "2h 1m"},
		{name: "negative", input: -3, expected: "-3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatElapsed(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "zero", input: 0, expected: "0m"},
		{name: "minutes only", input: 45 * time.Minute, expected: "45m"},
		{name: "hours and minutes", input: 2*time.Hour + 30*time.Minute, expected: "2h 30m"},
		{name: "seconds are dropped", input: 59 * time.Second, expected: "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "50.0%", FormatPercent(1, 2))
	assert.Equal(t, "0.0%", FormatPercent(1, 0))
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "  ab", PadLeft("ab", 4))
	assert.Equal(t, 4, GetDisplayWidth("日本"))
	assert.Equal(t, "abc…", Truncate("abcdefgh", 4))
}
