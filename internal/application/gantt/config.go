package gantt

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/penwyp/go-task-gantt/internal/presentation/formatter"
)

const (
	OutputChart = "chart"
	OutputSVG   = "svg"
)

// Config contains configuration for one gantt run
type Config struct {
	// Input
	LogFile    string
	LogFormat  string // auto, tasked, serial or the name of the --events table
	EventsFile string
	Timezone   string

	// Output
	Output  string
	OutFile string
	Width   int
	NoColor bool

	// Reconstruction
	SkipUnmatched bool

	// Cache
	CacheDir string
	NoCache  bool

	// Watch mode
	Watch    bool
	Debounce time.Duration

	RunID string
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Outputs lists every accepted --output value.
func Outputs() []string {
	return append([]string{OutputChart, OutputSVG}, formatter.Names...)
}

// Validate fills defaults and rejects inconsistent settings
func (c *Config) Validate() error {
	if c.LogFile == "" {
		c.LogFile = "better.log"
	}
	if c.LogFormat == "" {
		c.LogFormat = "auto"
	}
	if c.Output == "" {
		c.Output = OutputChart
	}
	c.Output = strings.ToLower(c.Output)
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.CacheDir == "" {
		c.CacheDir = "~/.go-task-gantt/cache"
	}
	c.CacheDir = ExpandPath(c.CacheDir)
	if c.Debounce == 0 {
		c.Debounce = 200 * time.Millisecond
	}

	if !slices.Contains(Outputs(), c.Output) {
		return fmt.Errorf("unknown output %q (expected one of %s)", c.Output, strings.Join(Outputs(), ", "))
	}
	if c.Output == "msgpack" && c.OutFile == "" {
		return fmt.Errorf("msgpack output is binary, use --out to write it to a file")
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	return nil
}
