package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-task-gantt/internal/application/gantt"
	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/core/timestamp"
	"github.com/penwyp/go-task-gantt/internal/data/reader"
	"github.com/penwyp/go-task-gantt/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Classify command flags
	classifyAll   bool
	classifyLimit int
)

var errLimitReached = errors.New("classify limit reached")

var classifyCmd = &cobra.Command{
	Use:    "classify [logfile]",
	Short:  "Debug command to print how every log line is classified",
	Long:   `Prints the event type, task and role each line of the log matches, without reconstructing intervals.`,
	Args:   cobra.MaximumNArgs(1),
	Hidden: true, // Hidden from help
	RunE:   runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifyAll, "all", false,
		"Also print lines that match no event type")
	classifyCmd.Flags().IntVar(&classifyLimit, "limit", 0,
		"Stop after this many printed lines (0 = unlimited)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	if err := initLogging("classify"); err != nil {
		return err
	}

	path := logPath(args)
	table, err := resolveTable(cmd, path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, util.FormatSectionSeparator(80))
	fmt.Fprintln(out, util.FormatHeaderTitle(fmt.Sprintf("=== Line Classification: %s (%s) ===", path, table.Name)))
	fmt.Fprintln(out, util.FormatSectionSeparator(80))

	rc, err := reader.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	classifier := events.NewClassifier(table)
	location := util.GetTimeProvider().Location()
	stats := classifyStats{byType: make(map[model.EventType]int)}

	err = reader.Lines(cmd.Context(), rc, func(line model.LogLine) error {
		if printClassified(out, classifier, line, location, &stats) {
			stats.printed++
		}
		if classifyLimit > 0 && stats.printed >= classifyLimit {
			return errLimitReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return err
	}

	fmt.Fprintln(out, util.FormatSectionSeparator(80))
	stats.print(out, table)
	return nil
}

type classifyStats struct {
	lines   int
	matched int
	banners int
	noStamp int
	printed int
	byType  map[model.EventType]int
}

func printClassified(w io.Writer, classifier *events.Classifier, line model.LogLine, location *time.Location, stats *classifyStats) bool {
	stats.lines++

	stamp := "-"
	if ts, ok := timestamp.ParseIn(line.Text, location); ok {
		stamp = ts.Format("15:04:05.000")
	} else {
		stats.noStamp++
	}

	if n, ok := classifier.TaskCount(line.Text); ok {
		stats.banners++
		fmt.Fprintf(w, "%6d  %-12s  %s%-8s%s tasks=%d\n", line.Number, stamp, util.ColorMagenta, "banner", util.ColorReset, n)
		return true
	}

	matches := classifier.Classify(line.Text)
	if len(matches) == 0 {
		if classifyAll {
			fmt.Fprintf(w, "%6d  %-12s  %s\n", line.Number, stamp, util.Truncate(line.Text, 60))
			return true
		}
		return false
	}

	stats.matched++
	for i, m := range matches {
		stats.byType[m.Type]++
		text := ""
		if i == 0 {
			text = util.Truncate(line.Text, 60)
		}
		fmt.Fprintf(w, "%6d  %-12s  %s%s%s %s task %-6s %s\n",
			line.Number, stamp,
			util.ColorCyan, util.PadRight(string(m.Type), 8), util.ColorReset,
			util.PadRight(m.Role.String(), 5), m.Task, text)
	}
	return true
}

func (s classifyStats) print(w io.Writer, table *events.Table) {
	fmt.Fprintln(w, util.FormatDiagnosticTitle("=== Summary ==="))
	fmt.Fprintf(w, "Lines:        %d\n", s.lines)
	fmt.Fprintf(w, "Matched:      %d (%s)\n", s.matched, util.FormatPercent(float64(s.matched), float64(s.lines)))
	if table.Banner != nil {
		fmt.Fprintf(w, "Banners:      %d\n", s.banners)
	}
	fmt.Fprintf(w, "No timestamp: %d\n", s.noStamp)
	for _, t := range table.Types() {
		fmt.Fprintf(w, "  %s %d\n", util.PadRight(string(t), 10), s.byType[t])
	}
}

// resolveTable picks the event table the same way the root command does.
func resolveTable(cmd *cobra.Command, path string) (*events.Table, error) {
	orchestrator, err := gantt.NewOrchestrator(&gantt.Config{
		LogFile:    path,
		LogFormat:  logFormat,
		EventsFile: eventsFile,
		Timezone:   timezone,
		NoCache:    true,
	})
	if err != nil {
		return nil, err
	}
	return orchestrator.ResolveTable(cmd.Context())
}
