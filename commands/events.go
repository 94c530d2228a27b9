package commands

import (
	"fmt"
	"io"

	"github.com/penwyp/go-task-gantt/internal/core/events"
	"github.com/penwyp/go-task-gantt/internal/util"
	"github.com/spf13/cobra"
)

var eventsYAML bool

var eventsCmd = &cobra.Command{
	Use:   "events [logfile]",
	Short: "Show the event table used for a log",
	Long: `Shows the event table a log is reconstructed with: its tracking mode, banner and, for every
event type, the start and end patterns and chart style.

Examples:
  go-task-gantt events run.log                      # Table auto-detected for run.log
  go-task-gantt events --log-format serial --yaml   # Built-in serial table as editable YAML`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().BoolVar(&eventsYAML, "yaml", false,
		"Print the table in the --events file format")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if err := initLogging("events"); err != nil {
		return err
	}

	table, err := resolveTable(cmd, logPath(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if eventsYAML {
		return events.WriteTable(out, table)
	}
	printTable(out, table)
	return nil
}

func printTable(w io.Writer, table *events.Table) {
	fmt.Fprintln(w, util.FormatHeaderTitle(fmt.Sprintf("=== Event table: %s ===", table.Name)))
	fmt.Fprintf(w, "Tracking: %s\n", table.Tracking)
	if table.Banner != nil {
		fmt.Fprintf(w, "Banner:   %s\n", table.Banner)
	}
	fmt.Fprintf(w, "Digest:   %s\n", table.Digest())
	fmt.Fprintln(w, util.FormatSectionSeparator(80))

	for _, s := range table.Specs {
		kind := "interval"
		if s.Marker {
			kind = "marker"
		}
		fmt.Fprintf(w, "%s%s%s %s height=%d color=%s\n",
			util.ColorCyan, util.PadRight(string(s.Name), 10), util.ColorReset,
			util.PadRight(kind, 8), s.Style.Height, s.Style.Color)
		fmt.Fprintf(w, "  start  %s\n", s.Start)
		if s.End != nil {
			fmt.Fprintf(w, "  end    %s\n", s.End)
		}
	}
}
