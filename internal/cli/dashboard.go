package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/calvinalkan/daybook/internal/record"

	flag "github.com/spf13/pflag"
)

// DashboardCmd returns the dashboard command.
func DashboardCmd(a *app) *Command {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	addFormatFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "dashboard [flags]",
		Short: "Summarize every collection",
		Long:  "Show totals, overdue todos, recent journal activity, goal progress and habit streaks.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			format, err := outputFormat(fs)
			if err != nil {
				return err
			}

			snap, err := loadSnapshot(ctx, a, o)
			if err != nil {
				return err
			}

			dash, err := record.Summarize(snap, a.now())
			if err != nil {
				return err
			}

			if format != formatText {
				return writeValue(o, format, dash)
			}

			printDashboard(o, dash)

			return nil
		},
	}
}

func printDashboard(o *IO, d record.Dashboard) {
	o.Println(record.Heading(record.KindTodos))
	o.Printf("  %d total, %d completed (%d%%), %d overdue, %d due today\n",
		d.Todos.Total, d.Todos.Completed, d.Todos.CompletionRate, d.Todos.Overdue, d.Todos.DueToday)
	printCounts(o, d.Todos.ByPriority)

	o.Println(record.Heading(record.KindNotes))
	o.Printf("  %d total, %d pinned, %d archived\n", d.Notes.Total, d.Notes.Pinned, d.Notes.Archived)

	o.Println(record.Heading(record.KindJournal))
	o.Printf("  %d entries, %d in the last week\n", d.Journal.Total, d.Journal.LastWeek)
	printCounts(o, d.Journal.Moods)

	o.Println(record.Heading(record.KindGoals))
	o.Printf("  %d total, average progress %d%%\n", d.Goals.Total, d.Goals.AverageProgress)
	printCounts(o, d.Goals.ByStatus)

	o.Println(record.Heading(record.KindHabits))
	o.Printf("  %d active, %d done this period\n", d.Habits.Active, d.Habits.DoneToday)

	for _, s := range d.Habits.Streaks {
		mark := " "
		if s.Done {
			mark = "x"
		}

		o.Printf("  [%s] %s streak:%d best:%d\n", mark, s.Name, s.Current, s.Best)
	}
}

func printCounts(o *IO, counts map[string]int) {
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		o.Printf("  %s: %d\n", record.Heading(key), counts[key])
	}
}
