package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/daybook/internal/record"

	flag "github.com/spf13/pflag"
)

var habitDef = kindDef[record.Habit]{
	kind:   record.KindHabits,
	schema: record.HabitSchema,
	line:   habitLine,
	detail: habitDetail,
}

func habitGroup(a *app) *Group {
	return newGroup("habit", "Track daily and weekly habits",
		habitAddCmd(a),
		listCmd(a, habitDef),
		showCmd(a, habitDef),
		habitCheckCmd(a, "check <id>", "Record a completion [default: today]", true),
		habitCheckCmd(a, "uncheck <id>", "Remove a completion [default: today]", false),
		habitArchiveCmd(a),
		rmCmd(a, habitDef),
	)
}

func habitAddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.String("frequency", record.FrequencyDaily, "How often (daily|weekly)")

	return &Command{
		Flags: fs,
		Usage: "add <name>",
		Short: "Add a habit, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			frequency, _ := fs.GetString("frequency")

			habit, err := record.NewHabit(strings.Join(args, " "), strings.ToLower(frequency), a.now())
			if err != nil {
				return err
			}

			err = addRecord(ctx, a, record.KindHabits, habit)
			if err != nil {
				return err
			}

			o.Println(habit.ID)

			return nil
		},
	}
}

func habitCheckCmd(a *app, usage, short string, done bool) *Command {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.String("date", "", "Check-in `date` [default: today]")

	cmd := updateCmd(a, habitDef, usage, short, func(h record.Habit, now time.Time) (record.Habit, error) {
		raw, _ := fs.GetString("date")
		if raw == "" {
			raw = "today"
		}

		date, err := parseDay(raw, now)
		if err != nil {
			return h, err
		}

		if !done {
			return record.Uncheck(h, date), nil
		}

		return record.CheckIn(h, date)
	})
	cmd.Flags = fs

	return cmd
}

func habitArchiveCmd(a *app) *Command {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.Bool("off", false, "Restore an archived habit")

	cmd := updateCmd(a, habitDef, "archive <id>", "Archive a habit (--off to restore)", func(h record.Habit, _ time.Time) (record.Habit, error) {
		off, _ := fs.GetBool("off")
		h.Archived = !off

		return h, nil
	})
	cmd.Flags = fs

	return cmd
}

func habitLine(h record.Habit, now time.Time) string {
	mark := "[ ]"
	if record.DoneInPeriod(h, now) {
		mark = "[x]"
	}

	line := fmt.Sprintf("%s %s %s (%s) streak:%d best:%d", h.ID, mark, h.Name, h.Frequency,
		record.CurrentStreak(h, now), record.BestStreak(h))

	if h.Archived {
		line += " (archived)"
	}

	return line
}

func habitDetail(o *IO, h record.Habit, now time.Time) {
	o.Println("id:", h.ID)
	o.Println("name:", h.Name)
	o.Println("frequency:", h.Frequency)
	o.Println("archived:", yesNo(h.Archived))
	o.Println("current streak:", record.CurrentStreak(h, now))
	o.Println("best streak:", record.BestStreak(h))
	o.Println("last done:", orDash(h.LastDone()))
	o.Println("completions:", len(h.Completions))
}
