package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/daybook/internal/record"

	flag "github.com/spf13/pflag"
)

var journalDef = kindDef[record.Entry]{
	kind:   record.KindJournal,
	schema: record.EntrySchema,
	line:   entryLine,
	detail: entryDetail,
}

func journalGroup(a *app) *Group {
	return newGroup("journal", "Write and browse journal entries",
		journalAddCmd(a),
		listCmd(a, journalDef),
		showCmd(a, journalDef),
		rmCmd(a, journalDef),
	)
}

func journalAddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("body", "b", "", "Entry text")
	fs.StringP("mood", "m", "", "Mood (free form, e.g. happy)")
	fs.String("date", "", "Entry `date` [default: today]")
	fs.StringArrayP("tag", "t", nil, "Tag (repeatable, comma separated allowed)")

	return &Command{
		Flags: fs,
		Usage: "add <title>",
		Short: "Add a journal entry, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			now := a.now()

			rawDate, _ := fs.GetString("date")

			date, err := parseDay(rawDate, now)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}

			in := record.EntryInput{Title: strings.Join(args, " "), Date: date}
			in.Content, _ = fs.GetString("body")
			in.Mood, _ = fs.GetString("mood")
			in.Tags, _ = fs.GetStringArray("tag")

			entry, err := record.NewEntry(in, now)
			if err != nil {
				return err
			}

			err = addRecord(ctx, a, record.KindJournal, entry)
			if err != nil {
				return err
			}

			o.Println(entry.ID)

			return nil
		},
	}
}

func entryLine(e record.Entry, _ time.Time) string {
	line := e.ID + " " + e.Date + " " + e.Title

	if e.Mood != "" {
		line += " (" + e.Mood + ")"
	}

	return line + tagSuffix(e.Tags)
}

func entryDetail(o *IO, e record.Entry, _ time.Time) {
	o.Println("id:", e.ID)
	o.Println("date:", e.Date)
	o.Println("title:", e.Title)
	o.Println("mood:", orDash(e.Mood))
	o.Println("tags:", orDash(strings.Join(e.Tags, ", ")))

	if e.Content != "" {
		o.Println()
		o.Println(e.Content)
	}
}
