package cli

import (
	"context"
	"strings"
	"time"

	"github.com/calvinalkan/daybook/internal/record"

	flag "github.com/spf13/pflag"
)

var noteDef = kindDef[record.Note]{
	kind:   record.KindNotes,
	schema: record.NoteSchema,
	line:   noteLine,
	detail: noteDetail,
}

func noteGroup(a *app) *Group {
	return newGroup("note", "Manage notes",
		noteAddCmd(a),
		listCmd(a, noteDef),
		showCmd(a, noteDef),
		noteFlagCmd(a, record.FlagPinned, "pin <id>", "Pin a note (--off to unpin)"),
		noteFlagCmd(a, record.FlagArchived, "archive <id>", "Archive a note (--off to restore)"),
		noteFlagCmd(a, record.FlagFavorite, "favorite <id>", "Favorite a note (--off to clear)"),
		rmCmd(a, noteDef),
	)
}

func noteAddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("body", "b", "", "Note content")
	fs.StringP("category", "c", "", "Category")
	fs.StringArrayP("tag", "t", nil, "Tag (repeatable, comma separated allowed)")
	fs.Bool("pin", false, "Pin the note")

	return &Command{
		Flags: fs,
		Usage: "add <title>",
		Short: "Add a note, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			in := record.NoteInput{Title: strings.Join(args, " ")}
			in.Content, _ = fs.GetString("body")
			in.Category, _ = fs.GetString("category")
			in.Tags, _ = fs.GetStringArray("tag")
			in.Pinned, _ = fs.GetBool("pin")

			note, err := record.NewNote(in, a.now())
			if err != nil {
				return err
			}

			err = addRecord(ctx, a, record.KindNotes, note)
			if err != nil {
				return err
			}

			o.Println(note.ID)

			return nil
		},
	}
}

func noteFlagCmd(a *app, flagName record.NoteFlag, usage, short string) *Command {
	fs := flag.NewFlagSet(string(flagName), flag.ContinueOnError)
	fs.Bool("off", false, "Clear the flag instead of setting it")

	cmd := updateCmd(a, noteDef, usage, short, func(n record.Note, now time.Time) (record.Note, error) {
		off, _ := fs.GetBool("off")

		return record.SetNoteFlag(n, flagName, !off, now), nil
	})
	cmd.Flags = fs

	return cmd
}

func noteLine(n record.Note, _ time.Time) string {
	var b strings.Builder

	b.WriteString(n.ID)
	b.WriteString(" ")

	if n.Pinned {
		b.WriteString("* ")
	}

	b.WriteString(n.Title)

	if n.Favorite {
		b.WriteString(" (favorite)")
	}

	if n.Archived {
		b.WriteString(" (archived)")
	}

	if n.Category != "" {
		b.WriteString(" @" + n.Category)
	}

	b.WriteString(tagSuffix(n.Tags))

	return b.String()
}

func noteDetail(o *IO, n record.Note, now time.Time) {
	o.Println("id:", n.ID)
	o.Println("title:", n.Title)
	o.Println("category:", orDash(n.Category))
	o.Println("tags:", orDash(strings.Join(n.Tags, ", ")))
	o.Println("pinned:", yesNo(n.Pinned))
	o.Println("archived:", yesNo(n.Archived))
	o.Println("favorite:", yesNo(n.Favorite))
	o.Println("created:", stamp(n.CreatedAt, now))
	o.Println("updated:", stamp(n.UpdatedAt, now))

	if n.Content != "" {
		o.Println()
		o.Println(n.Content)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
