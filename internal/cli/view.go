package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/daybook/internal/config"
	"github.com/calvinalkan/daybook/internal/record"
	"github.com/calvinalkan/daybook/pkg/query"

	flag "github.com/spf13/pflag"
)

var errUnknownView = errors.New("unknown view")

// ViewCmd returns the view command.
func ViewCmd(a *app) *Command {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	addFormatFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "view [name]",
		Short: "Run a saved view, or list views",
		Long: "Run a query saved under \"views\" in the config. Without a name, list\n" +
			"the configured views.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			format, err := outputFormat(fs)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				listViews(o, a.cfg)

				return nil
			}

			view, ok := a.cfg.Views[args[0]]
			if !ok {
				return fmt.Errorf("%w: %q (have: %s)", errUnknownView, args[0], strings.Join(a.cfg.ViewNames(), ", "))
			}

			switch view.Collection {
			case record.KindTodos:
				return runView(ctx, a, o, todoDef, view, format)
			case record.KindNotes:
				return runView(ctx, a, o, noteDef, view, format)
			case record.KindJournal:
				return runView(ctx, a, o, journalDef, view, format)
			case record.KindGoals:
				return runView(ctx, a, o, goalDef, view, format)
			case record.KindHabits:
				return runView(ctx, a, o, habitDef, view, format)
			default:
				return fmt.Errorf("%w: %q", record.ErrUnknownKind, view.Collection)
			}
		},
	}
}

// runView applies a view's predicates as-is. Unlike ls, no status default is
// added, so a view over notes sees archived ones unless it filters them.
func runView[T record.Record](ctx context.Context, a *app, o *IO, def kindDef[T], view config.View, format string) error {
	opts := record.DefaultListOptions()
	opts.Status = query.All

	_, order, err := opts.Build(def.kind)
	if err != nil {
		return err
	}

	if view.Sort.Field != "" {
		order = view.Sort
	}

	results, err := queryRecords(ctx, a, o, def, view.Filters, order)
	if err != nil {
		return err
	}

	results = record.Page(results, view.Limit, 0)
	now := a.now()

	return writeRecords(o, format, results, func(r T) string { return def.line(r, now) })
}

func listViews(o *IO, cfg *config.Config) {
	names := cfg.ViewNames()
	if len(names) == 0 {
		o.Println("no views configured")

		return
	}

	for _, name := range names {
		view := cfg.Views[name]
		line := fmt.Sprintf("%-20s %-8s %d filter(s)", name, view.Collection, len(view.Filters))

		if view.Sort.Field != "" {
			line += fmt.Sprintf(", sort %s %s", view.Sort.Field, orDash(string(view.Sort.Order)))
		}

		if view.Limit > 0 {
			line += fmt.Sprintf(", limit %d", view.Limit)
		}

		o.Println(line)
	}
}
