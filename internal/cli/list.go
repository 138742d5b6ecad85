package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/calvinalkan/daybook/internal/record"
	"github.com/calvinalkan/daybook/pkg/query"

	flag "github.com/spf13/pflag"
)

// kindDef describes how one collection is queried and printed.
type kindDef[T record.Record] struct {
	kind   string
	schema query.Accessor[T]
	line   func(r T, now time.Time) string
	detail func(o *IO, r T, now time.Time)
}

var errIDRequired = errors.New("id is required")

func addListFlags(fs *flag.FlagSet, kind string) {
	switch kind {
	case record.KindTodos:
		fs.String("status", "", "Filter by status (active|completed|all)")
	case record.KindNotes:
		fs.String("status", "", "Filter by status (active|pinned|archived|all) [default: active]")
	case record.KindGoals:
		fs.String("status", "", "Filter by status (active|paused|completed|all)")
	case record.KindHabits:
		fs.String("status", "", "Filter by status (active|archived|all) [default: active]")
	}

	if kind == record.KindTodos || kind == record.KindGoals {
		fs.StringP("priority", "p", "", "Filter by priority (critical|high|medium|low)")
	}

	if kind == record.KindTodos || kind == record.KindNotes || kind == record.KindGoals {
		fs.String("category", "", "Filter by category")
	}

	if kind == record.KindJournal {
		fs.String("mood", "", "Filter by mood")
	}

	if kind == record.KindNotes || kind == record.KindJournal {
		fs.Bool("favorite", false, "Only favorites")
	}

	if kind != record.KindHabits {
		fs.StringArrayP("tag", "t", nil, "Match any of these tags (repeatable)")
	}

	fs.StringP("search", "s", "", "Case-insensitive text search")
	fs.Int("within", -1, "Primary date at most N days from today")
	fs.String("since", "", "Primary date on or after `date`")
	fs.StringArray("filter", nil, "Extra predicate `kind:field[,field]=value` (repeatable)")
	fs.String("sort", "", "Sort field")
	fs.String("order", "", "Sort order (asc|desc)")
	fs.Int("limit", 0, "Maximum records to show (0 = all)")
	fs.Int("offset", 0, "Skip first N records")
	addFormatFlag(fs)
}

// listOptions reads the flags added by addListFlags. Flags a kind does not
// define read as their zero value.
func listOptions(fs *flag.FlagSet, now time.Time) (record.ListOptions, error) {
	opts := record.DefaultListOptions()

	opts.Status, _ = fs.GetString("status")
	opts.Priority, _ = fs.GetString("priority")
	opts.Category, _ = fs.GetString("category")
	opts.Mood, _ = fs.GetString("mood")
	opts.Search, _ = fs.GetString("search")
	opts.Tags, _ = fs.GetStringArray("tag")
	opts.Favorite, _ = fs.GetBool("favorite")
	opts.WithinDays, _ = fs.GetInt("within")
	opts.Since, _ = fs.GetString("since")
	opts.Sort, _ = fs.GetString("sort")
	opts.Order, _ = fs.GetString("order")
	opts.Limit, _ = fs.GetInt("limit")
	opts.Offset, _ = fs.GetInt("offset")

	since, err := parseDay(opts.Since, now)
	if err != nil {
		return opts, fmt.Errorf("--since: %w", err)
	}

	opts.Since = since

	raw, _ := fs.GetStringArray("filter")
	for _, s := range raw {
		p, err := record.ParseFilter(s)
		if err != nil {
			return opts, err
		}

		opts.Filters = append(opts.Filters, p)
	}

	return opts, nil
}

func listCmd[T record.Record](a *app, def kindDef[T]) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	addListFlags(fs, def.kind)

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List " + def.kind,
		Long: "List " + def.kind + ". Filters combine with AND; --filter adds any predicate the\n" +
			"query engine knows (equals, contains, dateOnOrAfter, dateWithinDays,\n" +
			"tagIntersects, boolEquals).",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			now := a.now()

			opts, err := listOptions(fs, now)
			if err != nil {
				return err
			}

			format, err := outputFormat(fs)
			if err != nil {
				return err
			}

			results, err := runQuery(ctx, a, o, def, opts)
			if err != nil {
				return err
			}

			return writeRecords(o, format, results, func(r T) string {
				return highlight(def.line(r, now), opts.Search)
			})
		},
	}
}

// runQuery loads def's collection and applies opts through the query engine.
func runQuery[T record.Record](ctx context.Context, a *app, o *IO, def kindDef[T], opts record.ListOptions) ([]T, error) {
	filters, order, err := opts.Build(def.kind)
	if err != nil {
		return nil, err
	}

	results, err := queryRecords(ctx, a, o, def, filters, order)
	if err != nil {
		return nil, err
	}

	return record.Page(results, opts.Limit, opts.Offset), nil
}

func queryRecords[T record.Record](ctx context.Context, a *app, o *IO, def kindDef[T], filters []query.Predicate, order query.Sort) ([]T, error) {
	records, err := loadRecords[T](ctx, a, o, def.kind)
	if err != nil {
		return nil, err
	}

	eng := query.New(def.schema, a.clock())

	results, err := eng.Query(records, filters, order)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"kind":    def.kind,
		"filters": len(filters),
		"sort":    order.Field,
		"matched": len(results),
	}).Debug("query")

	return results, nil
}

func showCmd[T record.Record](a *app, def kindDef[T]) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	addFormatFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "show <id>",
		Short: "Show one record",
		Long:  "Show one record. <id> may be any unique prefix of the ID.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			format, err := outputFormat(fs)
			if err != nil {
				return err
			}

			r, err := findRecord[T](ctx, a, o, def.kind, args[0])
			if err != nil {
				return err
			}

			if format != formatText {
				return writeValue(o, format, r)
			}

			def.detail(o, r, a.now())

			return nil
		},
	}
}

func rmCmd[T record.Record](a *app, def kindDef[T]) *Command {
	return &Command{
		Usage: "rm <id>",
		Short: "Delete a record",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			removed, err := deleteRecord[T](ctx, a, def.kind, args[0])
			if err != nil {
				return err
			}

			o.Println("Deleted", removed.GetID())

			return nil
		},
	}
}

// updateCmd builds a "<verb> <id>" command that applies fn to one record
// and prints the updated line.
func updateCmd[T record.Record](a *app, def kindDef[T], usage, short string, fn func(r T, now time.Time) (T, error)) *Command {
	return &Command{
		Usage: usage,
		Short: short,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			now := a.now()

			updated, err := updateRecord(ctx, a, def.kind, args[0], func(r T) (T, error) {
				return fn(r, now)
			})
			if err != nil {
				return err
			}

			o.Println(def.line(updated, now))

			return nil
		},
	}
}
