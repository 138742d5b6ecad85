package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/daybook/internal/record"

	flag "github.com/spf13/pflag"
)

var todoDef = kindDef[record.Todo]{
	kind:   record.KindTodos,
	schema: record.TodoSchema,
	line:   todoLine,
	detail: todoDetail,
}

func todoGroup(a *app) *Group {
	return newGroup("todo", "Manage todos",
		todoAddCmd(a),
		listCmd(a, todoDef),
		showCmd(a, todoDef),
		updateCmd(a, todoDef, "done <id>", "Mark a todo completed", record.CompleteTodo),
		updateCmd(a, todoDef, "reopen <id>", "Reopen a completed todo", func(t record.Todo, _ time.Time) (record.Todo, error) {
			return record.ReopenTodo(t)
		}),
		rmCmd(a, todoDef),
	)
}

func todoAddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description text")
	fs.StringP("priority", "p", record.DefaultPriority, "Priority (critical|high|medium|low)")
	fs.StringP("category", "c", "", "Category")
	fs.String("due", "", "Due `date` (YYYY-MM-DD, today, tomorrow, Mar 12 2024...)")
	fs.StringArrayP("tag", "t", nil, "Tag (repeatable, comma separated allowed)")

	return &Command{
		Flags: fs,
		Usage: "add <text>",
		Short: "Add a todo, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			now := a.now()

			due, _ := fs.GetString("due")

			dueDate, err := parseDay(due, now)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}

			in := record.TodoInput{Text: strings.Join(args, " "), DueDate: dueDate}
			in.Description, _ = fs.GetString("description")
			in.Priority, _ = fs.GetString("priority")
			in.Category, _ = fs.GetString("category")
			in.Tags, _ = fs.GetStringArray("tag")

			todo, err := record.NewTodo(in, now)
			if err != nil {
				return err
			}

			err = addRecord(ctx, a, record.KindTodos, todo)
			if err != nil {
				return err
			}

			o.Println(todo.ID)

			return nil
		},
	}
}

func todoLine(t record.Todo, now time.Time) string {
	var b strings.Builder

	b.WriteString(t.ID)

	if t.Completed {
		b.WriteString(" [x] ")
	} else {
		b.WriteString(" [ ] ")
	}

	fmt.Fprintf(&b, "(%s) %s", t.Priority, t.Text)

	if t.DueDate != "" {
		b.WriteString(" due:" + t.DueDate)

		if t.Overdue(now) {
			b.WriteString(" OVERDUE")
		}
	}

	if t.Category != "" {
		b.WriteString(" @" + t.Category)
	}

	b.WriteString(tagSuffix(t.Tags))

	return b.String()
}

func todoDetail(o *IO, t record.Todo, now time.Time) {
	o.Println("id:", t.ID)
	o.Println("text:", t.Text)
	o.Println("priority:", t.Priority)
	o.Println("category:", orDash(t.Category))
	o.Println("due:", orDash(t.DueDate))

	if t.Overdue(now) {
		o.Println("overdue: yes")
	}

	o.Println("tags:", orDash(strings.Join(t.Tags, ", ")))
	o.Println("created:", stamp(t.CreatedAt, now))

	if t.CompletedAt != nil {
		o.Println("completed:", stamp(*t.CompletedAt, now))
	} else {
		o.Println("completed: no")
	}

	if t.Description != "" {
		o.Println()
		o.Println(t.Description)
	}
}
