package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/calvinalkan/daybook/internal/record"

	flag "github.com/spf13/pflag"
)

var errUsageGoalProgress = errors.New("usage: goal progress <id> <0-100>")

var goalDef = kindDef[record.Goal]{
	kind:   record.KindGoals,
	schema: record.GoalSchema,
	line:   goalLine,
	detail: goalDetail,
}

func goalGroup(a *app) *Group {
	return newGroup("goal", "Track goals and their progress",
		goalAddCmd(a),
		listCmd(a, goalDef),
		showCmd(a, goalDef),
		goalProgressCmd(a),
		goalStatusCmd(a),
		rmCmd(a, goalDef),
	)
}

func goalAddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description text")
	fs.StringP("priority", "p", record.DefaultPriority, "Priority (critical|high|medium|low)")
	fs.StringP("category", "c", "", "Category")
	fs.String("deadline", "", "Deadline `date`")

	return &Command{
		Flags: fs,
		Usage: "add <title>",
		Short: "Add a goal, prints its ID",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			now := a.now()

			rawDeadline, _ := fs.GetString("deadline")

			deadline, err := parseDay(rawDeadline, now)
			if err != nil {
				return fmt.Errorf("--deadline: %w", err)
			}

			in := record.GoalInput{Title: strings.Join(args, " "), Deadline: deadline}
			in.Description, _ = fs.GetString("description")
			in.Priority, _ = fs.GetString("priority")
			in.Category, _ = fs.GetString("category")

			goal, err := record.NewGoal(in, now)
			if err != nil {
				return err
			}

			err = addRecord(ctx, a, record.KindGoals, goal)
			if err != nil {
				return err
			}

			o.Println(goal.ID)

			return nil
		},
	}
}

func goalProgressCmd(a *app) *Command {
	return &Command{
		Usage: "progress <id> <percent>",
		Short: "Set progress (100 completes the goal)",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 2 {
				return errUsageGoalProgress
			}

			progress, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("%w: %q", record.ErrInvalidProgress, args[1])
			}

			now := a.now()

			goal, err := updateRecord(ctx, a, record.KindGoals, args[0], func(g record.Goal) (record.Goal, error) {
				return record.SetGoalProgress(g, progress, now)
			})
			if err != nil {
				return err
			}

			o.Println(goalLine(goal, now))

			return nil
		},
	}
}

func goalStatusCmd(a *app) *Command {
	return &Command{
		Usage: "status <id> <active|paused|completed>",
		Short: "Change a goal's status",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("%w: want <id> <status>", record.ErrInvalidStatus)
			}

			status := strings.ToLower(args[1])
			now := a.now()

			goal, err := updateRecord(ctx, a, record.KindGoals, args[0], func(g record.Goal) (record.Goal, error) {
				return record.SetGoalStatus(g, status, now)
			})
			if err != nil {
				return err
			}

			o.Println(goalLine(goal, now))

			return nil
		},
	}
}

func goalLine(g record.Goal, _ time.Time) string {
	line := fmt.Sprintf("%s [%s] %3d%% (%s) %s", g.ID, g.Status, g.Progress, g.Priority, g.Title)

	if g.Deadline != "" {
		line += " by:" + g.Deadline
	}

	if g.Category != "" {
		line += " @" + g.Category
	}

	return line
}

func goalDetail(o *IO, g record.Goal, now time.Time) {
	o.Println("id:", g.ID)
	o.Println("title:", g.Title)
	o.Println("status:", g.Status)
	o.Printf("progress: %d%%\n", g.Progress)
	o.Println("priority:", g.Priority)
	o.Println("category:", orDash(g.Category))
	o.Println("deadline:", orDash(g.Deadline))
	o.Println("created:", stamp(g.CreatedAt, now))

	if g.CompletedAt != nil {
		o.Println("completed:", stamp(*g.CompletedAt, now))
	}

	if g.Description != "" {
		o.Println()
		o.Println(g.Description)
	}
}
