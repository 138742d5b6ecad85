package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	Flags *flag.FlagSet

	// Usage is the usage string shown after "daybook <group>" in help,
	// starting with the command name. Examples: "show <id>", "ls [flags]".
	Usage string

	// Short is a one-line description for listings.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error

	// group is the owning group name, "" for top-level commands.
	group string
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// Path returns the words that invoke the command, e.g. "todo add".
func (c *Command) Path() string {
	if c.group == "" {
		return c.Name()
	}

	return c.group + " " + c.Name()
}

// HelpLine returns the short help line for usage listings.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-30s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "daybook <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	usage := c.Usage
	if c.group != "" {
		usage = c.group + " " + usage
	}

	o.Println("Usage: daybook", usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Errors are printed here so output ordering stays consistent.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(NewIO(nil, o.errOut, o.errOut))

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

// Group is a set of commands under one word, e.g. "todo".
type Group struct {
	Name     string
	Short    string
	Commands []*Command
}

func newGroup(name, short string, cmds ...*Command) *Group {
	for _, cmd := range cmds {
		cmd.group = name
	}

	return &Group{Name: name, Short: short, Commands: cmds}
}

// Find returns the command called name, or nil.
func (g *Group) Find(name string) *Command {
	for _, cmd := range g.Commands {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

// PrintHelp lists the group's commands.
func (g *Group) PrintHelp(o *IO) {
	o.Printf("Usage: daybook %s <command> [args]\n\n", g.Name)
	o.Println(g.Short)
	o.Println()
	o.Println("Commands:")

	for _, cmd := range g.Commands {
		o.Println(cmd.HelpLine())
	}
}
