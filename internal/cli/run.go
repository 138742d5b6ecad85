package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/calvinalkan/daybook/internal/config"

	flag "github.com/spf13/pflag"
)

// NowEnv overrides the clock with an RFC 3339 timestamp.
const NowEnv = "DAYBOOK_NOW"

var (
	errUnknownCommand = errors.New("unknown command")
	errBadNow         = errors.New("invalid " + NowEnv + " (want RFC 3339)")
)

// Run is the main entry point. Returns exit code.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("daybook", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	dataDir := globals.String("data-dir", "", "Override the data `dir`")
	backend := globals.String("backend", "", "Storage backend (file|sqlite)")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	o := NewIO(stdin, out, errOut)

	if len(args) < 2 {
		printUsage(o, globals)

		return 0
	}

	err := globals.Parse(args[1:])
	if err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		printUsage(NewIO(nil, errOut, errOut), globals)

		return 1
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(o, globals)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		DataDirOverride: *dataDir,
		BackendOverride: *backend,
		Env:             env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	now, err := clockFromEnv(env)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	a := &app{
		cfg:   &cfg,
		log:   newLogger(errOut, cfg.LogLevel, *verbose),
		env:   env,
		stdin: stdin,
		now:   now,
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				a.log.Debug("interrupted")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a.globals = globals

	return a.dispatch(ctx, o, rest)
}

// dispatch runs one command line (without the program name and globals).
func (a *app) dispatch(ctx context.Context, o *IO, args []string) int {
	name := args[0]

	if name == "help" || name == "-h" || name == "--help" {
		printUsage(o, a.globals)

		return 0
	}

	// Commands are rebuilt per call: a parsed FlagSet keeps its values.
	groups, commands := a.commands()

	for _, group := range groups {
		if group.Name != name {
			continue
		}

		if len(args) < 2 || args[1] == "-h" || args[1] == "--help" || args[1] == "help" {
			group.PrintHelp(o)

			return 0
		}

		cmd := group.Find(args[1])
		if cmd == nil {
			o.ErrPrintln("error:", fmt.Errorf("%w: %s %s", errUnknownCommand, name, args[1]))
			o.ErrPrintln()
			group.PrintHelp(NewIO(nil, o.errOut, o.errOut))

			return 1
		}

		return cmd.Run(ctx, o, args[2:])
	}

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(ctx, o, args[1:])
		}
	}

	o.ErrPrintln("error:", fmt.Errorf("%w: %s", errUnknownCommand, name))
	printUsage(NewIO(nil, o.errOut, o.errOut), a.globals)

	return 1
}

func (a *app) commands() ([]*Group, []*Command) {
	groups := []*Group{
		todoGroup(a),
		noteGroup(a),
		journalGroup(a),
		goalGroup(a),
		habitGroup(a),
	}

	commands := []*Command{
		DashboardCmd(a),
		ViewCmd(a),
		ShellCmd(a),
		PrintConfigCmd(a.cfg),
	}

	return groups, commands
}

func newLogger(w io.Writer, level string, verbose bool) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}

	if verbose {
		lvl = logrus.DebugLevel
	}

	logger.SetLevel(lvl)

	return logrus.NewEntry(logger)
}

func clockFromEnv(env map[string]string) (func() time.Time, error) {
	raw := env[NowEnv]
	if raw == "" {
		return time.Now, nil
	}

	fixed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errBadNow, raw)
	}

	return func() time.Time { return fixed }, nil
}

func printUsage(o *IO, globals *flag.FlagSet) {
	o.Println("daybook - todos, notes, journal, goals and habits")
	o.Println()
	o.Println("Usage: daybook [options] <command> [args]")
	o.Println()
	o.Println("Options:")

	var buf strings.Builder

	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	o.Printf("%s", buf.String())

	o.Println()
	o.Println("Commands:")

	a := &app{cfg: &config.Config{}}
	groups, commands := a.commands()

	for _, group := range groups {
		o.Printf("  %-30s %s\n", group.Name+" <command>", group.Short)
	}

	for _, cmd := range commands {
		o.Println(cmd.HelpLine())
	}

	o.Println()
	o.Println("Run 'daybook <group> help' to list the commands of a group.")
}
