package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/shlex"
	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
)

const historyFileName = "shell_history"

var (
	errUnterminatedQuote = errors.New("unterminated quote")
	errCommandsFailed    = errors.New("command(s) failed")
)

// lineReader is the part of liner.State the shell uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// scanReader reads lines from a non-interactive input.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.sc.Text(), nil
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Usage: "shell",
		Short: "Interactive prompt for daybook commands",
		Long: "Read daybook commands line by line, e.g. `todo ls -s milk`. Quotes group\n" +
			"words. exit, quit or Ctrl-D leave the shell. Input that is not a terminal\n" +
			"is run as a script.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return runShell(ctx, a, o)
		},
	}
}

func runShell(ctx context.Context, a *app, o *IO) error {
	var reader lineReader

	historyPath := filepath.Join(a.cfg.DataDirAbs, historyFileName)

	if o.in == os.Stdin {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(func(line string) []string {
			groups, commands := a.commands()

			return complete(line, groups, commands)
		})

		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			var buf bytes.Buffer

			_, _ = state.WriteHistory(&buf)

			err := os.MkdirAll(filepath.Dir(historyPath), 0o750)
			if err == nil {
				err = atomic.WriteFile(historyPath, &buf)
			}

			if err != nil {
				a.log.WithError(err).Warn("saving shell history")
			}
		}()

		o.Println("daybook shell. Type 'help' for commands, 'exit' to leave.")

		reader = state
	} else {
		reader = &scanReader{sc: bufio.NewScanner(o.in)}
	}

	defer func() { _ = reader.Close() }()

	failed := 0

	for ctx.Err() == nil {
		line, err := reader.Prompt("daybook> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reader.AppendHistory(line)

		args, err := splitArgs(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			failed++

			continue
		}

		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit", "q":
			return shellResult(failed)
		case "shell":
			o.ErrPrintln("error: already in a shell")

			continue
		}

		code := a.dispatch(ctx, o, args)
		if code != 0 {
			failed++
		}

		a.log.WithField("line", line).WithField("exit", code).Debug("shell command")
	}

	return shellResult(failed)
}

func shellResult(failed int) error {
	if failed == 0 {
		return nil
	}

	return fmt.Errorf("%d %w", failed, errCommandsFailed)
}

// complete returns full-line completions for the first two words.
func complete(line string, groups []*Group, commands []*Command) []string {
	fields := strings.Fields(line)
	trailing := strings.HasSuffix(line, " ")

	var out []string

	switch {
	case len(fields) == 0 || (len(fields) == 1 && !trailing):
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}

		words := []string{"exit", "help"}
		for _, g := range groups {
			words = append(words, g.Name)
		}

		for _, cmd := range commands {
			if cmd.Name() != "shell" {
				words = append(words, cmd.Name())
			}
		}

		for _, w := range words {
			if strings.HasPrefix(w, prefix) {
				out = append(out, w)
			}
		}
	case len(fields) == 1 || (len(fields) == 2 && !trailing):
		prefix := ""
		if len(fields) == 2 {
			prefix = fields[1]
		}

		for _, g := range groups {
			if g.Name != fields[0] {
				continue
			}

			for _, cmd := range g.Commands {
				if strings.HasPrefix(cmd.Name(), prefix) {
					out = append(out, g.Name+" "+cmd.Name())
				}
			}
		}
	}

	slices.Sort(out)

	return out
}

// splitArgs splits a shell line into words with POSIX-like quoting. An
// unquoted # starts a comment.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnterminatedQuote, err)
	}

	if len(args) == 0 {
		return nil, nil
	}

	return args, nil
}
