package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	flag "github.com/spf13/pflag"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errInvalidFormat = errors.New("invalid format (text|json|yaml)")

func addFormatFlag(fs *flag.FlagSet) {
	fs.StringP("format", "f", formatText, "Output format (text|json|yaml)")
}

func outputFormat(fs *flag.FlagSet) (string, error) {
	format, _ := fs.GetString("format")
	format = strings.ToLower(format)

	switch format {
	case formatText, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", errInvalidFormat, format)
	}
}

// writeValue encodes v as JSON or YAML. Text output is the caller's job.
func writeValue(o *IO, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(o)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(o)
		enc.SetIndent(2)

		err := enc.Encode(v)
		if err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", errInvalidFormat, format)
	}
}

// writeRecords prints records one line each, or encodes the whole list.
func writeRecords[T any](o *IO, format string, records []T, line func(T) string) error {
	if format != formatText {
		return writeValue(o, format, records)
	}

	for _, r := range records {
		o.Println(line(r))
	}

	return nil
}

// highlight brackets case-insensitive matches of needle in s, folding the way
// the contains filter does.
func highlight(s, needle string) string {
	folder := cases.Fold()

	want := folder.String(needle)
	if want == "" || s == "" {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); {
		if end := foldedMatch(folder, s, i, want); end > i {
			b.WriteString("[")
			b.WriteString(s[i:end])
			b.WriteString("]")

			i = end

			continue
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}

	return b.String()
}

// foldedMatch returns the end of the shortest run of s starting at i whose
// folded form equals want, or i when there is none.
func foldedMatch(folder cases.Caser, s string, i int, want string) int {
	for end := i; end < len(s); {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size

		got := folder.String(s[i:end])
		if got == want {
			return end
		}

		if !strings.HasPrefix(want, got) {
			return i
		}
	}

	return i
}

// tagSuffix renders tags as " #a #b".
func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	return " #" + strings.Join(tags, " #")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
