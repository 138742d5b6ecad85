package cli

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/daybook/internal/config"
	"github.com/calvinalkan/daybook/internal/record"
)

func Test_SplitArgs_Returns_Words_When_Line_Uses_Quotes(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		line string
		want []string
	}{
		{line: `todo add "Buy milk" -t a,b`, want: []string{"todo", "add", "Buy milk", "-t", "a,b"}},
		{line: `note add 'it''s'`, want: []string{"note", "add", "its"}},
		{line: `a\ b  c`, want: []string{"a b", "c"}},
		{line: `say "\"hi\" \\ there"`, want: []string{"say", `"hi" \ there`}},
		{line: `'$HOME \n'`, want: []string{`$HOME \n`}},
		{line: `x ""`, want: []string{"x", ""}},
		{line: "  \t ", want: nil},
		{line: "todo ls # open ones", want: []string{"todo", "ls"}},
	} {
		got, err := splitArgs(tt.line)
		require.NoError(t, err, tt.line)

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("splitArgs(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func Test_SplitArgs_Fails_When_Quote_Is_Unterminated(t *testing.T) {
	t.Parallel()

	for _, line := range []string{`todo add "open`, `'half`, `trailing\`} {
		_, err := splitArgs(line)
		require.ErrorIs(t, err, errUnterminatedQuote, line)
	}
}

func Test_Complete_Returns_Commands_When_Prefix_Matches(t *testing.T) {
	t.Parallel()

	a := &app{cfg: &config.Config{}}
	groups, commands := a.commands()

	assert.Equal(t, []string{"todo"}, complete("to", groups, commands))
	assert.Equal(t, []string{"todo reopen", "todo rm"}, complete("todo r", groups, commands))
	assert.Equal(t, []string{"goal progress"}, complete("goal pr", groups, commands))
	assert.Empty(t, complete("todo add x", groups, commands))
	assert.Empty(t, complete("dashboard ", groups, commands))

	all := complete("", groups, commands)
	assert.Contains(t, all, "exit")
	assert.Contains(t, all, "habit")
	assert.Contains(t, all, "print-config")
	assert.NotContains(t, all, "shell")

	assert.Len(t, complete("note ", groups, commands), 7)
}

func Test_Highlight_Brackets_Matches_When_Case_Differs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Buy [Milk] and [milk]shake", highlight("Buy Milk and milkshake", "milk"))
	assert.Equal(t, "[ÄPFEL] und [äpfel]", highlight("ÄPFEL und äpfel", "äpfel"))
	assert.Equal(t, "[aa][aa]a", highlight("aaaaa", "aa"))
	assert.Equal(t, "[Straße] and [STRASSE]", highlight("Straße and STRASSE", "strasse"))
	assert.Equal(t, "Ma[ß]e", highlight("Maße", "SS"))
	assert.Equal(t, "nothing here", highlight("nothing here", "milk"))
	assert.Equal(t, "unchanged", highlight("unchanged", ""))
}

func Test_ParseDay_Resolves_Relative_Words_When_Given(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	for in, want := range map[string]string{
		"":              "",
		"Today":         "2024-03-10",
		"tomorrow":      "2024-03-11",
		" yesterday ":   "2024-03-09",
		"2024-02-29":    "2024-02-29",
		"March 5, 2024": "2024-03-05",
		"2024/12/31":    "2024-12-31",
	} {
		got, err := parseDay(in, now)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDay("zzz", now)
	require.ErrorIs(t, err, record.ErrInvalidDate)
}

func Test_Stamp_Appends_Relative_Time_When_Formatting(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-08T15:30:00Z (2 days ago)", stamp(now.AddDate(0, 0, -2), now))
	assert.Equal(t, "2024-03-10T15:30:00Z (now)", stamp(now, now))
}
