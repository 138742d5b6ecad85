package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/daybook/internal/cli"
)

func Test_Goal_Progress_Completes_Goal_When_It_Reaches_100(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("goal", "add", "Learn Go", "-p", "high", "--deadline", "2024-04-01", "-c", "growth")

	assert.Equal(t, id+" [active]   0% (high) Learn Go by:2024-04-01 @growth", c.MustRun("goal", "ls"))

	assert.Equal(t, id+" [active]  50% (high) Learn Go by:2024-04-01 @growth", c.MustRun("goal", "progress", id, "50"))
	assert.Equal(t, id+" [completed] 100% (high) Learn Go by:2024-04-01 @growth", c.MustRun("goal", "progress", id, "100%"))

	cli.AssertContains(t, c.MustRun("goal", "ls", "--status", "completed"), id)
	assert.Empty(t, c.MustRun("goal", "ls", "--status", "active"))

	out := c.MustRun("goal", "show", id)
	cli.AssertContains(t, out, "progress: 100%")
	cli.AssertContains(t, out, "completed: 2024-03-10T15:30:00Z")

	cli.AssertContains(t, c.MustRun("goal", "progress", id, "90"), "[active]  90%")
}

func Test_Goal_Progress_Fails_When_Value_Is_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("goal", "add", "Run a marathon")

	cli.AssertContains(t, c.MustFail("goal", "progress", id, "101"), "invalid progress")
	cli.AssertContains(t, c.MustFail("goal", "progress", id, "lots"), "invalid progress")
	cli.AssertContains(t, c.MustFail("goal", "progress", id), "usage: goal progress")
}

func Test_Goal_Status_Changes_Status_When_Valid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	paused := c.MustRun("goal", "add", "Write a book", "--deadline", "2024-12-31")
	active := c.MustRun("goal", "add", "Save money", "--deadline", "2024-06-30")
	undated := c.MustRun("goal", "add", "Someday")

	cli.AssertContains(t, c.MustRun("goal", "status", paused, "Paused"), "[paused]")
	cli.AssertContains(t, c.MustFail("goal", "status", paused, "dreaming"), "invalid status")

	assert.Equal(t, paused+" [paused]   0% (medium) Write a book by:2024-12-31", c.MustRun("goal", "ls", "--status", "paused"))

	// Deadline ascending, goals without one last.
	lines := strings.Split(c.MustRun("goal", "ls"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], active))
	assert.True(t, strings.HasPrefix(lines[1], paused))
	assert.True(t, strings.HasPrefix(lines[2], undated))

	cli.AssertContains(t, c.MustRun("goal", "status", paused, "completed"), "[completed] 100%")
}
