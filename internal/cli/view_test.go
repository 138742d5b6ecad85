package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/daybook/internal/cli"
)

const viewsConfig = `{
	// saved queries
	"views": {
		"work": {
			"collection": "todos",
			"filters": [
				{"field": "category", "kind": "equals", "value": "work"},
				{"field": "completed", "kind": "boolEquals", "value": false},
			],
			"sort": {"field": "text", "order": "desc"},
		},
		"every-note": {
			"collection": "notes",
			"limit": 10,
		},
	},
}`

func Test_View_Lists_Views_When_No_Name_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	assert.Equal(t, "no views configured", c.MustRun("view"))

	c.WriteConfig(viewsConfig)

	lines := strings.Split(c.MustRun("view"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "every-note           notes    0 filter(s), limit 10", lines[0])
	assert.Equal(t, "work                 todos    2 filter(s), sort text desc", lines[1])
}

func Test_View_Runs_Saved_Query_When_Name_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteConfig(viewsConfig)

	alpha := c.MustRun("todo", "add", "Alpha report", "-c", "work")
	beta := c.MustRun("todo", "add", "Beta review", "-c", "work")
	c.MustRun("todo", "add", "Groceries", "-c", "home")
	shipped := c.MustRun("todo", "add", "Shipped", "-c", "work")
	c.MustRun("todo", "done", shipped)

	lines := strings.Split(c.MustRun("view", "work"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], beta))
	assert.True(t, strings.HasPrefix(lines[1], alpha))
}

func Test_View_Includes_Archived_Notes_When_View_Does_Not_Filter_Them(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteConfig(viewsConfig)

	id := c.MustRun("note", "add", "Archived idea")
	c.MustRun("note", "archive", id)

	assert.Empty(t, c.MustRun("note", "ls"))
	cli.AssertContains(t, c.MustRun("view", "every-note"), id)
}

func Test_View_Fails_When_View_Is_Unknown_Or_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteConfig(viewsConfig)

	cli.AssertContains(t, c.MustFail("view", "nope"), `unknown view: "nope" (have: every-note, work)`)

	c.WriteConfig(`{"views": {"bad": {"collection": "todos", "filters": [{"field": "owner", "kind": "equals", "value": "me"}]}}}`)
	cli.AssertContains(t, c.MustFail("view"), `invalid view "bad"`)

	c.WriteConfig(`{"views": {"bad": {"collection": "recipes"}}}`)
	cli.AssertContains(t, c.MustFail("view"), "unknown collection")
}
