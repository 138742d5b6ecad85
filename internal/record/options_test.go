package record_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/daybook/internal/record"
	"github.com/calvinalkan/daybook/pkg/query"
)

func sampleTodos() []record.Todo {
	return []record.Todo{
		{ID: "T1", Text: "Buy milk", Priority: "low", Category: "home", Tags: []string{"errand"}, DueDate: "2024-03-12"},
		{ID: "T2", Text: "Fix bug", Priority: "critical", Category: "work", Tags: []string{"code"}, DueDate: "2024-03-30"},
		{ID: "T3", Text: "Milkshake", Priority: "high", Category: "home", Completed: true},
		{ID: "T4", Text: "Review PR", Priority: "medium", Category: "work", Tags: []string{"code", "errand"}, DueDate: "2024-03-09"},
	}
}

func listTodos(t *testing.T, opts record.ListOptions) []string {
	t.Helper()

	filters, order, err := opts.Build(record.KindTodos)
	require.NoError(t, err)

	eng := query.New[record.Todo](record.TodoSchema, query.WithClock(func() time.Time { return testNow }))

	got, err := eng.Query(sampleTodos(), filters, order)
	require.NoError(t, err)

	got = record.Page(got, opts.Limit, opts.Offset)

	ids := make([]string, 0, len(got))
	for _, todo := range got {
		ids = append(ids, todo.ID)
	}

	return ids
}

func Test_ListOptions_Build_Filters_Todos_When_Options_Are_Set(t *testing.T) {
	t.Parallel()

	opts := func(mutate func(*record.ListOptions)) record.ListOptions {
		o := record.DefaultListOptions()
		mutate(&o)

		return o
	}

	testCases := []struct {
		name string
		opts record.ListOptions
		want []string
	}{
		{name: "defaults sort by priority", opts: record.DefaultListOptions(), want: []string{"T2", "T3", "T4", "T1"}},
		{name: "active", opts: opts(func(o *record.ListOptions) { o.Status = "active" }), want: []string{"T2", "T4", "T1"}},
		{name: "completed", opts: opts(func(o *record.ListOptions) { o.Status = "completed" }), want: []string{"T3"}},
		{name: "all sentinels", opts: opts(func(o *record.ListOptions) { o.Status, o.Priority, o.Category = "all", "all", "all" }), want: []string{"T2", "T3", "T4", "T1"}},
		{name: "search folds case", opts: opts(func(o *record.ListOptions) { o.Search = "MILK" }), want: []string{"T3", "T1"}},
		{name: "search hits tags", opts: opts(func(o *record.ListOptions) { o.Search = "errand" }), want: []string{"T4", "T1"}},
		{name: "tags intersect", opts: opts(func(o *record.ListOptions) { o.Tags = []string{"code"} }), want: []string{"T2", "T4"}},
		{name: "category and priority", opts: opts(func(o *record.ListOptions) { o.Category, o.Priority = "home", "LOW" }), want: []string{"T1"}},
		{name: "within two days", opts: opts(func(o *record.ListOptions) { o.WithinDays = 2 }), want: []string{"T4", "T1"}},
		{name: "since today", opts: opts(func(o *record.ListOptions) { o.Since = "2024-03-10" }), want: []string{"T2", "T1"}},
		{name: "sort by due desc", opts: opts(func(o *record.ListOptions) { o.Sort, o.Order = "dueDate", "desc" }), want: []string{"T3", "T2", "T1", "T4"}},
		{name: "page", opts: opts(func(o *record.ListOptions) { o.Limit, o.Offset = 2, 1 }), want: []string{"T3", "T4"}},
		{name: "page past end", opts: opts(func(o *record.ListOptions) { o.Offset = 10 }), want: []string{}},
		{
			name: "generic filter",
			opts: opts(func(o *record.ListOptions) {
				o.Filters = []query.Predicate{{Field: "text", Kind: query.KindContains, Value: "bug"}}
			}),
			want: []string{"T2"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := listTodos(t, testCase.opts)

			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_ListOptions_Build_Returns_Error_When_Options_Are_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		kind string
		opts record.ListOptions
		want error
	}{
		{name: "unknown kind", kind: "tasks", opts: record.DefaultListOptions(), want: record.ErrUnknownKind},
		{name: "unknown sort", kind: record.KindTodos, opts: record.ListOptions{WithinDays: -1, Sort: "mood"}, want: record.ErrUnknownField},
		{name: "unknown status", kind: record.KindTodos, opts: record.ListOptions{WithinDays: -1, Status: "paused"}, want: record.ErrUnknownStatus},
		{name: "negative limit", kind: record.KindNotes, opts: record.ListOptions{WithinDays: -1, Limit: -1}, want: record.ErrBadPaging},
		{
			name: "filter on unknown field",
			kind: record.KindJournal,
			opts: record.ListOptions{WithinDays: -1, Filters: []query.Predicate{{Field: "priority", Kind: query.KindEquals, Value: "x"}}},
			want: record.ErrUnknownField,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := testCase.opts.Build(testCase.kind)
			require.ErrorIs(t, err, testCase.want)
		})
	}
}

func Test_ListOptions_Build_Hides_Archived_Notes_When_Status_Is_Empty(t *testing.T) {
	t.Parallel()

	notes := []record.Note{
		{ID: "N1", Title: "live", UpdatedAt: testNow.Add(-time.Hour)},
		{ID: "N2", Title: "old", Archived: true},
		{ID: "N3", Title: "top", Pinned: true, UpdatedAt: testNow.Add(-2 * time.Hour)},
	}

	eng := query.New[record.Note](record.NoteSchema)

	run := func(status string) []string {
		o := record.DefaultListOptions()
		o.Status = status

		filters, order, err := o.Build(record.KindNotes)
		require.NoError(t, err)

		got, err := eng.Query(notes, filters, order)
		require.NoError(t, err)

		ids := []string{}
		for _, n := range got {
			ids = append(ids, n.ID)
		}

		return ids
	}

	assert.Equal(t, []string{"N1", "N3"}, run(""))
	assert.Equal(t, []string{"N3"}, run("pinned"))
	assert.Equal(t, []string{"N2"}, run("archived"))
	assert.Equal(t, []string{"N2", "N1", "N3"}, run("all"))
}

func Test_ParseFilter_Parses_Kind_Fields_And_Value(t *testing.T) {
	t.Parallel()

	p, err := record.ParseFilter("contains:text, tags=milk=shake")
	require.NoError(t, err)
	assert.Equal(t, query.Predicate{Fields: []string{"text", "tags"}, Kind: query.KindContains, Value: "milk=shake"}, p)

	p, err = record.ParseFilter("equals:priority=all")
	require.NoError(t, err)
	assert.Equal(t, query.Predicate{Field: "priority", Kind: query.KindEquals, Value: "all"}, p)

	for _, bad := range []string{"contains:text", "text=milk", ":text=milk", "equals:=x", "equals: , =x"} {
		_, err = record.ParseFilter(bad)
		require.ErrorIs(t, err, record.ErrBadFilter, bad)
	}
}

func Test_ValidateFilters_Reports_Bad_Predicates(t *testing.T) {
	t.Parallel()

	require.NoError(t, record.ValidateFilters(record.KindGoals, []query.Predicate{
		{Field: "status", Kind: query.KindEquals, Value: "active"},
	}))

	err := record.ValidateFilters(record.KindGoals, []query.Predicate{
		{Field: "status", Kind: "fuzzy", Value: "x"},
	})
	require.ErrorIs(t, err, query.ErrInvalidFilterSpec)

	err = record.ValidateFilters(record.KindHabits, []query.Predicate{
		{Field: "tags", Kind: query.KindTagIntersects, Value: "x"},
	})
	require.ErrorIs(t, err, record.ErrUnknownField)

	err = record.ValidateFilters("tasks", nil)
	require.ErrorIs(t, err, record.ErrUnknownKind)
}
