package query_test

import (
	"errors"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/daybook/pkg/query"
)

type todo struct {
	ID        int
	Text      string
	Priority  string
	Category  string
	Completed bool
	Tags      []string
	Due       string
}

var todoSchema = query.NewSchema[todo]().
	Number("id", func(t todo) float64 { return float64(t.ID) }).
	String("text", func(t todo) string { return t.Text }).
	String("priority", func(t todo) string { return t.Priority }, query.CompareWith(query.ComparatorPriority)).
	String("category", func(t todo) string { return t.Category }).
	Bool("completed", func(t todo) bool { return t.Completed }).
	List("tags", func(t todo) []string { return t.Tags }).
	Date("due", func(t todo) string { return t.Due })

func ids(todos []todo) []int {
	out := make([]int, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}

	return out
}

func Test_Query_Filters_Open_Todos_And_Sorts_By_Priority_Rank(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Text: "Buy milk", Priority: "low", Completed: false},
		{ID: 2, Text: "Fix bug", Priority: "high", Completed: false},
		{ID: 3, Text: "Write report", Priority: "high", Completed: true},
	}

	got, err := query.New[todo](todoSchema).Query(records,
		[]query.Predicate{{Field: "completed", Kind: query.KindBoolEquals, Value: false}},
		query.Sort{Field: "priority", Order: query.Asc},
	)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, ids(got))
}

func Test_Query_Sorts_Priority_By_Rank_Table_When_Ascending_Or_Descending(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Priority: "low"},
		{ID: 2, Priority: "critical"},
		{ID: 3, Priority: "medium"},
		{ID: 4, Priority: "high"},
	}

	eng := query.New[todo](todoSchema)

	asc, err := eng.Query(records, nil, query.Sort{Field: "priority", Order: query.Asc})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 3, 1}, ids(asc))

	desc, err := eng.Query(records, nil, query.Sort{Field: "priority", Order: query.Desc})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 2}, ids(desc))
}

func Test_Query_Sorts_Unknown_Priority_After_Low(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Priority: ""},
		{ID: 2, Priority: "low"},
		{ID: 3, Priority: "urgent-ish"},
		{ID: 4, Priority: "HIGH"},
	}

	got, err := query.New[todo](todoSchema).Query(records, nil, query.Sort{Field: "priority"})
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2, 1, 3}, ids(got))
}

func Test_Query_Sorts_Missing_Deadline_Last_When_Ascending(t *testing.T) {
	t.Parallel()

	goals := []map[string]any{
		{"id": "a", "deadline": nil},
		{"id": "b", "deadline": "2024-01-01"},
		{"id": "c"},
		{"id": "d", "deadline": "2023-06-30"},
	}

	acc := query.MapAccessor{Comparators: map[string]string{"deadline": query.ComparatorDate}}

	got, err := query.Query(goals, acc, nil, query.Sort{Field: "deadline", Order: query.Asc})
	require.NoError(t, err)

	order := make([]string, 0, len(got))
	for _, g := range got {
		order = append(order, g["id"].(string))
	}

	assert.Equal(t, []string{"d", "b", "a", "c"}, order)
}

func Test_Query_Sorts_Plain_Records_By_Rank_And_Date_When_No_Comparators_Given(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{"id": "a", "priority": "low", "deadline": nil},
		{"id": "b", "priority": "critical", "deadline": "2024-01-01"},
		{"id": "c", "priority": "medium"},
	}

	idsOf := func(got []map[string]any) []string {
		out := make([]string, 0, len(got))
		for _, r := range got {
			out = append(out, r["id"].(string))
		}

		return out
	}

	got, err := query.Query(records, query.MapAccessor{}, nil, query.Sort{Field: "priority"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, idsOf(got))

	got, err = query.Query(records, query.MapAccessor{}, nil, query.Sort{Field: "deadline"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, idsOf(got))

	// An explicit binding wins over the default.
	acc := query.MapAccessor{Comparators: map[string]string{"priority": query.ComparatorString}}

	got, err = query.Query(records, acc, nil, query.Sort{Field: "priority"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, idsOf(got))
}

func Test_Query_Sorts_Missing_Due_Date_Last_When_Using_Schema_Date_Field(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Due: ""},
		{ID: 2, Due: "2024-01-01"},
		{ID: 3, Due: "not a date"},
		{ID: 4, Due: "2023-12-31T23:00:00Z"},
	}

	got, err := query.New[todo](todoSchema).Query(records, nil, query.Sort{Field: "due"})
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2, 1, 3}, ids(got))
}

func Test_Query_Keeps_Input_Order_For_Ties_When_Sorting_Either_Direction(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Priority: "high"},
		{ID: 2, Priority: "low"},
		{ID: 3, Priority: "high"},
		{ID: 4, Priority: "low"},
		{ID: 5, Priority: "high"},
	}

	eng := query.New[todo](todoSchema)

	asc, err := eng.Query(records, nil, query.Sort{Field: "priority", Order: query.Asc})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 2, 4}, ids(asc))

	desc, err := eng.Query(records, nil, query.Sort{Field: "priority", Order: query.Desc})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1, 3, 5}, ids(desc))
}

func Test_Query_Returns_Same_Result_When_All_Sentinel_Is_Present_Or_Omitted(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Category: "work", Completed: true},
		{ID: 2, Category: "home"},
		{ID: 3, Category: "all"},
	}

	eng := query.New[todo](todoSchema)
	base := []query.Predicate{{Field: "completed", Kind: query.KindBoolEquals, Value: false}}

	without, err := eng.Query(records, base, query.Sort{Field: "id", Order: query.Desc})
	require.NoError(t, err)

	with, err := eng.Query(records,
		append([]query.Predicate{{Field: "category", Kind: query.KindEquals, Value: query.All}}, base...),
		query.Sort{Field: "id", Order: query.Desc},
	)
	require.NoError(t, err)

	if diff := cmp.Diff(without, with); diff != "" {
		t.Fatalf("sentinel changed result (-without +with):\n%s", diff)
	}

	assert.Equal(t, []int{3, 2}, ids(with))
}

func Test_Query_Does_Not_Modify_Input_When_Filtering_And_Sorting(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 3, Priority: "low", Tags: []string{"b", "a"}},
		{ID: 1, Priority: "critical"},
		{ID: 2, Priority: "medium", Completed: true},
	}

	before := make([]todo, len(records))
	for i, r := range records {
		before[i] = r
		before[i].Tags = slices.Clone(r.Tags)
	}

	_, err := query.New[todo](todoSchema).Query(records,
		[]query.Predicate{{Field: "completed", Kind: query.KindBoolEquals, Value: "false"}},
		query.Sort{Field: "priority"},
	)
	require.NoError(t, err)

	if diff := cmp.Diff(before, records); diff != "" {
		t.Fatalf("input modified (-before +after):\n%s", diff)
	}
}

func Test_Query_Returns_Empty_Non_Nil_Slice_When_Nothing_Matches(t *testing.T) {
	t.Parallel()

	eng := query.New[todo](todoSchema)

	fromNil, err := eng.Query(nil, nil, query.Sort{Field: "priority"})
	require.NoError(t, err)
	require.NotNil(t, fromNil)
	assert.Empty(t, fromNil)

	noMatch, err := eng.Query(
		[]todo{{ID: 1, Text: "a"}},
		[]query.Predicate{{Field: "text", Kind: query.KindEquals, Value: "b"}},
		query.Sort{},
	)
	require.NoError(t, err)
	require.NotNil(t, noMatch)
	assert.Empty(t, noMatch)
}

func Test_Query_Returns_Same_Result_When_Called_Twice(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Text: "Alpha", Priority: "low", Tags: []string{"x"}},
		{ID: 2, Text: "beta", Priority: "high", Tags: []string{"y"}},
		{ID: 3, Text: "ALPHABET", Priority: "high"},
	}

	eng := query.New[todo](todoSchema)
	filters := []query.Predicate{{Fields: []string{"text", "tags"}, Kind: query.KindContains, Value: "alpha"}}
	order := query.Sort{Field: "priority"}

	first, err := eng.Query(records, filters, order)
	require.NoError(t, err)

	second, err := eng.Query(records, filters, order)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second call differs (-first +second):\n%s", diff)
	}

	assert.Equal(t, []int{3, 1}, ids(first))
}

func Test_Query_Keeps_Input_Order_When_Sort_Field_Is_Unknown(t *testing.T) {
	t.Parallel()

	records := []todo{{ID: 3}, {ID: 1}, {ID: 2}}

	got, err := query.New[todo](todoSchema).Query(records, nil, query.Sort{Field: "nope", Order: query.Desc})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 1, 2}, ids(got))
}

func Test_Query_Returns_FilterError_When_Predicate_Is_Malformed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		predicate query.Predicate
	}{
		{name: "UnknownKind", predicate: query.Predicate{Field: "text", Kind: "startsWith", Value: "x"}},
		{name: "EmptyKind", predicate: query.Predicate{Field: "text", Value: "x"}},
		{name: "NoField", predicate: query.Predicate{Kind: query.KindEquals, Value: "x"}},
		{name: "BoolNotBoolean", predicate: query.Predicate{Field: "completed", Kind: query.KindBoolEquals, Value: "maybe"}},
		{name: "BoolNil", predicate: query.Predicate{Field: "completed", Kind: query.KindBoolEquals}},
		{name: "DateNotDate", predicate: query.Predicate{Field: "due", Kind: query.KindDateOnOrAfter, Value: "soon"}},
		{name: "DaysNegative", predicate: query.Predicate{Field: "due", Kind: query.KindDateWithinDays, Value: -1}},
		{name: "DaysFraction", predicate: query.Predicate{Field: "due", Kind: query.KindDateWithinDays, Value: 1.5}},
		{name: "EqualsList", predicate: query.Predicate{Field: "tags", Kind: query.KindEquals, Value: []string{"a"}}},
		{name: "TagsNumber", predicate: query.Predicate{Field: "tags", Kind: query.KindTagIntersects, Value: 7}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			filters := []query.Predicate{
				{Field: "category", Kind: query.KindEquals, Value: query.All},
				testCase.predicate,
			}

			got, err := query.New[todo](todoSchema).Query([]todo{{ID: 1}}, filters, query.Sort{})
			require.ErrorIs(t, err, query.ErrInvalidFilterSpec)
			assert.Nil(t, got)

			var fErr *query.FilterError
			require.True(t, errors.As(err, &fErr), "error should be a *FilterError")
			assert.Equal(t, 1, fErr.Index)
			assert.Equal(t, testCase.predicate.Kind, fErr.Kind)
		})
	}
}

func Test_Query_Treats_Missing_Fields_As_Zero_Values_When_Records_Are_Maps(t *testing.T) {
	t.Parallel()

	notes := []map[string]any{
		{"id": "1", "title": "pinned", "pinned": true, "tags": []any{"work"}},
		{"id": "2", "title": "legacy"},
		{"id": "3", "title": "unpinned", "pinned": false},
	}

	eng := query.New[map[string]any](query.MapAccessor{})

	unpinned, err := eng.Query(notes, []query.Predicate{{Field: "pinned", Kind: query.KindBoolEquals, Value: false}}, query.Sort{})
	require.NoError(t, err)
	assert.Len(t, unpinned, 2)
	assert.Equal(t, "2", unpinned[0]["id"])
	assert.Equal(t, "3", unpinned[1]["id"])

	tagged, err := eng.Query(notes, []query.Predicate{{Field: "tags", Kind: query.KindTagIntersects, Value: "work,home"}}, query.Sort{})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "1", tagged[0]["id"])

	noCategory, err := eng.Query(notes, []query.Predicate{{Field: "category", Kind: query.KindEquals, Value: ""}}, query.Sort{})
	require.NoError(t, err)
	assert.Len(t, noCategory, 3)
}

func Test_Query_Matches_Contains_Case_Insensitively_Across_Fields(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Text: "Call Grandma"},
		{ID: 2, Text: "groceries", Tags: []string{"ÄRGER"}},
		{ID: 3, Text: "nothing here", Category: "Ärger"},
		{ID: 4, Text: "nope"},
	}

	eng := query.New[todo](todoSchema)

	gotText, err := eng.Query(records, []query.Predicate{{Field: "text", Kind: query.KindContains, Value: "GRAND"}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(gotText))

	gotMulti, err := eng.Query(records, []query.Predicate{{
		Field:  "text",
		Fields: []string{"tags", "category"},
		Kind:   query.KindContains,
		Value:  "ärger",
	}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, ids(gotMulti))

	gotEmpty, err := eng.Query(records, []query.Predicate{{Field: "text", Kind: query.KindContains, Value: ""}}, query.Sort{})
	require.NoError(t, err)
	assert.Len(t, gotEmpty, 4, "empty search text is a no-op")
}

func Test_Query_Filters_By_Relative_And_Absolute_Dates(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

	records := []todo{
		{ID: 1, Due: "2024-03-10"},
		{ID: 2, Due: "2024-03-03"},
		{ID: 3, Due: "2024-03-02"},
		{ID: 4, Due: "2024-03-17"},
		{ID: 5, Due: "2024-03-18"},
		{ID: 6, Due: ""},
	}

	eng := query.New[todo](todoSchema, query.WithClock(func() time.Time { return now }))

	within, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateWithinDays, Value: 7}}, query.Sort{Field: "due"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 4}, ids(within))

	today, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateWithinDays, Value: "0"}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(today))

	after, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateOnOrAfter, Value: "2024-03-10"}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 5}, ids(after))

	epoch, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateOnOrAfter, Value: query.Epoch}}, query.Sort{})
	require.NoError(t, err)
	assert.Len(t, epoch, 6, "a missing date reads as the epoch")
}

func Test_Query_Reads_Missing_Date_As_Epoch_When_Filtering_By_Either_Date_Kind(t *testing.T) {
	t.Parallel()

	now := time.Date(1970, time.January, 3, 12, 0, 0, 0, time.UTC)

	records := []todo{
		{ID: 1, Due: ""},
		{ID: 2, Due: "not a date"},
		{ID: 3, Due: "1970-01-20"},
	}

	eng := query.New[todo](todoSchema, query.WithClock(func() time.Time { return now }))

	within, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateWithinDays, Value: 2}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(within))

	after, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateOnOrAfter, Value: "1970-01-02"}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids(after))

	onEpoch, err := eng.Query(records, []query.Predicate{{Field: "due", Kind: query.KindDateOnOrAfter, Value: query.Epoch}}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(onEpoch))
}

func Test_Query_Uses_Registered_Predicate_And_Comparator(t *testing.T) {
	t.Parallel()

	records := []todo{
		{ID: 1, Text: "bbb"},
		{ID: 2, Text: "a"},
		{ID: 3, Text: "cc"},
	}

	minLen := func(p query.Predicate, _ time.Time) (query.Test, error) {
		n, ok := p.Value.(int)
		if !ok {
			return nil, errors.New("minLength needs an int")
		}

		return func(values []query.Value) bool { return len(values[0].Text()) >= n }, nil
	}

	byLength := query.Comparator{
		Key: func(v query.Value) query.Value { return query.Int(len(v.Text())) },
		Compare: func(a, b query.Value) int {
			return int(a.Float() - b.Float())
		},
	}

	eng := query.New[todo](todoSchema,
		query.WithPredicate("minLength", minLen),
		query.WithComparator("length", byLength),
	)

	got, err := eng.Query(records,
		[]query.Predicate{{Field: "text", Kind: "minLength", Value: 2}},
		query.Sort{Field: "text", Comparator: "length", Order: query.Desc},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids(got))

	_, err = eng.Query(records, []query.Predicate{{Field: "text", Kind: "minLength", Value: "2"}}, query.Sort{})
	require.ErrorIs(t, err, query.ErrInvalidFilterSpec)
}

func Test_QueryMap_Visits_Records_In_Key_Order(t *testing.T) {
	t.Parallel()

	records := map[string]todo{
		"c": {ID: 3, Priority: "high"},
		"a": {ID: 1, Priority: "high"},
		"b": {ID: 2, Priority: "critical"},
	}

	got, err := query.New[todo](todoSchema).QueryMap(records, nil, query.Sort{Field: "priority"})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1, 3}, ids(got))
}

func Test_Count_Counts_Matches_When_Filters_Valid(t *testing.T) {
	t.Parallel()

	records := make([]todo, 0, 10)
	for i := range 10 {
		records = append(records, todo{ID: i, Completed: i%3 == 0, Text: "item " + strconv.Itoa(i)})
	}

	eng := query.New[todo](todoSchema)

	n, err := eng.Count(records, []query.Predicate{{Field: "completed", Kind: query.KindBoolEquals, Value: true}})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = eng.Count(records, []query.Predicate{{Field: "completed", Kind: "bogus"}})
	require.ErrorIs(t, err, query.ErrInvalidFilterSpec)
}

func Test_Validate_Rejects_Unknown_Kind(t *testing.T) {
	t.Parallel()

	eng := query.New[todo](todoSchema)

	require.NoError(t, eng.Validate([]query.Predicate{{Field: "text", Kind: query.KindContains, Value: "x"}}))
	require.ErrorIs(t, eng.Validate([]query.Predicate{{Field: "text", Kind: "fuzzy"}}), query.ErrInvalidFilterSpec)
}
