package record_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/daybook/internal/record"
)

func Test_Summarize_Counts_Every_Collection(t *testing.T) {
	t.Parallel()

	snap := record.Snapshot{
		Todos: append(sampleTodos(), record.Todo{ID: "T5", Text: "Today", Priority: "low", DueDate: "2024-03-10"}),
		Notes: []record.Note{
			{ID: "N1", Pinned: true},
			{ID: "N2", Pinned: true, Archived: true},
			{ID: "N3"},
		},
		Journal: []record.Entry{
			{ID: "E1", Date: "2024-03-09", Mood: "happy"},
			{ID: "E2", Date: "2024-03-03", Mood: "happy"},
			{ID: "E3", Date: "2024-02-01", Mood: "tired"},
			{ID: "E4", Date: "2024-03-10"},
		},
		Goals: []record.Goal{
			{ID: "G1", Status: record.GoalActive, Progress: 20},
			{ID: "G2", Status: record.GoalCompleted, Progress: 100},
			{ID: "G3", Status: record.GoalPaused, Progress: 5},
		},
		Habits: []record.Habit{
			{ID: "H1", Name: "Stretch", Frequency: record.FrequencyDaily, Completions: []string{"2024-03-09", "2024-03-10"}},
			{ID: "H2", Name: "Call mom", Frequency: record.FrequencyWeekly, Completions: []string{"2024-02-26"}},
			{ID: "H3", Name: "Old", Archived: true, Completions: []string{"2024-03-10"}},
		},
	}

	got, err := record.Summarize(snap, testNow)
	require.NoError(t, err)

	want := record.Dashboard{
		Todos: record.TodoStats{
			Total:          5,
			Completed:      1,
			Overdue:        1,
			DueToday:       1,
			CompletionRate: 20,
			ByPriority:     map[string]int{"critical": 1, "high": 1, "medium": 1, "low": 2},
		},
		Notes: record.NoteStats{Total: 3, Pinned: 1, Archived: 1},
		Journal: record.JournalStats{
			Total:    4,
			LastWeek: 3,
			Moods:    map[string]int{"happy": 2, "tired": 1},
		},
		Goals: record.GoalStats{
			Total:           3,
			ByStatus:        map[string]int{"active": 1, "paused": 1, "completed": 1},
			AverageProgress: 42,
		},
		Habits: record.HabitStats{
			Active:    2,
			DoneToday: 1,
			Streaks: []record.HabitStreak{
				{ID: "H2", Name: "Call mom", Current: 1, Best: 1},
				{ID: "H1", Name: "Stretch", Current: 2, Best: 2, Done: true},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dashboard mismatch (-want +got):\n%s", diff)
	}
}

func Test_Summarize_Returns_Zeroes_When_Snapshot_Is_Empty(t *testing.T) {
	t.Parallel()

	got, err := record.Summarize(record.Snapshot{}, testNow)
	require.NoError(t, err)

	assert.Zero(t, got.Todos.CompletionRate)
	assert.Zero(t, got.Goals.AverageProgress)
	assert.Empty(t, got.Habits.Streaks)
}

func Test_Heading_Title_Cases_Words(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Due Today", record.Heading("due today"))
}
