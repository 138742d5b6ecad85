package record

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/calvinalkan/daybook/pkg/query"
)

// Snapshot is every collection as loaded from storage.
type Snapshot struct {
	Todos   []Todo
	Notes   []Note
	Journal []Entry
	Goals   []Goal
	Habits  []Habit
}

// Dashboard summarizes a snapshot as of one moment.
type Dashboard struct {
	Todos   TodoStats    `json:"todos" yaml:"todos"`
	Notes   NoteStats    `json:"notes" yaml:"notes"`
	Journal JournalStats `json:"journal" yaml:"journal"`
	Goals   GoalStats    `json:"goals" yaml:"goals"`
	Habits  HabitStats   `json:"habits" yaml:"habits"`
}

// TodoStats counts todos.
type TodoStats struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Overdue   int `json:"overdue" yaml:"overdue"`
	DueToday  int `json:"dueToday" yaml:"due_today"`
	// CompletionRate is completed/total in percent, rounded.
	CompletionRate int            `json:"completionRate" yaml:"completion_rate"`
	ByPriority     map[string]int `json:"byPriority" yaml:"by_priority"`
}

// NoteStats counts notes.
type NoteStats struct {
	Total    int `json:"total" yaml:"total"`
	Pinned   int `json:"pinned" yaml:"pinned"`
	Archived int `json:"archived" yaml:"archived"`
}

// JournalStats counts journal entries.
type JournalStats struct {
	Total    int            `json:"total" yaml:"total"`
	LastWeek int            `json:"lastWeek" yaml:"last_week"`
	Moods    map[string]int `json:"moods" yaml:"moods"`
}

// GoalStats counts goals.
type GoalStats struct {
	Total           int            `json:"total" yaml:"total"`
	ByStatus        map[string]int `json:"byStatus" yaml:"by_status"`
	AverageProgress int            `json:"averageProgress" yaml:"average_progress"`
}

// HabitStats summarizes active habits.
type HabitStats struct {
	Active    int           `json:"active" yaml:"active"`
	DoneToday int           `json:"doneToday" yaml:"done_today"`
	Streaks   []HabitStreak `json:"streaks" yaml:"streaks"`
}

// HabitStreak is one habit's streak line.
type HabitStreak struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Current int    `json:"current" yaml:"current"`
	Best    int    `json:"best" yaml:"best"`
	Done    bool   `json:"done" yaml:"done"`
}

// Summarize computes the dashboard. Every count that is a filter runs
// through the query engine so it agrees with what `ls` shows.
func Summarize(snap Snapshot, now time.Time) (Dashboard, error) {
	clock := query.WithClock(func() time.Time { return now })

	var (
		d   Dashboard
		err error
	)

	d.Todos, err = summarizeTodos(query.New[Todo](TodoSchema, clock), snap.Todos, now)
	if err != nil {
		return Dashboard{}, fmt.Errorf("todos: %w", err)
	}

	d.Notes, err = summarizeNotes(query.New[Note](NoteSchema, clock), snap.Notes)
	if err != nil {
		return Dashboard{}, fmt.Errorf("notes: %w", err)
	}

	d.Journal, err = summarizeJournal(query.New[Entry](EntrySchema, clock), snap.Journal)
	if err != nil {
		return Dashboard{}, fmt.Errorf("journal: %w", err)
	}

	d.Goals, err = summarizeGoals(query.New[Goal](GoalSchema, clock), snap.Goals)
	if err != nil {
		return Dashboard{}, fmt.Errorf("goals: %w", err)
	}

	d.Habits, err = summarizeHabits(query.New[Habit](HabitSchema, clock), snap.Habits, now)
	if err != nil {
		return Dashboard{}, fmt.Errorf("habits: %w", err)
	}

	return d, nil
}

func summarizeTodos(eng *query.Engine[Todo], todos []Todo, now time.Time) (TodoStats, error) {
	stats := TodoStats{Total: len(todos), ByPriority: map[string]int{}}

	var err error

	stats.Completed, err = eng.Count(todos, []query.Predicate{{Field: "completed", Kind: query.KindBoolEquals, Value: true}})
	if err != nil {
		return stats, err
	}

	stats.DueToday, err = eng.Count(todos, []query.Predicate{
		{Field: "completed", Kind: query.KindBoolEquals, Value: false},
		{Field: "dueDate", Kind: query.KindDateWithinDays, Value: 0},
	})
	if err != nil {
		return stats, err
	}

	for _, p := range validPriorities {
		n, countErr := eng.Count(todos, []query.Predicate{{Field: "priority", Kind: query.KindEquals, Value: p}})
		if countErr != nil {
			return stats, countErr
		}

		if n > 0 {
			stats.ByPriority[p] = n
		}
	}

	for _, t := range todos {
		if t.Overdue(now) {
			stats.Overdue++
		}
	}

	stats.CompletionRate = percent(stats.Completed, stats.Total)

	return stats, nil
}

func summarizeNotes(eng *query.Engine[Note], notes []Note) (NoteStats, error) {
	stats := NoteStats{Total: len(notes)}

	var err error

	stats.Pinned, err = eng.Count(notes, []query.Predicate{
		{Field: "pinned", Kind: query.KindBoolEquals, Value: true},
		{Field: "archived", Kind: query.KindBoolEquals, Value: false},
	})
	if err != nil {
		return stats, err
	}

	stats.Archived, err = eng.Count(notes, []query.Predicate{{Field: "archived", Kind: query.KindBoolEquals, Value: true}})

	return stats, err
}

func summarizeJournal(eng *query.Engine[Entry], entries []Entry) (JournalStats, error) {
	stats := JournalStats{Total: len(entries), Moods: map[string]int{}}

	// Symmetric window; future-dated entries within a week count too.
	var err error

	stats.LastWeek, err = eng.Count(entries, []query.Predicate{{Field: "date", Kind: query.KindDateWithinDays, Value: 7}})
	if err != nil {
		return stats, err
	}

	for _, e := range entries {
		if e.Mood != "" {
			stats.Moods[e.Mood]++
		}
	}

	return stats, nil
}

func summarizeGoals(eng *query.Engine[Goal], goals []Goal) (GoalStats, error) {
	stats := GoalStats{Total: len(goals), ByStatus: map[string]int{}}

	for _, status := range []string{GoalActive, GoalPaused, GoalCompleted} {
		n, err := eng.Count(goals, []query.Predicate{{Field: "status", Kind: query.KindEquals, Value: status}})
		if err != nil {
			return stats, err
		}

		stats.ByStatus[status] = n
	}

	if len(goals) > 0 {
		sum := 0
		for _, g := range goals {
			sum += g.Progress
		}

		stats.AverageProgress = int(math.Round(float64(sum) / float64(len(goals))))
	}

	return stats, nil
}

func summarizeHabits(eng *query.Engine[Habit], habits []Habit, now time.Time) (HabitStats, error) {
	active, err := eng.Query(habits,
		[]query.Predicate{{Field: "archived", Kind: query.KindBoolEquals, Value: false}},
		query.Sort{Field: "name", Order: query.Asc},
	)
	if err != nil {
		return HabitStats{}, err
	}

	stats := HabitStats{Active: len(active), Streaks: make([]HabitStreak, 0, len(active))}

	for _, h := range active {
		done := DoneInPeriod(h, now)
		if done {
			stats.DoneToday++
		}

		stats.Streaks = append(stats.Streaks, HabitStreak{
			ID:      h.ID,
			Name:    h.Name,
			Current: CurrentStreak(h, now),
			Best:    BestStreak(h),
			Done:    done,
		})
	}

	return stats, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}

	return int(math.Round(float64(part) * 100 / float64(total)))
}

// Heading title-cases a collection or status name for display.
func Heading(s string) string {
	return cases.Title(language.English).String(s)
}
