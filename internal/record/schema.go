package record

import (
	"time"

	"github.com/calvinalkan/daybook/pkg/query"
)

// Schemas expose record fields to the query engine under their JSON names.
var (
	TodoSchema = query.NewSchema[Todo]().
			String("id", func(t Todo) string { return t.ID }).
			String("text", func(t Todo) string { return t.Text }).
			String("description", func(t Todo) string { return t.Description }).
			String("priority", func(t Todo) string { return t.Priority }, query.CompareWith(query.ComparatorPriority)).
			String("category", func(t Todo) string { return t.Category }).
			Bool("completed", func(t Todo) bool { return t.Completed }).
			Date("dueDate", func(t Todo) string { return t.DueDate }).
			List("tags", func(t Todo) []string { return t.Tags }).
			Time("createdAt", func(t Todo) time.Time { return t.CreatedAt }).
			Field("completedAt", func(t Todo) query.Value { return query.FromAny(t.CompletedAt) }, query.CompareWith(query.ComparatorDate))

	NoteSchema = query.NewSchema[Note]().
			String("id", func(n Note) string { return n.ID }).
			String("title", func(n Note) string { return n.Title }).
			String("content", func(n Note) string { return n.Content }).
			String("category", func(n Note) string { return n.Category }).
			List("tags", func(n Note) []string { return n.Tags }).
			Bool("pinned", func(n Note) bool { return n.Pinned }).
			Bool("archived", func(n Note) bool { return n.Archived }).
			Bool("favorite", func(n Note) bool { return n.Favorite }).
			Time("createdAt", func(n Note) time.Time { return n.CreatedAt }).
			Time("updatedAt", func(n Note) time.Time { return n.UpdatedAt })

	EntrySchema = query.NewSchema[Entry]().
			String("id", func(e Entry) string { return e.ID }).
			String("title", func(e Entry) string { return e.Title }).
			String("content", func(e Entry) string { return e.Content }).
			String("mood", func(e Entry) string { return e.Mood }).
			List("tags", func(e Entry) []string { return e.Tags }).
			Date("date", func(e Entry) string { return e.Date }).
			Bool("favorite", func(e Entry) bool { return e.Favorite }).
			Time("createdAt", func(e Entry) time.Time { return e.CreatedAt })

	GoalSchema = query.NewSchema[Goal]().
			String("id", func(g Goal) string { return g.ID }).
			String("title", func(g Goal) string { return g.Title }).
			String("description", func(g Goal) string { return g.Description }).
			String("category", func(g Goal) string { return g.Category }).
			String("priority", func(g Goal) string { return g.Priority }, query.CompareWith(query.ComparatorPriority)).
			String("status", func(g Goal) string { return g.Status }).
			Number("progress", func(g Goal) float64 { return float64(g.Progress) }).
			Date("deadline", func(g Goal) string { return g.Deadline }).
			Time("createdAt", func(g Goal) time.Time { return g.CreatedAt }).
			Field("completedAt", func(g Goal) query.Value { return query.FromAny(g.CompletedAt) }, query.CompareWith(query.ComparatorDate))

	HabitSchema = query.NewSchema[Habit]().
			String("id", func(h Habit) string { return h.ID }).
			String("name", func(h Habit) string { return h.Name }).
			String("frequency", func(h Habit) string { return h.Frequency }).
			Bool("archived", func(h Habit) bool { return h.Archived }).
			Date("lastDone", Habit.LastDone).
			Number("completions", func(h Habit) float64 { return float64(len(h.Completions)) }).
			Time("createdAt", func(h Habit) time.Time { return h.CreatedAt })
)

// SearchFields lists, per collection, the fields free-text search looks at.
var SearchFields = map[string][]string{
	KindTodos:   {"text", "description", "category", "tags"},
	KindNotes:   {"title", "content", "category", "tags"},
	KindJournal: {"title", "content", "mood", "tags"},
	KindGoals:   {"title", "description", "category"},
	KindHabits:  {"name"},
}

// Collection names. They double as storage keys.
const (
	KindTodos   = "todos"
	KindNotes   = "notes"
	KindJournal = "journal"
	KindGoals   = "goals"
	KindHabits  = "habits"
)

// Kinds lists every collection name in display order.
var Kinds = []string{KindTodos, KindNotes, KindJournal, KindGoals, KindHabits}
