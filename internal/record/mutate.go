package record

import (
	"slices"
	"strings"
	"time"

	"github.com/calvinalkan/daybook/pkg/query"
)

// TodoInput holds the user-supplied fields of a new todo.
type TodoInput struct {
	Text        string
	Description string
	Priority    string
	Category    string
	DueDate     string
	Tags        []string
}

// NewTodo validates in and builds an open todo.
func NewTodo(in TodoInput, now time.Time) (Todo, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Todo{}, ErrTextRequired
	}

	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return Todo{}, err
	}

	err = ValidateDate(in.DueDate)
	if err != nil {
		return Todo{}, err
	}

	id, err := NewID()
	if err != nil {
		return Todo{}, err
	}

	return Todo{
		ID:          id,
		Text:        text,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Category:    strings.TrimSpace(in.Category),
		DueDate:     in.DueDate,
		Tags:        CleanTags(in.Tags),
		CreatedAt:   now.UTC(),
	}, nil
}

// CompleteTodo marks t completed at now.
func CompleteTodo(t Todo, now time.Time) (Todo, error) {
	if t.Completed {
		return t, ErrAlreadyCompleted
	}

	at := now.UTC()
	t.Completed = true
	t.CompletedAt = &at

	return t, nil
}

// ReopenTodo clears the completion of t.
func ReopenTodo(t Todo) (Todo, error) {
	if !t.Completed {
		return t, ErrNotCompleted
	}

	t.Completed = false
	t.CompletedAt = nil

	return t, nil
}

// NoteInput holds the user-supplied fields of a new note.
type NoteInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
	Pinned   bool
}

// NewNote validates in and builds a note.
func NewNote(in NoteInput, now time.Time) (Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Note{}, ErrTextRequired
	}

	id, err := NewID()
	if err != nil {
		return Note{}, err
	}

	return Note{
		ID:        id,
		Title:     title,
		Content:   in.Content,
		Category:  strings.TrimSpace(in.Category),
		Tags:      CleanTags(in.Tags),
		Pinned:    in.Pinned,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// NoteFlag names a boolean note attribute.
type NoteFlag string

// Note flags.
const (
	FlagPinned   NoteFlag = "pinned"
	FlagArchived NoteFlag = "archived"
	FlagFavorite NoteFlag = "favorite"
)

// SetNoteFlag sets one boolean attribute and bumps UpdatedAt when it changes.
func SetNoteFlag(n Note, flag NoteFlag, on bool, now time.Time) Note {
	var field *bool

	switch flag {
	case FlagPinned:
		field = &n.Pinned
	case FlagArchived:
		field = &n.Archived
	case FlagFavorite:
		field = &n.Favorite
	default:
		return n
	}

	if *field != on {
		*field = on
		n.UpdatedAt = now.UTC()
	}

	return n
}

// EntryInput holds the user-supplied fields of a journal entry.
type EntryInput struct {
	Title   string
	Content string
	Mood    string
	Date    string
	Tags    []string
}

// NewEntry builds a journal entry. An empty date means the day of now.
func NewEntry(in EntryInput, now time.Time) (Entry, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Entry{}, ErrTextRequired
	}

	date := in.Date
	if date == "" {
		date = now.Format(query.DateLayout)
	}

	err := ValidateDate(date)
	if err != nil {
		return Entry{}, err
	}

	id, err := NewID()
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:        id,
		Title:     title,
		Content:   in.Content,
		Mood:      strings.ToLower(strings.TrimSpace(in.Mood)),
		Tags:      CleanTags(in.Tags),
		Date:      date,
		CreatedAt: now.UTC(),
	}, nil
}

// GoalInput holds the user-supplied fields of a new goal.
type GoalInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Deadline    string
}

// NewGoal validates in and builds an active goal with no progress.
func NewGoal(in GoalInput, now time.Time) (Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Goal{}, ErrTextRequired
	}

	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return Goal{}, err
	}

	err = ValidateDate(in.Deadline)
	if err != nil {
		return Goal{}, err
	}

	id, err := NewID()
	if err != nil {
		return Goal{}, err
	}

	return Goal{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    priority,
		Status:      GoalActive,
		Deadline:    in.Deadline,
		CreatedAt:   now.UTC(),
	}, nil
}

// SetGoalProgress records progress in percent. Reaching 100 completes the
// goal; dropping below 100 reactivates a completed one.
func SetGoalProgress(g Goal, progress int, now time.Time) (Goal, error) {
	if progress < 0 || progress > 100 {
		return g, ErrInvalidProgress
	}

	g.Progress = progress

	switch {
	case progress == 100 && g.Status != GoalCompleted:
		at := now.UTC()
		g.Status = GoalCompleted
		g.CompletedAt = &at
	case progress < 100 && g.Status == GoalCompleted:
		g.Status = GoalActive
		g.CompletedAt = nil
	}

	return g, nil
}

// SetGoalStatus changes the status of g. Completing sets progress to 100.
func SetGoalStatus(g Goal, status string, now time.Time) (Goal, error) {
	if !IsValidGoalStatus(status) {
		return g, ErrInvalidStatus
	}

	if status == GoalCompleted {
		return SetGoalProgress(g, 100, now)
	}

	g.Status = status
	g.CompletedAt = nil

	return g, nil
}

// NewHabit builds a habit. An empty frequency means daily.
func NewHabit(name, frequency string, now time.Time) (Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Habit{}, ErrTextRequired
	}

	if frequency == "" {
		frequency = FrequencyDaily
	}

	if !IsValidFrequency(frequency) {
		return Habit{}, ErrInvalidFrequency
	}

	id, err := NewID()
	if err != nil {
		return Habit{}, err
	}

	return Habit{ID: id, Name: name, Frequency: frequency, CreatedAt: now.UTC()}, nil
}

// CheckIn records a completion on date. Checking the same date twice is a
// no-op.
func CheckIn(h Habit, date string) (Habit, error) {
	if date == "" {
		return h, ErrInvalidDate
	}

	err := ValidateDate(date)
	if err != nil {
		return h, err
	}

	idx, found := slices.BinarySearch(h.Completions, date)
	if found {
		return h, nil
	}

	h.Completions = slices.Insert(slices.Clone(h.Completions), idx, date)

	return h, nil
}

// Uncheck removes a completion on date, if present.
func Uncheck(h Habit, date string) Habit {
	idx, found := slices.BinarySearch(h.Completions, date)
	if !found {
		return h
	}

	h.Completions = slices.Delete(slices.Clone(h.Completions), idx, idx+1)

	return h
}

// CleanTags trims tags, drops empty ones, and removes duplicates keeping the
// first occurrence. It returns nil for no tags.
func CleanTags(tags []string) []string {
	var out []string

	for _, tag := range tags {
		for part := range strings.SplitSeq(tag, ",") {
			part = strings.TrimSpace(part)
			if part == "" || slices.Contains(out, part) {
				continue
			}

			out = append(out, part)
		}
	}

	return out
}

func normalizePriority(p string) (string, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return DefaultPriority, nil
	}

	if !IsValidPriority(p) {
		return "", ErrInvalidPriority
	}

	return p, nil
}
