// Package record defines daybook's record types, their query schemas, and
// the caller-side mutations (add, update, delete) the query engine leaves out.
package record

import (
	"errors"
	"slices"
	"time"

	"github.com/calvinalkan/daybook/pkg/query"
)

// Priority values, in rank order.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// DefaultPriority is used when a todo or goal is created without one.
const DefaultPriority = PriorityMedium

// Goal statuses.
const (
	GoalActive    = "active"
	GoalPaused    = "paused"
	GoalCompleted = "completed"
)

// Habit frequencies.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Errors for record operations.
var (
	ErrNotFound         = errors.New("record not found")
	ErrAmbiguousID      = errors.New("ambiguous id prefix")
	ErrIDRequired       = errors.New("id is required")
	ErrTextRequired     = errors.New("text is required")
	ErrInvalidPriority  = errors.New("invalid priority (critical|high|medium|low)")
	ErrInvalidDate      = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidProgress  = errors.New("invalid progress (must be 0-100)")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidFrequency = errors.New("invalid frequency (daily|weekly)")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrNotCompleted     = errors.New("not completed")
)

var validPriorities = []string{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// IsValidPriority reports whether p is one of the ranked priorities.
func IsValidPriority(p string) bool {
	return slices.Contains(validPriorities, p)
}

// IsValidGoalStatus reports whether s is a goal status.
func IsValidGoalStatus(s string) bool {
	return s == GoalActive || s == GoalPaused || s == GoalCompleted
}

// IsValidFrequency reports whether f is a habit frequency.
func IsValidFrequency(f string) bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// ValidateDate checks that s is empty or a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if s == "" {
		return nil
	}

	_, err := time.Parse(query.DateLayout, s)
	if err != nil {
		return ErrInvalidDate
	}

	return nil
}

// Todo is an item on the todo list.
type Todo struct {
	ID          string     `json:"id" yaml:"id"`
	Text        string     `json:"text" yaml:"text"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    string     `json:"priority" yaml:"priority"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	DueDate     string     `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

// GetID implements [Record].
func (t Todo) GetID() string { return t.ID }

// Overdue reports whether the todo is open and due before the day of now.
func (t Todo) Overdue(now time.Time) bool {
	if t.Completed || t.DueDate == "" {
		return false
	}

	due, err := time.Parse(query.DateLayout, t.DueDate)
	if err != nil {
		return false
	}

	return due.Before(dayStart(now))
}

// Note is a free-form note.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content,omitempty" yaml:"content,omitempty"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Pinned    bool      `json:"pinned" yaml:"pinned"`
	Archived  bool      `json:"archived" yaml:"archived"`
	Favorite  bool      `json:"favorite" yaml:"favorite"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// GetID implements [Record].
func (n Note) GetID() string { return n.ID }

// Entry is a journal entry for one calendar day.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content,omitempty" yaml:"content,omitempty"`
	Mood      string    `json:"mood,omitempty" yaml:"mood,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Date      string    `json:"date" yaml:"date"`
	Favorite  bool      `json:"favorite" yaml:"favorite"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// GetID implements [Record].
func (e Entry) GetID() string { return e.ID }

// Goal is a longer-running objective with progress tracking.
type Goal struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Priority    string     `json:"priority" yaml:"priority"`
	Status      string     `json:"status" yaml:"status"`
	Progress    int        `json:"progress" yaml:"progress"`
	Deadline    string     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

// GetID implements [Record].
func (g Goal) GetID() string { return g.ID }

// Habit is a recurring activity checked off per day.
type Habit struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Frequency string    `json:"frequency" yaml:"frequency"`
	// Completions holds YYYY-MM-DD dates, sorted and unique.
	Completions []string  `json:"completions,omitempty" yaml:"completions,omitempty"`
	Archived    bool      `json:"archived" yaml:"archived"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
}

// GetID implements [Record].
func (h Habit) GetID() string { return h.ID }

// LastDone returns the most recent completion date, or "".
func (h Habit) LastDone() string {
	if len(h.Completions) == 0 {
		return ""
	}

	return h.Completions[len(h.Completions)-1]
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
