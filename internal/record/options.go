package record

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/daybook/pkg/query"
)

// Errors for list options.
var (
	ErrUnknownKind   = errors.New("unknown collection")
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownStatus = errors.New("unknown status")
	ErrBadFilter     = errors.New("invalid filter (want kind:field[,field]=value)")
	ErrBadPaging     = errors.New("limit and offset must not be negative")
)

// ListOptions is the user-facing filter state of a list view. Empty string
// fields and [query.All] leave a dimension unfiltered.
type ListOptions struct {
	// Status is collection specific: todos take active|completed, notes
	// active|pinned|archived, goals active|paused|completed, habits
	// active|archived.
	Status   string
	Priority string
	Category string
	Mood     string
	Search   string
	Tags     []string
	Favorite bool
	// WithinDays keeps records whose primary date is at most this many
	// calendar days from today. Negative disables it.
	WithinDays int
	// Since keeps records whose primary date is on or after this date.
	Since string
	// Filters are extra predicates appended after the convenience ones.
	Filters []query.Predicate

	Sort   string
	Order  string
	Limit  int
	Offset int
}

// DefaultListOptions returns options with every dimension unfiltered.
func DefaultListOptions() ListOptions {
	return ListOptions{WithinDays: -1}
}

type kindInfo struct {
	fields    []string
	dateField string
	sort      query.Sort
}

var kindInfos = map[string]kindInfo{
	KindTodos: {
		fields:    TodoSchema.Fields(),
		dateField: "dueDate",
		sort:      query.Sort{Field: "priority", Order: query.Asc},
	},
	KindNotes: {
		fields:    NoteSchema.Fields(),
		dateField: "updatedAt",
		sort:      query.Sort{Field: "updatedAt", Order: query.Desc},
	},
	KindJournal: {
		fields:    EntrySchema.Fields(),
		dateField: "date",
		sort:      query.Sort{Field: "date", Order: query.Desc},
	},
	KindGoals: {
		fields:    GoalSchema.Fields(),
		dateField: "deadline",
		sort:      query.Sort{Field: "deadline", Order: query.Asc},
	},
	KindHabits: {
		fields:    HabitSchema.Fields(),
		dateField: "lastDone",
		sort:      query.Sort{Field: "name", Order: query.Asc},
	},
}

// Fields returns the queryable field names of a collection.
func Fields(kind string) ([]string, error) {
	info, ok := kindInfos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return info.fields, nil
}

// Build turns o into predicates and a sort for the given collection.
func (o ListOptions) Build(kind string) ([]query.Predicate, query.Sort, error) {
	info, ok := kindInfos[kind]
	if !ok {
		return nil, query.Sort{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if o.Limit < 0 || o.Offset < 0 {
		return nil, query.Sort{}, ErrBadPaging
	}

	filters, err := o.statusFilters(kind)
	if err != nil {
		return nil, query.Sort{}, err
	}

	if o.Priority != "" && (kind == KindTodos || kind == KindGoals) {
		filters = append(filters, query.Predicate{Field: "priority", Kind: query.KindEquals, Value: strings.ToLower(o.Priority)})
	}

	if o.Category != "" && kind != KindJournal && kind != KindHabits {
		filters = append(filters, query.Predicate{Field: "category", Kind: query.KindEquals, Value: o.Category})
	}

	if o.Mood != "" && kind == KindJournal {
		filters = append(filters, query.Predicate{Field: "mood", Kind: query.KindEquals, Value: strings.ToLower(o.Mood)})
	}

	if o.Favorite && (kind == KindNotes || kind == KindJournal) {
		filters = append(filters, query.Predicate{Field: "favorite", Kind: query.KindBoolEquals, Value: true})
	}

	if o.Search != "" {
		filters = append(filters, query.Predicate{Fields: SearchFields[kind], Kind: query.KindContains, Value: o.Search})
	}

	if tags := CleanTags(o.Tags); len(tags) > 0 && slices.Contains(info.fields, "tags") {
		filters = append(filters, query.Predicate{Field: "tags", Kind: query.KindTagIntersects, Value: tags})
	}

	if o.WithinDays >= 0 {
		filters = append(filters, query.Predicate{Field: info.dateField, Kind: query.KindDateWithinDays, Value: o.WithinDays})
	}

	if o.Since != "" {
		filters = append(filters, query.Predicate{Field: info.dateField, Kind: query.KindDateOnOrAfter, Value: o.Since})
	}

	for _, p := range o.Filters {
		for _, field := range p.Targets() {
			if !slices.Contains(info.fields, field) {
				return nil, query.Sort{}, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, kind, field)
			}
		}

		filters = append(filters, p)
	}

	order := info.sort

	if o.Sort != "" {
		if !slices.Contains(info.fields, o.Sort) {
			return nil, query.Sort{}, fmt.Errorf("%w: cannot sort %s by %q", ErrUnknownField, kind, o.Sort)
		}

		order = query.Sort{Field: o.Sort, Order: query.Asc}
	}

	if o.Order != "" {
		order.Order = query.Direction(strings.ToLower(o.Order))
	}

	return filters, order, nil
}

func (o ListOptions) statusFilters(kind string) ([]query.Predicate, error) {
	status := strings.ToLower(strings.TrimSpace(o.Status))

	// Notes and habits hide archived records unless asked for.
	if status == "" && (kind == KindNotes || kind == KindHabits) {
		status = "active"
	}

	if status == "" || status == query.All {
		return nil, nil
	}

	boolFilter := func(field string, want bool) []query.Predicate {
		return []query.Predicate{{Field: field, Kind: query.KindBoolEquals, Value: want}}
	}

	switch kind {
	case KindTodos:
		switch status {
		case "active":
			return boolFilter("completed", false), nil
		case "completed":
			return boolFilter("completed", true), nil
		}
	case KindNotes:
		switch status {
		case "active":
			return boolFilter("archived", false), nil
		case "archived":
			return boolFilter("archived", true), nil
		case "pinned":
			return append(boolFilter("archived", false), boolFilter("pinned", true)...), nil
		}
	case KindGoals:
		if IsValidGoalStatus(status) {
			return []query.Predicate{{Field: "status", Kind: query.KindEquals, Value: status}}, nil
		}
	case KindHabits:
		switch status {
		case "active":
			return boolFilter("archived", false), nil
		case "archived":
			return boolFilter("archived", true), nil
		}
	}

	return nil, fmt.Errorf("%w: %q for %s", ErrUnknownStatus, o.Status, kind)
}

// ParseFilter parses "kind:field[,field]=value", e.g. "contains:text,tags=milk"
// or "tagIntersects:tags=home,work".
func ParseFilter(s string) (query.Predicate, error) {
	head, value, ok := strings.Cut(s, "=")
	if !ok {
		return query.Predicate{}, fmt.Errorf("%w: %q", ErrBadFilter, s)
	}

	kind, fieldList, ok := strings.Cut(head, ":")
	if !ok || strings.TrimSpace(kind) == "" {
		return query.Predicate{}, fmt.Errorf("%w: %q", ErrBadFilter, s)
	}

	var fields []string

	for field := range strings.SplitSeq(fieldList, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}

	if len(fields) == 0 {
		return query.Predicate{}, fmt.Errorf("%w: %q has no field", ErrBadFilter, s)
	}

	p := query.Predicate{Kind: query.Kind(strings.TrimSpace(kind)), Value: value}
	if len(fields) == 1 {
		p.Field = fields[0]
	} else {
		p.Fields = fields
	}

	return p, nil
}

// Page applies offset then limit to records. A zero limit means no limit.
func Page[T any](records []T, limit, offset int) []T {
	if offset >= len(records) {
		return records[:0]
	}

	records = records[offset:]

	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	return records
}

// ValidateFilters checks that filters compile against the collection's
// schema and name only its fields.
func ValidateFilters(kind string, filters []query.Predicate) error {
	info, ok := kindInfos[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	for _, p := range filters {
		for _, field := range p.Targets() {
			if !slices.Contains(info.fields, field) {
				return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, kind, field)
			}
		}
	}

	switch kind {
	case KindTodos:
		return query.New[Todo](TodoSchema).Validate(filters)
	case KindNotes:
		return query.New[Note](NoteSchema).Validate(filters)
	case KindJournal:
		return query.New[Entry](EntrySchema).Validate(filters)
	case KindGoals:
		return query.New[Goal](GoalSchema).Validate(filters)
	default:
		return query.New[Habit](HabitSchema).Validate(filters)
	}
}
