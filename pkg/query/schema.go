package query

import (
	"slices"
	"time"
)

// Accessor looks up named fields on records of type T.
//
// Lookup must return [Missing] for fields the record (or the record type)
// does not have. DefaultComparator names the comparator a field sorts with
// when the [Sort] does not pick one; the empty string means "infer from the
// value types".
type Accessor[T any] interface {
	Lookup(record T, field string) Value
	DefaultComparator(field string) string
}

// Schema is a registry of typed field getters for a Go record type.
//
// Register fields once at package init and share the schema; it must not be
// modified after it is handed to [New].
type Schema[T any] struct {
	fields map[string]schemaField[T]
}

type schemaField[T any] struct {
	get        func(T) Value
	comparator string
}

// FieldOption configures a registered field.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	comparator string
}

// CompareWith binds a field to a named comparator, e.g. [ComparatorPriority].
func CompareWith(name string) FieldOption {
	return func(c *fieldConfig) {
		c.comparator = name
	}
}

// NewSchema returns an empty schema.
func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{fields: make(map[string]schemaField[T])}
}

// Field registers a field with a raw [Value] getter.
// Panics if name is empty, get is nil, or name is already registered.
func (s *Schema[T]) Field(name string, get func(T) Value, opts ...FieldOption) *Schema[T] {
	if name == "" {
		panic("query: field name is empty")
	}

	if get == nil {
		panic("query: getter for field " + name + " is nil")
	}

	if _, exists := s.fields[name]; exists {
		panic("query: field " + name + " registered twice")
	}

	cfg := fieldConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.fields[name] = schemaField[T]{get: get, comparator: cfg.comparator}

	return s
}

// String registers a string field. It sorts lexically unless overridden.
func (s *Schema[T]) String(name string, get func(T) string, opts ...FieldOption) *Schema[T] {
	return s.Field(name, func(r T) Value { return String(get(r)) }, withDefault(ComparatorString, opts)...)
}

// Number registers a numeric field.
func (s *Schema[T]) Number(name string, get func(T) float64, opts ...FieldOption) *Schema[T] {
	return s.Field(name, func(r T) Value { return Number(get(r)) }, withDefault(ComparatorNumber, opts)...)
}

// Bool registers a boolean field.
func (s *Schema[T]) Bool(name string, get func(T) bool, opts ...FieldOption) *Schema[T] {
	return s.Field(name, func(r T) Value { return Bool(get(r)) }, withDefault(ComparatorBool, opts)...)
}

// Date registers a date field stored as a string. Empty strings are missing
// and sort as the far future.
func (s *Schema[T]) Date(name string, get func(T) string, opts ...FieldOption) *Schema[T] {
	return s.Field(name, func(r T) Value { return DateString(get(r)) }, withDefault(ComparatorDate, opts)...)
}

// Time registers a date field stored as a [time.Time]. The zero time is missing.
func (s *Schema[T]) Time(name string, get func(T) time.Time, opts ...FieldOption) *Schema[T] {
	return s.Field(name, func(r T) Value { return Date(get(r)) }, withDefault(ComparatorDate, opts)...)
}

// List registers a list-of-string field such as tags.
func (s *Schema[T]) List(name string, get func(T) []string, opts ...FieldOption) *Schema[T] {
	return s.Field(name, func(r T) Value {
		items := get(r)
		if items == nil {
			items = []string{}
		}

		return List(items)
	}, withDefault(ComparatorString, opts)...)
}

// Has reports whether name is a registered field.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.fields[name]

	return ok
}

// Fields returns the registered field names, sorted.
func (s *Schema[T]) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Lookup implements [Accessor]. Unknown fields are missing.
func (s *Schema[T]) Lookup(record T, field string) Value {
	f, ok := s.fields[field]
	if !ok {
		return Missing()
	}

	return f.get(record)
}

// DefaultComparator implements [Accessor].
func (s *Schema[T]) DefaultComparator(field string) string {
	return s.fields[field].comparator
}

// withDefault prepends the type's comparator so an explicit CompareWith wins.
func withDefault(name string, opts []FieldOption) []FieldOption {
	return append([]FieldOption{CompareWith(name)}, opts...)
}

// MapAccessor reads fields from schema-free records, the shape JSON
// collections decode into. Values are converted with [FromAny].
//
// Without an entry in Comparators, the conventional field names in
// [MapComparators] sort with their comparator (priority by rank, dates with
// missing values last); every other field sorts by inferred type.
type MapAccessor struct {
	// Comparators binds field names to named comparators. An entry overrides
	// [MapComparators].
	Comparators map[string]string
}

// MapComparators are the default comparators [MapAccessor] uses by field name.
var MapComparators = map[string]string{
	"priority":    ComparatorPriority,
	"date":        ComparatorDate,
	"deadline":    ComparatorDate,
	"dueDate":     ComparatorDate,
	"createdAt":   ComparatorDate,
	"updatedAt":   ComparatorDate,
	"completedAt": ComparatorDate,
}

// Lookup implements [Accessor].
func (m MapAccessor) Lookup(record map[string]any, field string) Value {
	if record == nil {
		return Missing()
	}

	return FromAny(record[field])
}

// DefaultComparator implements [Accessor].
func (m MapAccessor) DefaultComparator(field string) string {
	if name, ok := m.Comparators[field]; ok {
		return name
	}

	return MapComparators[field]
}
