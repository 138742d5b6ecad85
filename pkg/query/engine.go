package query

import (
	"maps"
	"slices"
	"time"
)

// Engine filters and sorts records of type T.
//
// It holds only the accessor and the predicate/comparator registries, all
// fixed at construction, so a single Engine can serve concurrent queries.
type Engine[T any] struct {
	accessor    Accessor[T]
	predicates  map[Kind]Builder
	comparators map[string]Comparator
	now         func() time.Time
}

// Option configures an [Engine].
type Option func(*options)

type options struct {
	predicates  map[Kind]Builder
	comparators map[string]Comparator
	now         func() time.Time
}

// WithPredicate registers (or replaces) a predicate kind.
func WithPredicate(kind Kind, build Builder) Option {
	return func(o *options) {
		o.predicates[kind] = build
	}
}

// WithComparator registers (or replaces) a named comparator.
func WithComparator(name string, c Comparator) Option {
	return func(o *options) {
		o.comparators[name] = c
	}
}

// WithClock sets the "now" used by relative date predicates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New returns an engine reading records through accessor.
// Panics if accessor is nil.
func New[T any](accessor Accessor[T], opts ...Option) *Engine[T] {
	if accessor == nil {
		panic("query: accessor is nil")
	}

	o := options{
		predicates:  builtinPredicates(),
		comparators: builtinComparators(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(&o)
	}

	for name, c := range o.comparators {
		if c.Compare == nil {
			panic("query: comparator " + name + " has no Compare func")
		}
	}

	return &Engine[T]{
		accessor:    accessor,
		predicates:  o.predicates,
		comparators: o.comparators,
		now:         o.now,
	}
}

// Query returns the records matching every predicate, ordered by order.
//
// records is never modified. The result is a new slice and is never nil.
// Records that tie on the sort key keep their input order, in both
// directions. An empty order.Field keeps input order.
//
// Only a malformed predicate is an error; see [ErrInvalidFilterSpec].
func (e *Engine[T]) Query(records []T, filters []Predicate, order Sort) ([]T, error) {
	compiled, err := e.compile(filters)
	if err != nil {
		return nil, err
	}

	matched := e.filter(records, compiled)
	e.sort(matched, order)

	return matched, nil
}

// QueryMap queries a collection keyed by record ID. Records are visited in
// ascending key order, so ties on the sort key come out in key order.
func (e *Engine[T]) QueryMap(records map[string]T, filters []Predicate, order Sort) ([]T, error) {
	keys := slices.Sorted(maps.Keys(records))

	ordered := make([]T, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, records[key])
	}

	return e.Query(ordered, filters, order)
}

// Count returns how many records match every predicate.
func (e *Engine[T]) Count(records []T, filters []Predicate) (int, error) {
	compiled, err := e.compile(filters)
	if err != nil {
		return 0, err
	}

	n := 0

	values := make([]Value, maxTargets(compiled))
	for _, record := range records {
		if e.matches(record, compiled, values) {
			n++
		}
	}

	return n, nil
}

// Validate reports whether filters compile, without touching any records.
func (e *Engine[T]) Validate(filters []Predicate) error {
	_, err := e.compile(filters)

	return err
}

// Query runs a one-off query with the built-in predicates and comparators.
func Query[T any](records []T, accessor Accessor[T], filters []Predicate, order Sort) ([]T, error) {
	return New(accessor).Query(records, filters, order)
}

type compiledPredicate struct {
	fields []string
	test   Test
}

func (e *Engine[T]) compile(filters []Predicate) ([]compiledPredicate, error) {
	now := e.now()
	compiled := make([]compiledPredicate, 0, len(filters))

	for i, p := range filters {
		build, ok := e.predicates[p.Kind]
		if !ok {
			return nil, &FilterError{Index: i, Kind: p.Kind, Field: p.Field, Err: errUnknownKind}
		}

		targets := p.Targets()
		if len(targets) == 0 {
			return nil, &FilterError{Index: i, Kind: p.Kind, Err: errNoField}
		}

		test, err := build(p, now)
		if err != nil {
			return nil, &FilterError{Index: i, Kind: p.Kind, Field: targets[0], Err: err}
		}

		if test == nil {
			continue
		}

		compiled = append(compiled, compiledPredicate{fields: targets, test: test})
	}

	return compiled, nil
}

func (e *Engine[T]) filter(records []T, compiled []compiledPredicate) []T {
	if len(compiled) == 0 {
		all := make([]T, len(records))
		copy(all, records)

		return all
	}

	matched := make([]T, 0, len(records))
	values := make([]Value, maxTargets(compiled))

	for _, record := range records {
		if e.matches(record, compiled, values) {
			matched = append(matched, record)
		}
	}

	return matched
}

// matches evaluates predicates in order and stops at the first failure.
func (e *Engine[T]) matches(record T, compiled []compiledPredicate, scratch []Value) bool {
	for _, c := range compiled {
		values := scratch[:len(c.fields)]
		for i, field := range c.fields {
			values[i] = e.accessor.Lookup(record, field)
		}

		if !c.test(values) {
			return false
		}
	}

	return true
}

func maxTargets(compiled []compiledPredicate) int {
	n := 0
	for _, c := range compiled {
		n = max(n, len(c.fields))
	}

	return n
}

type keyed[T any] struct {
	record T
	key    Value
}

// sort orders records in place with a stable sort. Keys are extracted once.
func (e *Engine[T]) sort(records []T, order Sort) {
	if order.Field == "" || len(records) < 2 {
		return
	}

	c := e.comparatorFor(order)

	items := make([]keyed[T], len(records))
	for i, record := range records {
		key := e.accessor.Lookup(record, order.Field)
		if c.Key != nil {
			key = c.Key(key)
		}

		items[i] = keyed[T]{record: record, key: key}
	}

	desc := order.Order == Desc

	slices.SortStableFunc(items, func(a, b keyed[T]) int {
		if desc {
			return c.Compare(b.key, a.key)
		}

		return c.Compare(a.key, b.key)
	})

	for i := range items {
		records[i] = items[i].record
	}
}

func (e *Engine[T]) comparatorFor(order Sort) Comparator {
	if order.Comparator != comparatorInferred {
		if c, ok := e.comparators[order.Comparator]; ok {
			return c
		}
	}

	if c, ok := e.comparators[e.accessor.DefaultComparator(order.Field)]; ok {
		return c
	}

	return inferred
}
