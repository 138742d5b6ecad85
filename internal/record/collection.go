package record

import (
	"fmt"
	"slices"
	"strings"
)

// Record is anything stored in a [Collection].
type Record interface {
	GetID() string
}

// Collection holds one record type in stored order. It is the mutable side
// the query engine never touches: callers add, update, and delete here, then
// hand [Collection.Records] to the engine.
//
// Records are kept exactly as loaded. One without an ID cannot be addressed
// but is never dropped, and mutations only touch the element they resolve.
type Collection[T Record] struct {
	items []T
}

// NewCollection builds a collection over a copy of records.
func NewCollection[T Record](records ...T) *Collection[T] {
	return &Collection[T]{items: slices.Clone(records)}
}

// Len returns the number of records.
func (c *Collection[T]) Len() int { return len(c.items) }

// Put replaces the first record with r's ID, or appends r.
func (c *Collection[T]) Put(r T) error {
	if r.GetID() == "" {
		return ErrIDRequired
	}

	if i := c.index(r.GetID()); i >= 0 {
		c.items[i] = r

		return nil
	}

	c.items = append(c.items, r)

	return nil
}

// Get returns the first record with exactly this ID.
func (c *Collection[T]) Get(id string) (T, bool) {
	var zero T

	if id == "" {
		return zero, false
	}

	i := c.index(id)
	if i < 0 {
		return zero, false
	}

	return c.items[i], true
}

// Resolve finds a record by full ID or unique ID prefix. Matching ignores
// case and Crockford lookalike letters.
func (c *Collection[T]) Resolve(idOrPrefix string) (T, error) {
	var zero T

	i, err := c.resolve(idOrPrefix)
	if err != nil {
		return zero, err
	}

	return c.items[i], nil
}

// Update applies fn to the record resolved from idOrPrefix and stores the
// result in its place. The ID cannot be changed.
func (c *Collection[T]) Update(idOrPrefix string, fn func(T) (T, error)) (T, error) {
	var zero T

	i, err := c.resolve(idOrPrefix)
	if err != nil {
		return zero, err
	}

	r := c.items[i]

	updated, err := fn(r)
	if err != nil {
		return r, err
	}

	if updated.GetID() != r.GetID() {
		return r, fmt.Errorf("update %s: id changed to %q", r.GetID(), updated.GetID())
	}

	c.items[i] = updated

	return updated, nil
}

// Delete removes the record resolved from idOrPrefix and returns it.
func (c *Collection[T]) Delete(idOrPrefix string) (T, error) {
	var zero T

	i, err := c.resolve(idOrPrefix)
	if err != nil {
		return zero, err
	}

	r := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)

	return r, nil
}

// Records returns every record in stored order.
func (c *Collection[T]) Records() []T {
	return slices.Clone(c.items)
}

func (c *Collection[T]) index(id string) int {
	return slices.IndexFunc(c.items, func(r T) bool { return r.GetID() == id })
}

func (c *Collection[T]) resolve(idOrPrefix string) (int, error) {
	prefix := normalizeID(idOrPrefix)
	if prefix == "" {
		return -1, ErrIDRequired
	}

	if i := c.index(prefix); i >= 0 {
		return i, nil
	}

	first := -1

	var matches []string

	for i, r := range c.items {
		id := r.GetID()
		if id == "" || !strings.HasPrefix(normalizeID(id), prefix) {
			continue
		}

		if !slices.Contains(matches, id) {
			matches = append(matches, id)
		}

		if first < 0 {
			first = i
		}
	}

	switch len(matches) {
	case 0:
		return -1, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return first, nil
	default:
		slices.Sort(matches)

		return -1, fmt.Errorf("%w: %s matches %s", ErrAmbiguousID, idOrPrefix, strings.Join(matches, ", "))
	}
}
