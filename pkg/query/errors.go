package query

import (
	"errors"
	"strconv"
)

// ErrInvalidFilterSpec is returned when a predicate cannot be evaluated:
// an unknown kind, no target field, or a comparison value that does not fit
// the kind. It signals a caller bug, not bad record data.
var ErrInvalidFilterSpec = errors.New("invalid filter spec")

var (
	errUnknownKind = errors.New("unknown predicate kind")
	errNoField     = errors.New("predicate has no field")
	errBadValue    = errors.New("bad comparison value")
)

// FilterError describes the predicate that made a filter spec invalid.
//
// It matches [ErrInvalidFilterSpec] with [errors.Is]:
//
//	var fErr *query.FilterError
//	if errors.As(err, &fErr) {
//	    fmt.Println("bad predicate at", fErr.Index)
//	}
type FilterError struct {
	// Index is the predicate's position in the filter spec.
	Index int
	Kind  Kind
	Field string
	Err   error
}

func (e *FilterError) Error() string {
	if e == nil {
		return ""
	}

	msg := ErrInvalidFilterSpec.Error() + ": predicate " + strconv.Itoa(e.Index) + " (" + string(e.Kind)
	if e.Field != "" {
		msg += " on " + e.Field
	}

	msg += ")"

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FilterError) Unwrap() []error {
	if e == nil {
		return nil
	}

	if e.Err == nil {
		return []error{ErrInvalidFilterSpec}
	}

	return []error{ErrInvalidFilterSpec, e.Err}
}
