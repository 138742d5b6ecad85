package query

import (
	"cmp"
	"strings"
	"time"
)

// Direction is a sort direction.
type Direction string

// Sort directions. Anything other than Desc sorts ascending.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders query results by one field.
//
// Comparator optionally names a registered comparator; when empty or unknown
// the accessor's default for the field is used, then type inference.
type Sort struct {
	Field      string    `json:"field,omitempty"`
	Order      Direction `json:"order,omitempty"`
	Comparator string    `json:"comparator,omitempty"`
}

// Comparator orders field values.
//
// Key maps a looked-up value to the value that is compared. It runs once per
// record, so parsing belongs there rather than in Compare. A nil Key is the
// identity. Compare returns a negative number, zero, or a positive number.
type Comparator struct {
	Key     func(Value) Value
	Compare func(a, b Value) int
}

// Built-in comparator names.
const (
	ComparatorString   = "string"
	ComparatorNumber   = "number"
	ComparatorBool     = "bool"
	ComparatorDate     = "date"
	ComparatorPriority = "priority"
	comparatorInferred = ""
)

// PriorityRank is the fixed rank table of the priority comparator.
// Lower ranks sort first in ascending order.
var PriorityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
}

// unrankedPriority places unknown or missing priorities after "low".
const unrankedPriority = 4

// FarFuture is the sort key of a missing date.
var FarFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

func builtinComparators() map[string]Comparator {
	return map[string]Comparator{
		ComparatorString: {
			Key:     func(v Value) Value { return String(v.Text()) },
			Compare: func(a, b Value) int { return strings.Compare(a.str, b.str) },
		},
		ComparatorNumber: {
			Key:     func(v Value) Value { return Number(v.Float()) },
			Compare: func(a, b Value) int { return cmp.Compare(a.num, b.num) },
		},
		ComparatorBool: {
			Key:     func(v Value) Value { return Bool(v.Truth()) },
			Compare: compareBool,
		},
		ComparatorDate: {
			Key: func(v Value) Value {
				t, ok := v.Time()
				if !ok {
					return Date(FarFuture)
				}

				return Date(t)
			},
			Compare: func(a, b Value) int { return a.t.Compare(b.t) },
		},
		ComparatorPriority: {
			Key: func(v Value) Value {
				rank, ok := PriorityRank[strings.ToLower(strings.TrimSpace(v.Text()))]
				if !ok {
					rank = unrankedPriority
				}

				return Int(rank)
			},
			Compare: func(a, b Value) int { return cmp.Compare(a.num, b.num) },
		},
	}
}

func compareBool(a, b Value) int {
	switch {
	case a.b == b.b:
		return 0
	case !a.b:
		return -1
	default:
		return 1
	}
}

// inferred orders values by their dynamic types. A missing value takes the
// zero value of the other side's type; unrelated types order by [Type].
var inferred = Comparator{Compare: compareInferred}

func compareInferred(a, b Value) int {
	if a.typ == TypeMissing && b.typ == TypeMissing {
		return 0
	}

	if a.typ == TypeMissing {
		a = zeroOf(b.typ)
	}

	if b.typ == TypeMissing {
		b = zeroOf(a.typ)
	}

	if a.typ != b.typ {
		return cmp.Compare(a.typ, b.typ)
	}

	switch a.typ {
	case TypeNumber:
		return cmp.Compare(a.num, b.num)
	case TypeBool:
		return compareBool(a, b)
	case TypeDate:
		return a.t.Compare(b.t)
	default:
		return strings.Compare(a.Text(), b.Text())
	}
}

func zeroOf(t Type) Value {
	switch t {
	case TypeNumber:
		return Number(0)
	case TypeBool:
		return Bool(false)
	case TypeDate:
		return Date(Epoch)
	case TypeList:
		return List([]string{})
	default:
		return String("")
	}
}
