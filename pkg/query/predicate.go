package query

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Kind names a predicate. Custom kinds can be added with [WithPredicate].
type Kind string

// Built-in predicate kinds.
const (
	KindEquals         Kind = "equals"
	KindContains       Kind = "contains"
	KindDateOnOrAfter  Kind = "dateOnOrAfter"
	KindDateWithinDays Kind = "dateWithinDays"
	KindTagIntersects  Kind = "tagIntersects"
	KindBoolEquals     Kind = "boolEquals"
)

// All is the sentinel value that disables an equals predicate.
const All = "all"

// Predicate is one condition of a filter spec.
//
// Field names the record field the predicate reads. Fields adds more fields;
// contains matches when any of them matches and the other built-in kinds use
// only the first target.
type Predicate struct {
	Field  string   `json:"field,omitempty"`
	Fields []string `json:"fields,omitempty"`
	Kind   Kind     `json:"kind"`
	Value  any      `json:"value"`
}

// Targets returns Field followed by Fields, skipping empty names.
func (p Predicate) Targets() []string {
	targets := make([]string, 0, 1+len(p.Fields))
	if p.Field != "" {
		targets = append(targets, p.Field)
	}

	for _, f := range p.Fields {
		if f != "" {
			targets = append(targets, f)
		}
	}

	return targets
}

// Test reports whether the values looked up for a predicate's targets (in
// [Predicate.Targets] order) satisfy it. Tests must not retain values.
type Test func(values []Value) bool

// Builder compiles a predicate into a [Test] once per query. Returning a nil
// Test and a nil error disables the predicate. Errors are reported to the
// caller wrapped in a [FilterError].
type Builder func(p Predicate, now time.Time) (Test, error)

func builtinPredicates() map[Kind]Builder {
	return map[Kind]Builder{
		KindEquals:         buildEquals,
		KindContains:       buildContains,
		KindDateOnOrAfter:  buildDateOnOrAfter,
		KindDateWithinDays: buildDateWithinDays,
		KindTagIntersects:  buildTagIntersects,
		KindBoolEquals:     buildBoolEquals,
	}
}

func buildEquals(p Predicate, _ time.Time) (Test, error) {
	if s, ok := p.Value.(string); ok && s == All {
		return nil, nil
	}

	want := FromAny(p.Value)

	switch want.Type() {
	case TypeList:
		return nil, fmt.Errorf("%w: equals needs a scalar, got a list", errBadValue)
	case TypeNumber:
		return func(values []Value) bool {
			v := values[0]
			if v.Type() == TypeList {
				return slices.Contains(v.Strings(), want.Text())
			}

			return v.Float() == want.num
		}, nil
	case TypeBool:
		return func(values []Value) bool {
			return values[0].Truth() == want.b
		}, nil
	case TypeDate:
		return func(values []Value) bool {
			t, _ := values[0].Time()

			return t.Equal(want.t)
		}, nil
	default:
		// Strings and nil compare against the field's text; a missing field reads as "".
		text := want.Text()

		return func(values []Value) bool {
			v := values[0]
			if v.Type() == TypeList {
				return slices.Contains(v.Strings(), text)
			}

			return v.Text() == text
		}, nil
	}
}

func buildContains(p Predicate, _ time.Time) (Test, error) {
	needle, err := scalarText(p.Value)
	if err != nil {
		return nil, err
	}

	if needle == "" {
		return nil, nil
	}

	// A Caser keeps state; each compiled query gets its own.
	folder := cases.Fold()
	needle = folder.String(needle)

	return func(values []Value) bool {
		for _, v := range values {
			if v.Type() == TypeList {
				for _, item := range v.Strings() {
					if strings.Contains(folder.String(item), needle) {
						return true
					}
				}

				continue
			}

			if strings.Contains(folder.String(v.Text()), needle) {
				return true
			}
		}

		return false
	}, nil
}

func buildDateOnOrAfter(p Predicate, _ time.Time) (Test, error) {
	cutoff, ok := FromAny(p.Value).Time()
	if !ok {
		return nil, fmt.Errorf("%w: %v is not a date", errBadValue, p.Value)
	}

	return func(values []Value) bool {
		t, _ := values[0].Time()

		return !t.Before(cutoff)
	}, nil
}

func buildDateWithinDays(p Predicate, now time.Time) (Test, error) {
	days, err := wholeNumber(p.Value)
	if err != nil {
		return nil, err
	}

	if days < 0 {
		return nil, fmt.Errorf("%w: day count %d is negative", errBadValue, days)
	}

	today := dayNumber(now)

	return func(values []Value) bool {
		t, _ := values[0].Time()

		diff := dayNumber(t) - today
		if diff < 0 {
			diff = -diff
		}

		return diff <= days
	}, nil
}

func buildTagIntersects(p Predicate, _ time.Time) (Test, error) {
	var set []string

	switch v := p.Value.(type) {
	case nil:
	case string:
		set = splitList(v)
	case []string:
		set = v
	case []any:
		set = FromAny(v).Strings()
	default:
		return nil, fmt.Errorf("%w: tagIntersects needs a list of tags, got %T", errBadValue, p.Value)
	}

	if len(set) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(set))
	for _, tag := range set {
		wanted[tag] = struct{}{}
	}

	return func(values []Value) bool {
		for _, tag := range values[0].Strings() {
			if _, ok := wanted[tag]; ok {
				return true
			}
		}

		return false
	}, nil
}

func buildBoolEquals(p Predicate, _ time.Time) (Test, error) {
	var want bool

	switch v := p.Value.(type) {
	case bool:
		want = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", errBadValue, v)
		}

		want = parsed
	default:
		return nil, fmt.Errorf("%w: boolEquals needs a boolean, got %T", errBadValue, p.Value)
	}

	return func(values []Value) bool {
		return values[0].Truth() == want
	}, nil
}

func scalarText(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []string, []any:
		return "", fmt.Errorf("%w: expected text, got a list", errBadValue)
	default:
		return FromAny(val).Text(), nil
	}
}

func wholeNumber(v any) (int, error) {
	var f float64

	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", errBadValue, val.String())
		}

		f = parsed
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a whole number", errBadValue, val)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: expected a day count, got %T", errBadValue, v)
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %v is not a whole number", errBadValue, f)
	}

	return int(f), nil
}

// dayNumber counts calendar days since the epoch, using t's own location so
// a date-only value stays on the day it names.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()

	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func splitList(s string) []string {
	parts := strings.Split(s, ",")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
