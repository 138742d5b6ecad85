package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Type is the dynamic type of a [Value].
type Type uint8

// Value types. TypeMissing is the type of an absent field.
const (
	TypeMissing Type = iota
	TypeString
	TypeNumber
	TypeBool
	TypeDate
	TypeList
)

func (t Type) String() string {
	switch t {
	case TypeMissing:
		return "missing"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	case TypeList:
		return "list"
	default:
		return "type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is a single field value looked up from a record.
//
// The coercion methods ([Value.Text], [Value.Truth], [Value.Float],
// [Value.Time], [Value.Strings]) never fail: a missing or unconvertible value
// yields the zero value of the requested type.
type Value struct {
	typ  Type
	str  string
	num  float64
	b    bool
	t    time.Time
	list []string
}

// Missing returns the value of an absent field.
func Missing() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{typ: TypeNumber, num: n} }

// Int returns a numeric value from an int.
func Int(n int) Value { return Number(float64(n)) }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Date returns a date value. The zero time is treated as missing.
func Date(t time.Time) Value {
	if t.IsZero() {
		return Missing()
	}

	return Value{typ: TypeDate, t: t}
}

// DateString parses s with [ParseDate]. Empty or unparsable strings are missing.
func DateString(s string) Value {
	t, ok := ParseDate(s)
	if !ok {
		return Missing()
	}

	return Value{typ: TypeDate, t: t}
}

// List returns a list-of-string value. A nil list is missing.
func List(items []string) Value {
	if items == nil {
		return Missing()
	}

	return Value{typ: TypeList, list: items}
}

// FromAny converts a decoded JSON value (or a plain Go value) into a Value.
// Nil becomes missing; unknown types fall back to their fmt representation.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Missing()
	case Value:
		return val
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case float64:
		return Number(val)
	case float32:
		return Number(float64(val))
	case int:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case uint:
		return Number(float64(val))
	case uint64:
		return Number(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return String(val.String())
		}

		return Number(f)
	case time.Time:
		return Date(val)
	case *time.Time:
		if val == nil {
			return Missing()
		}

		return Date(*val)
	case *string:
		if val == nil {
			return Missing()
		}

		return String(*val)
	case []string:
		return List(val)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}

			items = append(items, FromAny(item).Text())
		}

		return List(items)
	default:
		return String(fmt.Sprint(val))
	}
}

// Type returns the dynamic type of v.
func (v Value) Type() Type { return v.typ }

// IsMissing reports whether v is an absent field.
func (v Value) IsMissing() bool { return v.typ == TypeMissing }

// Text returns v as a string. Dates without a time component format as
// YYYY-MM-DD, other dates as RFC 3339. Lists are joined with ",".
func (v Value) Text() string {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeDate:
		if isMidnight(v.t) {
			return v.t.Format(DateLayout)
		}

		return v.t.Format(time.RFC3339)
	case TypeList:
		return strings.Join(v.list, ",")
	default:
		return ""
	}
}

// Truth returns v as a boolean. Strings are parsed with [strconv.ParseBool],
// numbers are true when non-zero.
func (v Value) Truth() bool {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.str))
		if err != nil {
			return false
		}

		return b
	case TypeNumber:
		return v.num != 0
	default:
		return false
	}
}

// Float returns v as a number. Strings are parsed, bools map to 0/1 and dates
// to Unix seconds.
func (v Value) Float() float64 {
	switch v.typ {
	case TypeNumber:
		return v.num
	case TypeString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}

		return f
	case TypeBool:
		if v.b {
			return 1
		}

		return 0
	case TypeDate:
		return float64(v.t.Unix())
	default:
		return 0
	}
}

// Time returns v as a time. The second result is false when v is missing or
// cannot be read as a date, in which case the Unix epoch is returned.
func (v Value) Time() (time.Time, bool) {
	switch v.typ {
	case TypeDate:
		return v.t, true
	case TypeString:
		t, ok := ParseDate(v.str)
		if ok {
			return t, true
		}
	case TypeNumber:
		// Epoch milliseconds, the shape Date.now() leaves behind.
		return time.UnixMilli(int64(v.num)).UTC(), true
	}

	return Epoch, false
}

// Strings returns v as a list. A non-empty scalar becomes a one-element list.
func (v Value) Strings() []string {
	switch v.typ {
	case TypeList:
		return v.list
	case TypeMissing:
		return nil
	default:
		text := v.Text()
		if text == "" {
			return nil
		}

		return []string{text}
	}
}

// DateLayout is the calendar date format used for date-only fields.
const DateLayout = "2006-01-02"

// Epoch is the zero date a missing date field evaluates to in predicates.
var Epoch = time.Unix(0, 0).UTC()

var dateLayouts = []string{
	time.RFC3339Nano,
	DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate parses the date shapes found in stored records: calendar dates,
// RFC 3339 timestamps (with or without fraction) and local date-times.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()

	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
