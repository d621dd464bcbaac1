// Package wizard implements the tenant preference wizard core: the field
// value store, step sequencer, validation engine, and the controller that
// orchestrates them against a draft persister. The presentation layer binds
// to the controller alone and re-renders from the immutable snapshot it
// returns after every action.
package wizard

import (
	"sort"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
)

// Value is one typed field value. A nil Value means the field is unset.
// Implementations are immutable; mutation happens by replacing the value in
// the store, never in place.
type Value interface {
	Kind() schema.Kind
	Equal(other Value) bool
}

// Text is a free-text value.
type Text string

func (Text) Kind() schema.Kind { return schema.KindText }

func (t Text) Equal(other Value) bool {
	o, ok := other.(Text)
	return ok && o == t
}

// Number is a numeric value (prices, room counts, commute minutes).
type Number float64

func (Number) Kind() schema.Kind { return schema.KindNumber }

func (n Number) Equal(other Value) bool {
	o, ok := other.(Number)
	return ok && o == n
}

// NumberRange is an inclusive numeric range. Min > Max is representable and
// surfaces as a validation error rather than being silently corrected.
type NumberRange struct {
	Min float64
	Max float64
}

func (NumberRange) Kind() schema.Kind { return schema.KindNumberRange }

func (r NumberRange) Equal(other Value) bool {
	o, ok := other.(NumberRange)
	return ok && o == r
}

// DateRange is an inclusive date window, e.g. the move-in window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (DateRange) Kind() schema.Kind { return schema.KindDateRange }

func (d DateRange) Equal(other Value) bool {
	o, ok := other.(DateRange)
	return ok && o.Start.Equal(d.Start) && o.End.Equal(d.End)
}

// Choice is a single selected option code from an enumerated set.
type Choice string

func (Choice) Kind() schema.Kind { return schema.KindChoice }

func (c Choice) Equal(other Value) bool {
	o, ok := other.(Choice)
	return ok && o == c
}

// Bool is a yes/no value.
type Bool bool

func (Bool) Kind() schema.Kind { return schema.KindBool }

func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && o == b
}

// StringSet is an unordered set of option codes, stored as a sorted slice
// with no duplicates. Toggling a code inserts it if absent and removes it if
// present.
type StringSet []string

func (StringSet) Kind() schema.Kind { return schema.KindStringSet }

// NewStringSet builds a StringSet from codes, deduplicating and sorting.
func NewStringSet(codes ...string) StringSet {
	seen := make(map[string]bool, len(codes))
	out := make(StringSet, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Has reports set membership of code.
func (s StringSet) Has(code string) bool {
	i := sort.SearchStrings(s, code)
	return i < len(s) && s[i] == code
}

// Toggle returns a new set with code added if absent or removed if present.
// The receiver is never modified.
func (s StringSet) Toggle(code string) StringSet {
	i := sort.SearchStrings(s, code)
	if i < len(s) && s[i] == code {
		out := make(StringSet, 0, len(s)-1)
		out = append(out, s[:i]...)
		out = append(out, s[i+1:]...)
		return out
	}
	out := make(StringSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, code)
	out = append(out, s[i:]...)
	return out
}

func (s StringSet) Equal(other Value) bool {
	o, ok := other.(StringSet)
	if !ok || len(o) != len(s) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// valuesEqual compares two possibly-nil values.
func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// IsZero reports whether v is unset or carries its kind's empty value. Zero
// values fail required-field validation and are omitted from persisted drafts.
func IsZero(v Value) bool {
	switch val := v.(type) {
	case nil:
		return true
	case Text:
		return val == ""
	case Choice:
		return val == ""
	case StringSet:
		return len(val) == 0
	case DateRange:
		return val.Start.IsZero() && val.End.IsZero()
	default:
		// Numbers and booleans are meaningful at their zero value.
		return false
	}
}
