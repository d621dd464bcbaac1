package wizard

import (
	"fmt"
	"regexp"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
)

// Engine computes per-field validation errors from the schema's declarative
// rules. Errors are data consumed by the render layer, never Go errors: a
// failing field maps to a message, a passing field is absent from the map.
type Engine struct {
	schema   *schema.Schema
	patterns map[string]*regexp.Regexp
}

// NewEngine creates a validation engine for the schema. Patterns are compiled
// once up front; the schema parser has already rejected invalid ones.
func NewEngine(s *schema.Schema) *Engine {
	patterns := make(map[string]*regexp.Regexp)
	for _, name := range s.FieldNames() {
		f := s.Field(name)
		if f.Pattern != "" {
			if re, err := regexp.Compile(f.Pattern); err == nil {
				patterns[name] = re
			}
		}
	}
	return &Engine{schema: s, patterns: patterns}
}

// Validate evaluates every schema rule against the given values and returns
// the failing fields. Unset optional fields pass; unset required fields fail.
func (e *Engine) Validate(values map[string]Value) map[string]string {
	errs := make(map[string]string)

	for _, name := range e.schema.FieldNames() {
		f := e.schema.Field(name)
		v := values[name]

		if IsZero(v) {
			if f.Required {
				errs[name] = "is required"
			}
			continue
		}

		if msg := e.checkField(f, v); msg != "" {
			errs[name] = msg
		}
	}

	// Cross-field range pairs: min must not exceed max. Surfaced on the min
	// field as a blocking error, never silently swapped.
	for _, pair := range e.schema.Pairs {
		minVal, minOK := values[pair.Min].(Number)
		maxVal, maxOK := values[pair.Max].(Number)
		if !minOK || !maxOK {
			continue
		}
		if errs[pair.Min] != "" || errs[pair.Max] != "" {
			continue
		}
		if float64(minVal) > float64(maxVal) {
			errs[pair.Min] = fmt.Sprintf("must not exceed %s", e.schema.Field(pair.Max).Label)
		}
	}

	return errs
}

// checkField applies the per-field rules to a set value.
func (e *Engine) checkField(f *schema.Field, v Value) string {
	switch val := v.(type) {
	case Text:
		if re := e.patterns[f.Name]; re != nil && !re.MatchString(string(val)) {
			return "has an invalid format"
		}

	case Number:
		if f.Min != nil && float64(val) < *f.Min {
			return fmt.Sprintf("must be at least %g", *f.Min)
		}
		if f.Max != nil && float64(val) > *f.Max {
			return fmt.Sprintf("must be at most %g", *f.Max)
		}

	case NumberRange:
		if val.Min > val.Max {
			return "minimum must not exceed maximum"
		}
		if f.Min != nil && val.Min < *f.Min {
			return fmt.Sprintf("must be at least %g", *f.Min)
		}
		if f.Max != nil && val.Max > *f.Max {
			return fmt.Sprintf("must be at most %g", *f.Max)
		}

	case DateRange:
		if !val.Start.IsZero() && !val.End.IsZero() && val.End.Before(val.Start) {
			return "end date must not precede start date"
		}

	case Choice:
		if !f.HasOption(string(val)) {
			return fmt.Sprintf("%q is not an allowed option", string(val))
		}

	case StringSet:
		for _, code := range val {
			if !f.HasOption(code) {
				return fmt.Sprintf("%q is not an allowed option", code)
			}
		}
	}
	return ""
}

// MergeServerErrors overlays server-returned field errors on client errors.
// A server error wins for its field for the current render cycle; keys the
// schema does not know are dropped, preserving the invariant that error keys
// are a subset of field names.
func (e *Engine) MergeServerErrors(client, server map[string]string) map[string]string {
	merged := make(map[string]string, len(client)+len(server))
	for name, msg := range client {
		merged[name] = msg
	}
	for name, msg := range server {
		if e.schema.Has(name) {
			merged[name] = msg
		}
	}
	return merged
}

// Blocking reports whether the error map contains an error that blocks
// submission: an error on a required field, or an inverted range pair
// (surfaced on the pair's min field). Other optional-field errors show
// inline but do not prevent the terminal submit.
func (e *Engine) Blocking(errs map[string]string) bool {
	for name := range errs {
		f := e.schema.Field(name)
		if f == nil {
			continue
		}
		if f.Required || e.isPairMin(name) {
			return true
		}
	}
	return false
}

// BlockingOnStep reports whether step carries a blocking error in errs.
func (e *Engine) BlockingOnStep(errs map[string]string, step int) bool {
	if step < 0 || step >= e.schema.NumSteps() {
		return false
	}
	for _, name := range e.schema.Steps[step].Fields {
		if errs[name] == "" {
			continue
		}
		if e.schema.Field(name).Required || e.isPairMin(name) {
			return true
		}
	}
	return false
}

func (e *Engine) isPairMin(name string) bool {
	for _, pair := range e.schema.Pairs {
		if pair.Min == name {
			return true
		}
	}
	return false
}

// CanSubmit reports whether the values carry no blocking client-side errors.
func (e *Engine) CanSubmit(values map[string]Value) bool {
	return !e.Blocking(e.Validate(values))
}
