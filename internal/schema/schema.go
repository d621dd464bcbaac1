// Package schema defines the tenant preference field schema: the fixed set of
// named, typed fields the wizard collects, their option sets, validation
// bounds, and the grouping of fields into wizard steps. The schema is static
// configuration; the wizard core never hardcodes category membership beyond a
// field's kind.
package schema

import (
	"fmt"
	"os"
	"regexp"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"gopkg.in/yaml.v3"
)

// Kind identifies the value type of a field.
type Kind string

const (
	KindText        Kind = "text"
	KindNumber      Kind = "number"
	KindNumberRange Kind = "number_range"
	KindDateRange   Kind = "date_range"
	KindChoice      Kind = "choice"
	KindStringSet   Kind = "string_set"
	KindBool        Kind = "bool"
)

// validKinds is the closed set of kinds a schema file may declare.
var validKinds = map[Kind]bool{
	KindText:        true,
	KindNumber:      true,
	KindNumberRange: true,
	KindDateRange:   true,
	KindChoice:      true,
	KindStringSet:   true,
	KindBool:        true,
}

// Option is one selectable code in a choice or string_set field.
type Option struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// Field describes one named, typed slot in the wizard schema.
type Field struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Kind     Kind     `yaml:"kind"`
	Required bool     `yaml:"required"`
	Min      *float64 `yaml:"min,omitempty"`     // numeric lower bound
	Max      *float64 `yaml:"max,omitempty"`     // numeric upper bound
	Pattern  string   `yaml:"pattern,omitempty"` // regexp for text fields
	Options  []Option `yaml:"options,omitempty"` // choice / string_set codes
}

// HasOption reports whether code is a declared option of the field.
func (f *Field) HasOption(code string) bool {
	for _, opt := range f.Options {
		if opt.Code == code {
			return true
		}
	}
	return false
}

// Step groups a subset of fields onto one wizard page.
type Step struct {
	Title  string   `yaml:"title"`
	Fields []string `yaml:"fields"`
}

// RangePair links a min field to its max counterpart for cross-field
// validation (min must not exceed max).
type RangePair struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

// Schema is the full wizard schema: fields, step layout, and range pairs.
type Schema struct {
	Fields []Field     `yaml:"fields"`
	Steps  []Step      `yaml:"steps"`
	Pairs  []RangePair `yaml:"range_pairs"`

	byName map[string]*Field
}

// Field returns the field spec for name, or nil if the schema has no such field.
func (s *Schema) Field(name string) *Field {
	return s.byName[name]
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	return s.byName[name] != nil
}

// NumSteps returns the number of wizard steps.
func (s *Schema) NumSteps() int {
	return len(s.Steps)
}

// FieldNames returns all field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i := range s.Fields {
		names[i] = s.Fields[i].Name
	}
	return names
}

// StepForField returns the index of the step containing the named field,
// or -1 if the field is not placed on any step.
func (s *Schema) StepForField(name string) int {
	for i, step := range s.Steps {
		for _, f := range step.Fields {
			if f == name {
				return i
			}
		}
	}
	return -1
}

// Parse parses a YAML schema document and checks its internal consistency.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("schema declares no fields")
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("schema declares no steps")
	}

	s.byName = make(map[string]*Field, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if !validKinds[f.Kind] {
			return nil, fmt.Errorf("field %q has unknown kind %q", f.Name, f.Kind)
		}
		if (f.Kind == KindChoice || f.Kind == KindStringSet) && len(f.Options) == 0 {
			return nil, fmt.Errorf("field %q of kind %s has no options", f.Name, f.Kind)
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return nil, fmt.Errorf("field %q has invalid pattern: %w", f.Name, err)
			}
		}
		s.byName[f.Name] = f
	}

	// Every step field must resolve to a declared field
	for i, step := range s.Steps {
		for _, name := range step.Fields {
			if s.byName[name] == nil {
				return nil, fmt.Errorf("step %d (%s) references unknown field %q", i, step.Title, name)
			}
		}
	}

	// Range pairs must reference declared numeric fields
	for _, pair := range s.Pairs {
		for _, name := range []string{pair.Min, pair.Max} {
			f := s.byName[name]
			if f == nil {
				return nil, fmt.Errorf("range pair references unknown field %q", name)
			}
			if f.Kind != KindNumber {
				return nil, fmt.Errorf("range pair field %q must be numeric, is %s", name, f.Kind)
			}
		}
	}

	return &s, nil
}

// Resolve returns the schema to use: the file at path if given, otherwise the
// embedded default tenant schema.
func Resolve(path string) (*Schema, error) {
	if path == "" {
		logger.Debug("Using embedded default schema")
		return Parse([]byte(DefaultSchema))
	}

	logger.Debug("Loading schema from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Parse(data)
}
