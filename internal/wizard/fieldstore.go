package wizard

import (
	"fmt"
	"sort"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
)

// FieldStore holds the current value of every wizard field by name and tracks
// which fields changed since the last successful save. All values are
// immutable, so snapshots never alias mutable state: a snapshot taken before
// an edit is unaffected by it.
type FieldStore struct {
	schema *schema.Schema
	values map[string]Value
	dirty  map[string]bool
}

// NewFieldStore creates an empty store over the given schema. Every declared
// field starts unset.
func NewFieldStore(s *schema.Schema) *FieldStore {
	return &FieldStore{
		schema: s,
		values: make(map[string]Value),
		dirty:  make(map[string]bool),
	}
}

// Get returns the current value of a field, which may be nil (unset).
// Fails with ErrUnknownField for names outside the schema.
func (fs *FieldStore) Get(name string) (Value, error) {
	if !fs.schema.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return fs.values[name], nil
}

// Set replaces the value of a field and marks it dirty if the value actually
// changed. A nil value unsets the field. Fails with ErrUnknownField for names
// outside the schema and ErrTypeMismatch when the value's kind does not match
// the field's declared kind.
func (fs *FieldStore) Set(name string, v Value) error {
	spec := fs.schema.Field(name)
	if spec == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if v != nil && v.Kind() != spec.Kind {
		return fmt.Errorf("%w: field %s is %s, got %s", ErrTypeMismatch, name, spec.Kind, v.Kind())
	}

	if valuesEqual(fs.values[name], v) {
		return nil
	}
	if v == nil {
		delete(fs.values, name)
	} else {
		fs.values[name] = v
	}
	fs.dirty[name] = true
	return nil
}

// Toggle flips membership of code in a string_set field: inserts it if
// absent, removes it if present. An unset field behaves as the empty set.
// Fails with ErrTypeMismatch when the field is not a string_set.
func (fs *FieldStore) Toggle(name, code string) error {
	spec := fs.schema.Field(name)
	if spec == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if spec.Kind != schema.KindStringSet {
		return fmt.Errorf("%w: cannot toggle %s field %s", ErrTypeMismatch, spec.Kind, name)
	}

	current, _ := fs.values[name].(StringSet)
	fs.values[name] = current.Toggle(code)
	fs.dirty[name] = true
	return nil
}

// Hydrate installs values loaded from a persisted draft without marking them
// dirty. Values for unknown fields or with mismatched kinds are rejected.
func (fs *FieldStore) Hydrate(values map[string]Value) error {
	for name, v := range values {
		spec := fs.schema.Field(name)
		if spec == nil {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		if v != nil && v.Kind() != spec.Kind {
			return fmt.Errorf("%w: field %s is %s, got %s", ErrTypeMismatch, name, spec.Kind, v.Kind())
		}
	}
	for name, v := range values {
		if v != nil {
			fs.values[name] = v
		}
	}
	return nil
}

// Snapshot returns a copy of the current field values. Set fields only;
// unset fields are absent from the map.
func (fs *FieldStore) Snapshot() map[string]Value {
	out := make(map[string]Value, len(fs.values))
	for name, v := range fs.values {
		out[name] = v
	}
	return out
}

// DirtyFields returns the sorted names of fields changed since the last
// successful save.
func (fs *FieldStore) DirtyFields() []string {
	out := make([]string, 0, len(fs.dirty))
	for name := range fs.dirty {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsDirty reports whether any field changed since the last successful save.
func (fs *FieldStore) IsDirty() bool {
	return len(fs.dirty) > 0
}

// ClearDirty unmarks the given fields, but only where the current value still
// equals the value in saved (the snapshot that was persisted). Fields edited
// while a save was in flight stay dirty.
func (fs *FieldStore) ClearDirty(saved map[string]Value) {
	for name := range fs.dirty {
		if valuesEqual(fs.values[name], saved[name]) {
			delete(fs.dirty, name)
		}
	}
}
