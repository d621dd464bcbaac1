// Package prefstore implements draft persistence against the TaDa preference
// store API: wire encoding with sentinel normalization, and the HTTP client
// the wizard controller drives through the wizard.Persister interface.
package prefstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

// dateFormat is the wire format for date_range endpoints.
const dateFormat = "2006-01-02"

// NoPreference is the UI-layer sentinel for "no preference" choices. It is
// normalized to absence on the wire and never transmitted literally.
const NoPreference = "no-preference"

// Draft is the wire representation of a preference snapshot: field values
// keyed by field name, with unset and sentinel values omitted entirely.
type Draft map[string]json.RawMessage

// wireRange mirrors a number_range value on the wire.
type wireRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// wireDates mirrors a date_range value on the wire.
type wireDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// EncodeDraft converts a field snapshot to its wire form. Normalization
// happens here and only here: unset fields, empty text, empty sets, and the
// "no-preference" sentinel all become absence rather than a literal marker.
func EncodeDraft(s *schema.Schema, fields map[string]wizard.Value) (Draft, error) {
	draft := make(Draft, len(fields))
	for name, v := range fields {
		if !s.Has(name) {
			return nil, fmt.Errorf("%w: %s", wizard.ErrUnknownField, name)
		}
		norm := Normalize(v)
		if norm == nil {
			continue
		}
		raw, err := encodeValue(norm)
		if err != nil {
			return nil, fmt.Errorf("encoding field %s: %w", name, err)
		}
		draft[name] = raw
	}
	return draft, nil
}

// Normalize maps a field value to the value actually transmitted, or nil for
// explicit absence: zero values and the no-preference sentinel are absent.
func Normalize(v wizard.Value) wizard.Value {
	if wizard.IsZero(v) {
		return nil
	}
	if c, ok := v.(wizard.Choice); ok && string(c) == NoPreference {
		return nil
	}
	return v
}

func encodeValue(v wizard.Value) (json.RawMessage, error) {
	switch val := v.(type) {
	case wizard.Text:
		return json.Marshal(string(val))
	case wizard.Number:
		return json.Marshal(float64(val))
	case wizard.NumberRange:
		return json.Marshal(wireRange{Min: val.Min, Max: val.Max})
	case wizard.DateRange:
		return json.Marshal(wireDates{
			Start: val.Start.Format(dateFormat),
			End:   val.End.Format(dateFormat),
		})
	case wizard.Choice:
		return json.Marshal(string(val))
	case wizard.StringSet:
		return json.Marshal([]string(val))
	case wizard.Bool:
		return json.Marshal(bool(val))
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// DecodeDraft converts a wire draft back into field values, using the schema
// to pick each field's kind. Unknown fields are dropped: the store may serve
// drafts written by a newer schema.
func DecodeDraft(s *schema.Schema, draft Draft) (map[string]wizard.Value, error) {
	fields := make(map[string]wizard.Value, len(draft))
	for name, raw := range draft {
		spec := s.Field(name)
		if spec == nil {
			continue
		}
		v, err := decodeValue(spec.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("decoding field %s: %w", name, err)
		}
		if v != nil {
			fields[name] = v
		}
	}
	return fields, nil
}

func decodeValue(kind schema.Kind, raw json.RawMessage) (wizard.Value, error) {
	switch kind {
	case schema.KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return wizard.Text(s), nil

	case schema.KindNumber:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return wizard.Number(n), nil

	case schema.KindNumberRange:
		var r wireRange
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		return wizard.NumberRange{Min: r.Min, Max: r.Max}, nil

	case schema.KindDateRange:
		var d wireDates
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		start, err := time.Parse(dateFormat, d.Start)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse(dateFormat, d.End)
		if err != nil {
			return nil, err
		}
		return wizard.DateRange{Start: start, End: end}, nil

	case schema.KindChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return wizard.Choice(s), nil

	case schema.KindStringSet:
		var codes []string
		if err := json.Unmarshal(raw, &codes); err != nil {
			return nil, err
		}
		return wizard.NewStringSet(codes...), nil

	case schema.KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return wizard.Bool(b), nil

	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}
