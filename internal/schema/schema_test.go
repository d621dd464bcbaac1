package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultSchema(t *testing.T) {
	s, err := Parse([]byte(DefaultSchema))
	if err != nil {
		t.Fatalf("default schema failed to parse: %v", err)
	}

	if s.NumSteps() != 16 {
		t.Errorf("expected 16 steps, got %d", s.NumSteps())
	}

	t.Run("known fields resolve", func(t *testing.T) {
		for _, name := range []string{"min_price", "max_price", "lifestyle_features", "commute_time_walk", "ideal_living"} {
			if !s.Has(name) {
				t.Errorf("expected field %q to exist", name)
			}
		}
	})

	t.Run("unknown field does not resolve", func(t *testing.T) {
		if s.Has("favourite_colour") {
			t.Error("unexpected field resolved")
		}
		if s.Field("favourite_colour") != nil {
			t.Error("Field should return nil for unknown name")
		}
	})

	t.Run("string_set options", func(t *testing.T) {
		f := s.Field("lifestyle_features")
		if f == nil {
			t.Fatal("lifestyle_features missing")
		}
		if f.Kind != KindStringSet {
			t.Errorf("expected string_set kind, got %s", f.Kind)
		}
		if !f.HasOption("gym") {
			t.Error("expected 'gym' option")
		}
		if f.HasOption("helipad") {
			t.Error("unexpected 'helipad' option")
		}
	})

	t.Run("range pairs declared", func(t *testing.T) {
		if len(s.Pairs) != 3 {
			t.Errorf("expected 3 range pairs, got %d", len(s.Pairs))
		}
	})

	t.Run("step lookup", func(t *testing.T) {
		if got := s.StepForField("min_price"); got != 2 {
			t.Errorf("expected min_price on step 2, got %d", got)
		}
		if got := s.StepForField("ideal_living"); got != 15 {
			t.Errorf("expected ideal_living on step 15, got %d", got)
		}
	})
}

func TestParseRejectsMalformedSchemas(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no fields", "steps:\n  - title: A\n    fields: []\n"},
		{"no steps", "fields:\n  - {name: a, kind: text}\n"},
		{"unknown kind", "fields:\n  - {name: a, kind: blob}\nsteps:\n  - {title: A, fields: [a]}\n"},
		{"duplicate field", "fields:\n  - {name: a, kind: text}\n  - {name: a, kind: text}\nsteps:\n  - {title: A, fields: [a]}\n"},
		{"set without options", "fields:\n  - {name: a, kind: string_set}\nsteps:\n  - {title: A, fields: [a]}\n"},
		{"step references unknown field", "fields:\n  - {name: a, kind: text}\nsteps:\n  - {title: A, fields: [b]}\n"},
		{"bad pattern", "fields:\n  - {name: a, kind: text, pattern: '['}\nsteps:\n  - {title: A, fields: [a]}\n"},
		{"pair references unknown field", "fields:\n  - {name: a, kind: number}\nsteps:\n  - {title: A, fields: [a]}\nrange_pairs:\n  - {min: a, max: z}\n"},
		{"pair on non-numeric field", "fields:\n  - {name: a, kind: number}\n  - {name: b, kind: text}\nsteps:\n  - {title: A, fields: [a, b]}\nrange_pairs:\n  - {min: a, max: b}\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("empty path uses embedded default", func(t *testing.T) {
		s, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !s.Has("min_price") {
			t.Error("expected default schema")
		}
	})

	t.Run("file override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yml")
		content := "fields:\n  - {name: only, kind: text}\nsteps:\n  - {title: Only, fields: [only]}\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing schema file: %v", err)
		}

		s, err := Resolve(path)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if s.NumSteps() != 1 || !s.Has("only") {
			t.Error("expected override schema")
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := Resolve(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
			t.Error("expected error for missing schema file")
		}
	})
}
