package cv

import (
	"strings"
	"testing"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(schema.DefaultSchema))
	if err != nil {
		t.Fatalf("parsing default schema: %v", err)
	}
	return s
}

func TestMarkdownIncludesAnsweredFields(t *testing.T) {
	s := testSchema(t)
	md := Markdown(s, map[string]wizard.Value{
		"address":   wizard.Text("Shoreditch, London"),
		"min_price": wizard.Number(1500),
		"max_price": wizard.Number(2800),
		"pets":      wizard.Bool(true),
		"hobbies":   wizard.NewStringSet("music"),
	})

	if !strings.HasPrefix(md, "# Tenant CV") {
		t.Errorf("expected CV heading, got %q", md[:30])
	}
	for _, want := range []string{"Shoreditch, London", "1500", "2800", "Yes"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected CV to contain %q:\n%s", want, md)
		}
	}
}

func TestMarkdownSkipsEmptySections(t *testing.T) {
	s := testSchema(t)
	md := Markdown(s, map[string]wizard.Value{
		"min_price": wizard.Number(1000),
		"max_price": wizard.Number(2000),
	})

	if !strings.Contains(md, "## Budget") {
		t.Errorf("expected budget section:\n%s", md)
	}
	if strings.Contains(md, "## Lifestyle features") {
		t.Errorf("unanswered sections should be skipped:\n%s", md)
	}
}

func TestMarkdownUsesOptionLabels(t *testing.T) {
	s := testSchema(t)
	md := Markdown(s, map[string]wizard.Value{
		"property_type": wizard.Choice("flat"),
	})

	f := s.Field("property_type")
	var label string
	for _, opt := range f.Options {
		if opt.Code == "flat" {
			label = opt.Label
		}
	}
	if label == "" {
		t.Fatal("default schema has no 'flat' option")
	}
	if !strings.Contains(md, label) {
		t.Errorf("expected option label %q in CV:\n%s", label, md)
	}
}

func TestMarkdownDateRange(t *testing.T) {
	s := testSchema(t)
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC)

	md := Markdown(s, map[string]wizard.Value{
		"move_in": wizard.DateRange{Start: start, End: end},
	})
	if !strings.Contains(md, "1 Oct 2026 to 15 Nov 2026") {
		t.Errorf("expected formatted date range:\n%s", md)
	}

	md = Markdown(s, map[string]wizard.Value{
		"move_in": wizard.DateRange{Start: start},
	})
	if !strings.Contains(md, "from 1 Oct 2026") {
		t.Errorf("expected open-ended range:\n%s", md)
	}
}

func TestRenderFallsBackGracefully(t *testing.T) {
	out := Render("# Heading\n\nbody", 40)
	if out == "" {
		t.Error("expected non-empty render output")
	}
}

func TestRawJSON(t *testing.T) {
	s := testSchema(t)
	out, err := RawJSON(s, map[string]wizard.Value{
		"min_price": wizard.Number(1500),
	})
	if err != nil {
		t.Fatalf("RawJSON failed: %v", err)
	}
	if !strings.Contains(out, "min_price") {
		t.Errorf("expected field name in output:\n%s", out)
	}
}
