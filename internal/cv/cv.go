// Package cv builds a readable "tenant CV" out of a preference draft:
// a markdown summary of everything the tenant has told us, rendered for
// the terminal.
package cv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/IlyaRozhok/TaDa-sub005/internal/prefstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

const dateFormat = "2 Jan 2006"

// Markdown builds the CV document from the draft values. Steps with no
// answered fields are skipped, so a sparse draft produces a short CV.
func Markdown(s *schema.Schema, fields map[string]wizard.Value) string {
	var b strings.Builder
	b.WriteString("# Tenant CV\n")

	for _, step := range s.Steps {
		var lines []string
		for _, name := range step.Fields {
			v := fields[name]
			if wizard.IsZero(v) {
				continue
			}
			f := s.Field(name)
			lines = append(lines, fmt.Sprintf("- **%s:** %s", f.Label, formatValue(f, v)))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n## " + step.Title + "\n\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// formatValue renders a single value for the CV. Option codes are replaced
// with their labels so the document reads like prose, not an API payload.
func formatValue(f *schema.Field, v wizard.Value) string {
	switch val := v.(type) {
	case wizard.Text:
		return string(val)
	case wizard.Number:
		return fmt.Sprintf("%g", float64(val))
	case wizard.NumberRange:
		return fmt.Sprintf("%g to %g", val.Min, val.Max)
	case wizard.DateRange:
		switch {
		case val.Start.IsZero():
			return "by " + val.End.Format(dateFormat)
		case val.End.IsZero():
			return "from " + val.Start.Format(dateFormat)
		default:
			return val.Start.Format(dateFormat) + " to " + val.End.Format(dateFormat)
		}
	case wizard.Choice:
		return optionLabel(f, string(val))
	case wizard.Bool:
		if val {
			return "Yes"
		}
		return "No"
	case wizard.StringSet:
		labels := make([]string, len(val))
		for i, code := range val {
			labels[i] = optionLabel(f, code)
		}
		return strings.Join(labels, ", ")
	}
	return ""
}

func optionLabel(f *schema.Field, code string) string {
	for _, opt := range f.Options {
		if opt.Code == code {
			return opt.Label
		}
	}
	return code
}

// Render renders the CV markdown for the terminal with glamour.
// Falls back to the raw markdown if rendering fails.
func Render(markdown string, width int) string {
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		return markdown
	}

	return strings.TrimSuffix(rendered, "\n")
}

// RawJSON renders the draft's wire form as highlighted, indented JSON.
func RawJSON(s *schema.Schema, fields map[string]wizard.Value) (string, error) {
	draft, err := prefstore.EncodeDraft(s, fields)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "", err
	}

	return highlightJSON(string(data)), nil
}

// highlightJSON applies chroma highlighting with true color ANSI output.
// Falls back progressively to plain text when a component is unavailable.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	var iterator chroma.Iterator
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}

	return strings.TrimRight(buf.String(), "\n")
}
