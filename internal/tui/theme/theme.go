// Package theme holds the shared color palette and small helpers used by
// the CLI surface.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme is the color palette for terminal output.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	BgBase    string
	FgBase    string
	Success   string
	Error     string
}

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:      "catppuccin-mocha",
		Primary:   "#cba6f7", // Mauve
		Secondary: "#b4befe", // Lavender
		BgBase:    "#1e1e2e",
		FgBase:    "#cdd6f4",
		Success:   "#a6e3a1",
		Error:     "#f38ba8",
	}
}

// ApplyGradient colors text with a left-to-right blend between two hex
// colors, one rune at a time.
func ApplyGradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		pos := 0.0
		if len(runes) > 1 {
			pos = float64(i) / float64(len(runes)-1)
		}
		color := blendHex(from, to, pos)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	return b.String()
}

// blendHex interpolates two #RRGGBB colors at pos in [0,1].
func blendHex(a, b string, pos float64) string {
	ar, ag, ab := parseHex(a)
	br, bg, bb := parseHex(b)

	r := uint8(float64(ar)*(1-pos) + float64(br)*pos)
	g := uint8(float64(ag)*(1-pos) + float64(bg)*pos)
	bl := uint8(float64(ab)*(1-pos) + float64(bb)*pos)
	return fmt.Sprintf("#%02x%02x%02x", r, g, bl)
}

func parseHex(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	if len(hex) == 6 {
		_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	}
	return r, g, b
}
