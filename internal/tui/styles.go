package tui

import (
	"charm.land/lipgloss/v2"
)

// Color palette (Catppuccin Mocha)
var (
	colorPrimary       = lipgloss.Color("#cba6f7") // Mauve
	colorText          = lipgloss.Color("#cdd6f4") // Text
	colorBase          = lipgloss.Color("#1e1e2e") // Base
	colorSubtext0      = lipgloss.Color("#a6adc8") // Subtext0
	colorSubtext1      = lipgloss.Color("#bac2de") // Subtext1
	colorSurface1      = lipgloss.Color("#45475a") // Surface1
	colorSurface2      = lipgloss.Color("#585b70") // Surface2
	colorGreen         = lipgloss.Color("#a6e3a1") // Green
	colorYellow        = lipgloss.Color("#f9e2af") // Yellow
	colorRed           = lipgloss.Color("#f38ba8") // Red
	colorBorderFocused = lipgloss.Color("#b4befe") // Lavender for borders
)

// Modal styles
var (
	styleModalContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorderFocused).
				Background(colorBase).
				Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Align(lipgloss.Center)
)

// Field styles
var (
	styleFieldLabel = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleFieldLabelFocused = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)

	styleFieldError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleOptionCursor = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleOptionSelected = lipgloss.NewStyle().
				Foreground(colorGreen)

	styleOption = lipgloss.NewStyle().
			Foreground(colorSubtext1)
)

// Footer styles
var (
	styleStatusSaved = lipgloss.NewStyle().
				Foreground(colorGreen)

	styleStatusDirty = lipgloss.NewStyle().
				Foreground(colorYellow)

	styleStatusFailed = lipgloss.NewStyle().
				Foreground(colorRed)

	styleStatusNeutral = lipgloss.NewStyle().
				Foreground(colorSubtext0)
)

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "next", "esc", "back")
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}
		result += styleHintKey.Render(pairs[i]) + " " + styleHintDesc.Render(pairs[i+1])
	}

	return result
}
