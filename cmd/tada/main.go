package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/tui/theme"
)

const (
	logoText1 = "▀█▀ ▄▀█ █▀▄ ▄▀█"
	logoText2 = " █  █▀█ █▄▀ █▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tada",
	Short: "TaDa rental preference wizard for the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

tada is the terminal client for the TaDa rental marketplace. It walks you
through your tenant preferences step by step, autosaves drafts against the
preference store, and renders your tenant CV for review.

Drafts survive interruptions: close the wizard at any point and pick up
where you left off.`

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cvCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(setupCmd)
}
