package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlyaRozhok/TaDa-sub005/internal/config"
	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/prefstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/tui"
)

var wizardFlags struct {
	apiURL     string
	token      string
	schemaFile string
	noAutosave bool
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Walk through your rental preferences step by step",
	Long: `Walk through your rental preferences step by step.

The wizard loads any saved draft from the preference store, then presents
one themed step at a time: location, budget, property features, lifestyle,
and so on. Edits autosave when you advance between steps; ctrl+s saves at
any time and ctrl+d shows a diff of unsaved changes.

Configuration is loaded with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./tada.yml
Global config: ~/.config/tada/tada.yml`,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().StringVar(&wizardFlags.apiURL, "api-url", "", "Preference store base URL")
	wizardCmd.Flags().StringVar(&wizardFlags.token, "token", "", "Bearer token for the preference store")
	wizardCmd.Flags().StringVar(&wizardFlags.schemaFile, "schema", "", "Preference schema file (default: embedded schema)")
	wizardCmd.Flags().BoolVar(&wizardFlags.noAutosave, "no-autosave", false, "Disable autosaving when advancing steps")
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags win over every config source.
	if wizardFlags.apiURL != "" {
		cfg.APIURL = wizardFlags.apiURL
	}
	if wizardFlags.token != "" {
		cfg.APIToken = wizardFlags.token
	}
	if wizardFlags.schemaFile != "" {
		cfg.SchemaFile = wizardFlags.schemaFile
	}
	if wizardFlags.noAutosave {
		cfg.Autosave = false
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	s, err := schema.Resolve(cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to load preference schema: %w", err)
	}

	client := prefstore.NewClient(cfg.APIURL, cfg.APIToken, s, cfg.RequestTimeout)
	client.SetUser(cfg.User)

	if err := tui.Run(cmd.Context(), s, client, cfg); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
