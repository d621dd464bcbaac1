package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlyaRozhok/TaDa-sub005/internal/config"
	"github.com/IlyaRozhok/TaDa-sub005/internal/cv"
	"github.com/IlyaRozhok/TaDa-sub005/internal/prefstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

var cvFlags struct {
	raw   bool
	width int
}

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Render your tenant CV from the saved draft",
	Long: `Render your tenant CV from the saved draft.

Loads the draft from the preference store and prints a readable summary of
everything you've told us, grouped the same way the wizard asks. Use --raw
to see the exact payload the store holds instead.`,
	RunE: runCV,
}

func init() {
	cvCmd.Flags().BoolVar(&cvFlags.raw, "raw", false, "Print the raw draft JSON with highlighting")
	cvCmd.Flags().IntVar(&cvFlags.width, "width", 80, "Render width for the CV")
}

func runCV(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := schema.Resolve(cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to load preference schema: %w", err)
	}

	client := prefstore.NewClient(cfg.APIURL, cfg.APIToken, s, cfg.RequestTimeout)
	client.SetUser(cfg.User)
	fields, err := client.Load(cmd.Context())
	if err != nil {
		if errors.Is(err, wizard.ErrDraftNotFound) {
			return fmt.Errorf("no saved draft yet\n\nRun 'tada wizard' to create one")
		}
		return fmt.Errorf("failed to load draft: %w", err)
	}

	if cvFlags.raw {
		out, err := cv.RawJSON(s, fields)
		if err != nil {
			return fmt.Errorf("failed to render draft: %w", err)
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(cv.Render(cv.Markdown(s, fields), cvFlags.width))
	return nil
}
