package tui

import (
	"encoding/json"

	"github.com/aymanbagabas/go-udiff"

	"github.com/IlyaRozhok/TaDa-sub005/internal/prefstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

// buildDraftDiff renders a unified diff between the last saved draft and the
// current one, both in their wire form so the review shows exactly what a
// save would change on the server.
func buildDraftDiff(s *schema.Schema, saved, current map[string]wizard.Value) (string, error) {
	before, err := draftJSON(s, saved)
	if err != nil {
		return "", err
	}
	after, err := draftJSON(s, current)
	if err != nil {
		return "", err
	}

	if before == after {
		return "No unsaved changes.", nil
	}
	return udiff.Unified("saved", "current", before, after), nil
}

func draftJSON(s *schema.Schema, fields map[string]wizard.Value) (string, error) {
	draft, err := prefstore.EncodeDraft(s, fields)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
