package tui

import (
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

// snapshotMsg carries an asynchronous session snapshot (a save or submit
// outcome) into the update loop.
type snapshotMsg struct {
	snap wizard.Snapshot
}

// editorFinishedMsg is sent when the external editor returns with new
// content for a text field.
type editorFinishedMsg struct {
	field   string
	content string
}
