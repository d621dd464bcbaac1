// Package state persists small UI preferences between wizard runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
)

const stateFile = "ui-state.json"

// UIState holds wizard UI preferences that carry across runs: whether the
// keybinding hint bar is shown and which step the user last visited.
type UIState struct {
	Hints    HintState `json:"hints"`
	LastStep int       `json:"last_step"`
}

// HintState holds the hint bar visibility preference.
type HintState struct {
	Visible bool `json:"visible"`
}

// DefaultUIState returns the state for a first run: hints on, step zero.
func DefaultUIState() *UIState {
	return &UIState{Hints: HintState{Visible: true}}
}

// Load reads the UI state from dataDir. A missing or unreadable file is not
// an error; the wizard just starts from defaults.
func Load(dataDir string) *UIState {
	data, err := os.ReadFile(filepath.Join(dataDir, stateFile))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("ui state unreadable: %v", err)
		}
		return DefaultUIState()
	}

	var s UIState
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("ui state corrupt, using defaults: %v", err)
		return DefaultUIState()
	}
	return &s
}

// Save writes the state under dataDir, creating the directory if needed.
func (s *UIState) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, stateFile), data, 0644); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
