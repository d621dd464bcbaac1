package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUIState(t *testing.T) {
	s := DefaultUIState()
	if !s.Hints.Visible {
		t.Error("expected hint bar to be visible by default")
	}
	if s.LastStep != 0 {
		t.Errorf("expected last step 0, got %d", s.LastStep)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "missing"))
	if !s.Hints.Visible {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, stateFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	s := Load(dir)
	if !s.Hints.Visible {
		t.Error("corrupt file should yield defaults")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := &UIState{Hints: HintState{Visible: false}, LastStep: 7}
	if err := s.Save(dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := Load(dir)
	if loaded.Hints.Visible {
		t.Error("expected hint visibility to round-trip as false")
	}
	if loaded.LastStep != 7 {
		t.Errorf("expected last step 7, got %d", loaded.LastStep)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	if err := DefaultUIState().Save(dir); err != nil {
		t.Fatalf("save into missing directory failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stateFile)); err != nil {
		t.Errorf("expected state file to exist: %v", err)
	}
}
