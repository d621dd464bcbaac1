package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/tui/testfixtures"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

type fakePersister struct {
	mu      sync.Mutex
	saves   int
	submits int
	fields  map[string]wizard.Value
}

func (f *fakePersister) Load(ctx context.Context) (map[string]wizard.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fields == nil {
		return nil, wizard.ErrDraftNotFound
	}
	return f.fields, nil
}

func (f *fakePersister) Save(ctx context.Context, fields map[string]wizard.Value) (*wizard.ServerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.fields = fields
	return &wizard.ServerResult{}, nil
}

func (f *fakePersister) Submit(ctx context.Context, fields map[string]wizard.Value) (*wizard.ServerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	f.fields = fields
	return &wizard.ServerResult{}, nil
}

func (f *fakePersister) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakePersister) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits
}

func testApp(t *testing.T) (*App, *fakePersister, chan wizard.Snapshot) {
	t.Helper()

	s, err := schema.Parse([]byte(schema.DefaultSchema))
	if err != nil {
		t.Fatalf("parsing default schema: %v", err)
	}

	fp := &fakePersister{}
	updates := make(chan wizard.Snapshot, 16)
	ctrl := wizard.NewController(s, fp, wizard.Options{
		OnUpdate: func(snap wizard.Snapshot) { updates <- snap },
	})

	m := NewApp(ctrl, s, t.TempDir(), updates)
	m.width = testfixtures.TestTermWidth
	m.height = testfixtures.TestTermHeight
	return m, fp, updates
}

func press(m *App, msg tea.Msg) *App {
	next, _ := m.Update(msg)
	return next.(*App)
}

func typeText(m *App, text string) *App {
	for _, r := range text {
		m = press(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

func TestAppTabCyclesFields(t *testing.T) {
	m, _, _ := testApp(t)
	m.focusField(0)

	if m.focus != 0 {
		t.Fatalf("expected focus on first field, got %d", m.focus)
	}

	// Location step has two fields; tab wraps around.
	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != 1 {
		t.Errorf("expected focus 1 after tab, got %d", m.focus)
	}
	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != 0 {
		t.Errorf("expected focus to wrap to 0, got %d", m.focus)
	}
	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.focus != 1 {
		t.Errorf("expected shift+tab to wrap to 1, got %d", m.focus)
	}
}

func TestAppTypingEditsDraft(t *testing.T) {
	m, _, _ := testApp(t)
	m.applyAction(wizard.JumpStep{Index: 2}) // Budget
	m.focusField(0)

	m = typeText(m, "1500")

	snap := m.ctrl.Snapshot()
	if snap.Fields["min_price"] != wizard.Number(1500) {
		t.Errorf("expected min_price 1500, got %v", snap.Fields["min_price"])
	}
	if snap.State != wizard.StateDirty {
		t.Errorf("expected dirty state, got %v", snap.State)
	}
	found := false
	for _, name := range snap.DirtyFields {
		if name == "min_price" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected min_price in dirty fields, got %v", snap.DirtyFields)
	}
}

func TestAppBlockedAdvanceStaysPut(t *testing.T) {
	m, _, _ := testApp(t)
	m.applyAction(wizard.JumpStep{Index: 2})
	m.applyAction(wizard.SetField{Name: "min_price", Value: wizard.Number(3000)})
	m.applyAction(wizard.SetField{Name: "max_price", Value: wizard.Number(1000)})
	m.focusField(0)

	m = press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.snap.StepIndex != 2 {
		t.Errorf("expected to stay on step 2, got %d", m.snap.StepIndex)
	}
	if m.notice == "" {
		t.Error("expected a footer notice after a blocked advance")
	}
	if !strings.Contains(m.renderStep(), "must not exceed") {
		t.Error("expected inverted range error to render inline")
	}
}

func TestAppEnterAdvances(t *testing.T) {
	m, _, _ := testApp(t)
	m.focusField(0)

	m = press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.snap.StepIndex != 1 {
		t.Errorf("expected step 1 after enter, got %d", m.snap.StepIndex)
	}
	if m.focus != 0 {
		t.Errorf("expected focus reset on new step, got %d", m.focus)
	}

	m = press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.snap.StepIndex != 0 {
		t.Errorf("expected step 0 after esc, got %d", m.snap.StepIndex)
	}
}

func TestAppSaveShortcut(t *testing.T) {
	m, fp, _ := testApp(t)
	m.applyAction(wizard.JumpStep{Index: 2})
	m.focusField(0)
	m = typeText(m, "1200")

	m = press(m, tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})

	testfixtures.WaitFor(t, func() bool { return fp.saveCount() == 1 })
	testfixtures.WaitFor(t, func() bool { return m.ctrl.Snapshot().State == wizard.StateSaved })
}

func TestAppBoolToggle(t *testing.T) {
	m, _, _ := testApp(t)
	m.applyAction(wizard.JumpStep{Index: 12}) // Pets and smoking
	m.focusField(0)

	m = press(m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	snap := m.ctrl.Snapshot()
	if snap.Fields["pets"] != wizard.Bool(true) {
		t.Errorf("expected pets true after toggle, got %v", snap.Fields["pets"])
	}
}

func TestAppSetToggle(t *testing.T) {
	m, _, _ := testApp(t)
	m.applyAction(wizard.JumpStep{Index: 13}) // Hobbies
	m.focusField(0)

	// Move down one option, then toggle it on and off again.
	m = press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = press(m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	snap := m.ctrl.Snapshot()
	set, ok := snap.Fields["hobbies"].(wizard.StringSet)
	if !ok || len(set) != 1 {
		t.Fatalf("expected one hobby selected, got %v", snap.Fields["hobbies"])
	}

	m = press(m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	snap = m.ctrl.Snapshot()
	if !wizard.IsZero(snap.Fields["hobbies"]) {
		t.Errorf("expected empty set after second toggle, got %v", snap.Fields["hobbies"])
	}
}

func TestAppDiffModal(t *testing.T) {
	m, _, _ := testApp(t)
	m.applyAction(wizard.JumpStep{Index: 2})
	m.focusField(0)
	m = typeText(m, "900")

	m = press(m, tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl})
	if !m.showDiff {
		t.Fatal("expected diff modal to open")
	}
	if !strings.Contains(m.diff, "min_price") {
		t.Errorf("expected diff to mention edited field:\n%s", m.diff)
	}

	m = press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.showDiff {
		t.Error("expected esc to close the diff modal")
	}
}

func TestAppDiffWithoutChanges(t *testing.T) {
	m, _, _ := testApp(t)
	m.focusField(0)

	m = press(m, tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl})
	if !strings.Contains(m.diff, "No unsaved changes") {
		t.Errorf("expected empty diff message, got:\n%s", m.diff)
	}
}

func TestAppSubmitFlow(t *testing.T) {
	m, fp, updates := testApp(t)
	m.applyAction(wizard.SetField{Name: "min_price", Value: wizard.Number(1500)})
	m.applyAction(wizard.SetField{Name: "max_price", Value: wizard.Number(2800)})
	m.applyAction(wizard.JumpStep{Index: m.snap.TotalSteps - 1})
	m.focusField(0)

	m = press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	testfixtures.WaitFor(t, func() bool { return fp.submitCount() == 1 })
	snap := <-updates
	m = press(m, snapshotMsg{snap: snap})

	if !m.done {
		t.Fatal("expected completion state after successful submit")
	}
	if !strings.Contains(m.renderCompletion(), "submitted") {
		t.Error("expected completion screen to confirm submission")
	}

	// Any key exits the completion screen.
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected quit command from completion screen")
	}
}

func TestAppSubmitOffLastStepRejected(t *testing.T) {
	m, fp, _ := testApp(t)
	m.applyAction(wizard.SetField{Name: "min_price", Value: wizard.Number(1500)})
	m.applyAction(wizard.SetField{Name: "max_price", Value: wizard.Number(2800)})
	m.applyAction(wizard.JumpStep{Index: 5})

	m.applyAction(wizard.Submit{})
	if m.notice == "" {
		t.Error("expected a notice for submit off the final step")
	}
	if fp.submitCount() != 0 {
		t.Errorf("expected no network call, got %d", fp.submitCount())
	}
}

func TestAppHintToggle(t *testing.T) {
	m, _, _ := testApp(t)
	if !m.hints {
		t.Fatal("expected hints on by default")
	}

	m = press(m, tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl})
	if m.hints {
		t.Error("expected ctrl+b to hide hints")
	}
	if strings.Contains(m.renderFooter(), "next field") {
		t.Error("expected hint bar to disappear from footer")
	}
}

func TestAppHydratedValuesReachWidgets(t *testing.T) {
	s, err := schema.Parse([]byte(schema.DefaultSchema))
	if err != nil {
		t.Fatalf("parsing default schema: %v", err)
	}

	fp := &fakePersister{fields: map[string]wizard.Value{
		"address":   wizard.Text("Camden, London"),
		"min_price": wizard.Number(1100),
	}}
	ctrl := wizard.NewController(s, fp, wizard.Options{})
	if err := ctrl.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}

	m := NewApp(ctrl, s, t.TempDir(), make(chan wizard.Snapshot))
	w, ok := m.widgets["address"].(*textField)
	if !ok {
		t.Fatal("expected text widget for address")
	}
	if w.input.Value() != "Camden, London" {
		t.Errorf("expected hydrated address in widget, got %q", w.input.Value())
	}
}
