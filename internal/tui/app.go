// Package tui implements the terminal preference wizard: a stepped form
// over the wizard controller with autosaving, inline validation, and a
// draft review diff.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"

	"github.com/IlyaRozhok/TaDa-sub005/internal/config"
	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/state"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

// App is the main BubbleTea model for the preference wizard.
type App struct {
	ctrl    *wizard.Controller
	schema  *schema.Schema
	snap    wizard.Snapshot
	widgets map[string]fieldWidget
	updates <-chan wizard.Snapshot

	focus     int // field index within the current step
	width     int
	height    int
	hints     bool
	dataDir   string
	notice    string // transient message shown in the footer
	lastSaved map[string]wizard.Value
	showDiff  bool
	diff      string
	done      bool
	cancelled bool
	tmpFile   string
}

// Run starts the preference wizard over the given persister and blocks
// until the user exits.
func Run(ctx context.Context, s *schema.Schema, p wizard.Persister, cfg *config.Config) error {
	updates := make(chan wizard.Snapshot, 8)
	ctrl := wizard.NewController(s, p, wizard.Options{
		AutosaveOnAdvance: cfg.Autosave,
		RequestTimeout:    cfg.RequestTimeout,
		OnUpdate: func(snap wizard.Snapshot) {
			select {
			case updates <- snap:
			default:
				// The loop will pick up a fresh snapshot on its next
				// interaction; dropping here beats blocking a save goroutine.
			}
		},
	})
	defer ctrl.Close()

	if err := ctrl.Hydrate(ctx); err != nil {
		return err
	}

	m := NewApp(ctrl, s, cfg.DataDir, updates)

	uiState := state.Load(cfg.DataDir)
	m.hints = uiState.Hints.Visible
	if uiState.LastStep > 0 {
		m.applyAction(wizard.JumpStep{Index: uiState.LastStep})
	}

	prog := tea.NewProgram(m)
	finalModel, err := prog.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	final, ok := finalModel.(*App)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}

	uiState.Hints.Visible = final.hints
	uiState.LastStep = final.snap.StepIndex
	if err := uiState.Save(cfg.DataDir); err != nil {
		logger.Warn("Failed to persist UI state: %v", err)
	}

	if final.cancelled {
		logger.Debug("Wizard cancelled at step %d", final.snap.StepIndex)
	}
	return nil
}

// NewApp creates the wizard model over an already hydrated controller.
func NewApp(ctrl *wizard.Controller, s *schema.Schema, dataDir string, updates <-chan wizard.Snapshot) *App {
	snap := ctrl.Snapshot()

	widgets := make(map[string]fieldWidget, len(s.FieldNames()))
	for _, name := range s.FieldNames() {
		w := newFieldWidget(s.Field(name))
		w.Sync(snap.Fields[name])
		widgets[name] = w
	}

	return &App{
		ctrl:      ctrl,
		schema:    s,
		snap:      snap,
		widgets:   widgets,
		updates:   updates,
		hints:     true,
		dataDir:   dataDir,
		lastSaved: snap.Fields,
		width:     80,
		height:    24,
	}
}

// Init focuses the first field and starts listening for async outcomes.
func (m *App) Init() tea.Cmd {
	return tea.Batch(m.focusField(0), m.waitForUpdate())
}

// waitForUpdate blocks on the controller's update channel.
func (m *App) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.updates
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

// stepFields returns the field names on the current step.
func (m *App) stepFields() []string {
	idx := m.snap.StepIndex
	if idx < 0 || idx >= len(m.schema.Steps) {
		return nil
	}
	return m.schema.Steps[idx].Fields
}

// focusedWidget returns the widget holding focus, or nil.
func (m *App) focusedWidget() fieldWidget {
	fields := m.stepFields()
	if m.focus < 0 || m.focus >= len(fields) {
		return nil
	}
	return m.widgets[fields[m.focus]]
}

// focusField moves focus to the field at index on the current step.
func (m *App) focusField(idx int) tea.Cmd {
	fields := m.stepFields()
	if len(fields) == 0 {
		return nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(fields) {
		idx = len(fields) - 1
	}

	var cmd tea.Cmd
	for i, name := range fields {
		if i == idx {
			cmd = m.widgets[name].Focus()
		} else {
			m.widgets[name].Blur()
		}
	}
	m.focus = idx
	return cmd
}

// applyAction routes an action through the controller and absorbs the
// resulting snapshot. Action-level failures surface as footer notices.
func (m *App) applyAction(action wizard.Action) {
	snap, err := m.ctrl.Apply(action)
	m.snap = snap
	if err != nil {
		m.notice = err.Error()
	}
}

// Update handles messages for the wizard.
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = msg.snap
		if msg.snap.State == wizard.StateSaved {
			m.lastSaved = msg.snap.Fields
		}
		if msg.snap.Submitted {
			m.done = true
		}
		return m, m.waitForUpdate()

	case editorFinishedMsg:
		if w, ok := m.widgets[msg.field].(*textField); ok {
			for _, action := range w.SetText(strings.TrimRight(msg.content, "\n")) {
				m.applyAction(action)
			}
		}
		if m.tmpFile != "" {
			_ = os.Remove(m.tmpFile)
			m.tmpFile = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := m.contentWidth()
		for _, w := range m.widgets {
			w.SetWidth(contentWidth)
		}
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	// Forward to the focused widget.
	if w := m.focusedWidget(); w != nil && !m.showDiff && !m.done {
		cmd, actions := w.Update(msg)
		for _, action := range actions {
			m.notice = ""
			m.applyAction(action)
		}
		return m, cmd
	}
	return m, nil
}

// handleKey processes global keybindings. Returns handled=false for keys
// that belong to the focused widget.
func (m *App) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.String()

	if key == "ctrl+c" {
		m.cancelled = true
		return tea.Quit, true
	}

	if m.done {
		// Any key leaves the completion screen.
		return tea.Quit, true
	}

	if m.showDiff {
		switch key {
		case "esc", "q", "ctrl+d":
			m.showDiff = false
			return nil, true
		}
		return nil, true
	}

	switch key {
	case "esc":
		if m.snap.IsFirst {
			m.cancelled = true
			return tea.Quit, true
		}
		m.notice = ""
		m.applyAction(wizard.PrevStep{})
		return m.focusField(0), true

	case "enter":
		m.notice = ""
		if m.snap.IsLast {
			m.applyAction(wizard.Submit{})
			return nil, true
		}
		before := m.snap.StepIndex
		m.applyAction(wizard.NextStep{})
		if m.snap.StepIndex != before {
			return m.focusField(0), true
		}
		// Blocked by step errors; stay and show them inline.
		m.notice = "resolve the highlighted fields to continue"
		return nil, true

	case "tab":
		if w := m.focusedWidget(); w != nil && w.HandleTab(true) {
			return nil, true
		}
		fields := m.stepFields()
		if len(fields) > 0 {
			return m.focusField((m.focus + 1) % len(fields)), true
		}
		return nil, true

	case "shift+tab":
		if w := m.focusedWidget(); w != nil && w.HandleTab(false) {
			return nil, true
		}
		fields := m.stepFields()
		if len(fields) > 0 {
			return m.focusField((m.focus - 1 + len(fields)) % len(fields)), true
		}
		return nil, true

	case "ctrl+s":
		m.notice = ""
		m.applyAction(wizard.SaveDraft{})
		return nil, true

	case "ctrl+d":
		diff, err := buildDraftDiff(m.schema, m.lastSaved, m.snap.Fields)
		if err != nil {
			m.notice = err.Error()
			return nil, true
		}
		m.diff = diff
		m.showDiff = true
		return nil, true

	case "ctrl+e":
		if w, ok := m.focusedWidget().(*textField); ok && os.Getenv("EDITOR") != "" {
			return m.openEditor(w), true
		}
		return nil, true

	case "ctrl+b":
		m.hints = !m.hints
		return nil, true
	}

	return nil, false
}

// openEditor launches $EDITOR with the text field's content.
func (m *App) openEditor(w *textField) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "tada_field_*.md")
	if err != nil {
		return nil
	}

	var content string
	if text, ok := m.snap.Fields[w.Name()].(wizard.Text); ok {
		content = string(text)
	}
	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	m.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("tada", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		m.tmpFile = ""
		return nil
	}

	field := w.Name()
	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return editorFinishedMsg{field: field, content: string(data)}
	})
}

// contentWidth is the usable width inside the modal container.
func (m *App) contentWidth() int {
	width := m.width - 14
	if width < 40 {
		width = 40
	}
	if width > 90 {
		width = 90
	}
	return width
}

// View renders the wizard UI.
func (m *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	var content string
	switch {
	case m.done:
		content = m.renderModal("Preferences Submitted", m.renderCompletion())
	case m.showDiff:
		content = m.renderModal("Review Unsaved Changes", m.renderDiff())
	default:
		title := fmt.Sprintf("TaDa Preferences - Step %d of %d: %s",
			m.snap.StepIndex+1, m.snap.TotalSteps, m.schema.Steps[m.snap.StepIndex].Title)
		content = m.renderModal(title, m.renderStep())
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderModal wraps content in the bordered container, centered on screen.
func (m *App) renderModal(title, body string) string {
	sections := []string{
		styleModalTitle.Render(title),
		"",
		body,
	}
	content := strings.Join(sections, "\n")

	modalWidth := m.width - 10
	if modalWidth < 60 {
		modalWidth = 60
	}
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalContent := styleModalContainer.Width(modalWidth).Render(content)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		modalContent,
	)
}

// renderStep renders the current step's fields plus the footer.
func (m *App) renderStep() string {
	var b strings.Builder

	fields := m.stepFields()
	for i, name := range fields {
		f := m.schema.Field(name)

		label := f.Label
		if f.Required {
			label += " *"
		}
		labelStyle := styleFieldLabel
		if i == m.focus {
			labelStyle = styleFieldLabelFocused
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(m.widgets[name].View())
		b.WriteString("\n")

		if msg := m.snap.FieldErrors[name]; msg != "" && m.showFieldError(name) {
			b.WriteString(styleFieldError.Render("✗ " + f.Label + " " + msg))
			b.WriteString("\n")
		}
		if i < len(fields)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// showFieldError decides whether a field's error renders inline. Errors on
// set values always show; "is required" on an untouched field only shows
// after a blocked advance or submit, so a fresh step isn't a wall of red.
func (m *App) showFieldError(name string) bool {
	if !wizard.IsZero(m.snap.Fields[name]) {
		return true
	}
	return m.notice != ""
}

// renderFooter renders the save-state line and the hint bar.
func (m *App) renderFooter() string {
	var b strings.Builder

	var status string
	switch m.snap.State {
	case wizard.StateSaved:
		status = styleStatusSaved.Render("✓ Draft saved")
	case wizard.StateDirty:
		status = styleStatusDirty.Render(fmt.Sprintf("● %d unsaved change(s)", len(m.snap.DirtyFields)))
	case wizard.StateSaving:
		status = styleStatusNeutral.Render("… Saving draft")
	case wizard.StateSubmitting:
		status = styleStatusNeutral.Render("… Submitting")
	case wizard.StateFailed:
		status = styleStatusFailed.Render("✗ " + m.snap.LastFailure)
	default:
		status = styleStatusNeutral.Render("New draft")
	}
	b.WriteString(status)

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(styleStatusFailed.Render(m.notice))
	}

	if m.hints {
		b.WriteString("\n")
		nextHint := "next step"
		if m.snap.IsLast {
			nextHint = "submit"
		}
		b.WriteString(renderHintBar(
			"tab", "next field",
			"enter", nextHint,
			"esc", "back",
			"ctrl+s", "save",
			"ctrl+d", "review",
			"ctrl+b", "hints",
		))
	}

	return b.String()
}

// renderDiff renders the draft review modal content.
func (m *App) renderDiff() string {
	var b strings.Builder
	b.WriteString(m.diff)
	b.WriteString("\n")
	b.WriteString(renderHintBar("esc", "close"))
	return b.String()
}

// renderCompletion renders the post-submission screen.
func (m *App) renderCompletion() string {
	var b strings.Builder
	b.WriteString(styleStatusSaved.Render("Your preferences have been submitted."))
	b.WriteString("\n\n")
	b.WriteString(styleStatusNeutral.Render("We'll start matching you with properties right away."))
	b.WriteString("\n\n")
	b.WriteString(renderHintBar("any key", "exit"))
	return b.String()
}
