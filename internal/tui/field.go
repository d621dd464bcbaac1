package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
)

const dateInputFormat = "2006-01-02"

// fieldWidget is one interactive field on a wizard step. Widgets translate
// keystrokes into wizard actions; they never talk to the controller directly.
type fieldWidget interface {
	Name() string
	Focus() tea.Cmd
	Blur()
	SetWidth(width int)
	// Update consumes a message and returns any actions the edit produced.
	Update(msg tea.Msg) (tea.Cmd, []wizard.Action)
	// HandleTab gives the widget a chance to move focus internally.
	// Returns true if the tab was consumed.
	HandleTab(forward bool) bool
	View() string
	// Sync refreshes the widget's display from the canonical value, used
	// after hydration so widgets show loaded draft data.
	Sync(v wizard.Value)
}

// newFieldWidget builds the widget for a schema field.
func newFieldWidget(f *schema.Field) fieldWidget {
	switch f.Kind {
	case schema.KindText:
		return newTextField(f)
	case schema.KindNumber:
		return newNumberField(f)
	case schema.KindNumberRange:
		return newNumberRangeField(f)
	case schema.KindDateRange:
		return newDateRangeField(f)
	case schema.KindChoice:
		return newOptionField(f, false)
	case schema.KindStringSet:
		return newOptionField(f, true)
	case schema.KindBool:
		return newBoolField(f)
	}
	return newTextField(f)
}

// newStyledInput creates a textinput with the shared wizard styling.
func newStyledInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = ""

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorText),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
			Prompt:      lipgloss.NewStyle().Foreground(colorBorderFocused),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorSubtext0),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
			Prompt:      lipgloss.NewStyle().Foreground(colorSurface2),
		},
		Cursor: textinput.CursorStyle{
			Color: colorPrimary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)
	input.SetWidth(50)
	return input
}

// ---- text ----

type textField struct {
	field   *schema.Field
	input   textinput.Model
	focused bool
}

func newTextField(f *schema.Field) *textField {
	return &textField{field: f, input: newStyledInput("Type here...")}
}

func (t *textField) Name() string        { return t.field.Name }
func (t *textField) Focus() tea.Cmd      { t.focused = true; return t.input.Focus() }
func (t *textField) Blur()               { t.focused = false; t.input.Blur() }
func (t *textField) SetWidth(width int)  { t.input.SetWidth(width) }
func (t *textField) HandleTab(bool) bool { return false }

func (t *textField) Update(msg tea.Msg) (tea.Cmd, []wizard.Action) {
	before := t.input.Value()
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)

	if t.input.Value() == before {
		return cmd, nil
	}
	return cmd, []wizard.Action{wizard.SetField{Name: t.field.Name, Value: textValue(t.input.Value())}}
}

func textValue(s string) wizard.Value {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return wizard.Text(s)
}

func (t *textField) View() string {
	return t.input.View()
}

func (t *textField) Sync(v wizard.Value) {
	if text, ok := v.(wizard.Text); ok {
		t.input.SetValue(string(text))
	} else if v == nil {
		t.input.SetValue("")
	}
}

// SetText replaces the content, used when an external editor returns.
func (t *textField) SetText(s string) []wizard.Action {
	t.input.SetValue(s)
	return []wizard.Action{wizard.SetField{Name: t.field.Name, Value: textValue(s)}}
}

// ---- number ----

type numberField struct {
	field    *schema.Field
	input    textinput.Model
	parseErr string
	focused  bool
}

func newNumberField(f *schema.Field) *numberField {
	return &numberField{field: f, input: newStyledInput("0")}
}

func (n *numberField) Name() string        { return n.field.Name }
func (n *numberField) Focus() tea.Cmd      { n.focused = true; return n.input.Focus() }
func (n *numberField) Blur()               { n.focused = false; n.input.Blur() }
func (n *numberField) SetWidth(width int)  { n.input.SetWidth(width) }
func (n *numberField) HandleTab(bool) bool { return false }

func (n *numberField) Update(msg tea.Msg) (tea.Cmd, []wizard.Action) {
	before := n.input.Value()
	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)

	raw := strings.TrimSpace(n.input.Value())
	if raw == before {
		return cmd, nil
	}

	if raw == "" {
		n.parseErr = ""
		return cmd, []wizard.Action{wizard.SetField{Name: n.field.Name, Value: nil}}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Keep the last valid value in the store; just flag the input.
		n.parseErr = "must be a number"
		return cmd, nil
	}
	n.parseErr = ""
	return cmd, []wizard.Action{wizard.SetField{Name: n.field.Name, Value: wizard.Number(f)}}
}

func (n *numberField) View() string {
	view := n.input.View()
	if n.parseErr != "" {
		view += "\n" + styleFieldError.Render("✗ "+n.parseErr)
	}
	return view
}

func (n *numberField) Sync(v wizard.Value) {
	if num, ok := v.(wizard.Number); ok {
		n.input.SetValue(strconv.FormatFloat(float64(num), 'f', -1, 64))
	} else if v == nil {
		n.input.SetValue("")
	}
	n.parseErr = ""
}

// ---- number range ----

type numberRangeField struct {
	field      *schema.Field
	min        textinput.Model
	max        textinput.Model
	focusIndex int
	parseErr   string
	focused    bool
}

func newNumberRangeField(f *schema.Field) *numberRangeField {
	return &numberRangeField{
		field: f,
		min:   newStyledInput("0"),
		max:   newStyledInput("0"),
	}
}

func (r *numberRangeField) Name() string { return r.field.Name }

func (r *numberRangeField) Focus() tea.Cmd {
	r.focused = true
	r.focusIndex = 0
	r.max.Blur()
	return r.min.Focus()
}

func (r *numberRangeField) Blur() {
	r.focused = false
	r.min.Blur()
	r.max.Blur()
}

func (r *numberRangeField) SetWidth(width int) {
	half := width/2 - 4
	if half < 8 {
		half = 8
	}
	r.min.SetWidth(half)
	r.max.SetWidth(half)
}

func (r *numberRangeField) HandleTab(forward bool) bool {
	if forward && r.focusIndex == 0 {
		r.focusIndex = 1
		r.min.Blur()
		r.max.Focus()
		return true
	}
	if !forward && r.focusIndex == 1 {
		r.focusIndex = 0
		r.max.Blur()
		r.min.Focus()
		return true
	}
	return false
}

func (r *numberRangeField) Update(msg tea.Msg) (tea.Cmd, []wizard.Action) {
	beforeMin, beforeMax := r.min.Value(), r.max.Value()
	var cmd tea.Cmd
	if r.focusIndex == 0 {
		r.min, cmd = r.min.Update(msg)
	} else {
		r.max, cmd = r.max.Update(msg)
	}

	if r.min.Value() == beforeMin && r.max.Value() == beforeMax {
		return cmd, nil
	}

	minRaw := strings.TrimSpace(r.min.Value())
	maxRaw := strings.TrimSpace(r.max.Value())
	if minRaw == "" && maxRaw == "" {
		r.parseErr = ""
		return cmd, []wizard.Action{wizard.SetField{Name: r.field.Name, Value: nil}}
	}
	if minRaw == "" || maxRaw == "" {
		// Half a range is not yet a value; wait for the other side.
		r.parseErr = ""
		return cmd, nil
	}

	minVal, errMin := strconv.ParseFloat(minRaw, 64)
	maxVal, errMax := strconv.ParseFloat(maxRaw, 64)
	if errMin != nil || errMax != nil {
		r.parseErr = "must be numbers"
		return cmd, nil
	}
	r.parseErr = ""
	return cmd, []wizard.Action{wizard.SetField{
		Name:  r.field.Name,
		Value: wizard.NumberRange{Min: minVal, Max: maxVal},
	}}
}

func (r *numberRangeField) View() string {
	var b strings.Builder
	b.WriteString(styleFieldLabel.Render("Min") + " " + r.min.View())
	b.WriteString("\n")
	b.WriteString(styleFieldLabel.Render("Max") + " " + r.max.View())
	if r.parseErr != "" {
		b.WriteString("\n" + styleFieldError.Render("✗ "+r.parseErr))
	}
	return b.String()
}

func (r *numberRangeField) Sync(v wizard.Value) {
	nr, ok := v.(wizard.NumberRange)
	if !ok {
		if v == nil {
			r.min.SetValue("")
			r.max.SetValue("")
		}
		return
	}
	r.min.SetValue(strconv.FormatFloat(nr.Min, 'f', -1, 64))
	r.max.SetValue(strconv.FormatFloat(nr.Max, 'f', -1, 64))
	r.parseErr = ""
}

// ---- date range ----

type dateRangeField struct {
	field      *schema.Field
	start      textinput.Model
	end        textinput.Model
	focusIndex int
	parseErr   string
	focused    bool
}

func newDateRangeField(f *schema.Field) *dateRangeField {
	return &dateRangeField{
		field: f,
		start: newStyledInput("YYYY-MM-DD"),
		end:   newStyledInput("YYYY-MM-DD"),
	}
}

func (d *dateRangeField) Name() string { return d.field.Name }

func (d *dateRangeField) Focus() tea.Cmd {
	d.focused = true
	d.focusIndex = 0
	d.end.Blur()
	return d.start.Focus()
}

func (d *dateRangeField) Blur() {
	d.focused = false
	d.start.Blur()
	d.end.Blur()
}

func (d *dateRangeField) SetWidth(width int) {
	half := width/2 - 4
	if half < 12 {
		half = 12
	}
	d.start.SetWidth(half)
	d.end.SetWidth(half)
}

// HandleTab moves between the start and end inputs before ceding focus.
func (d *dateRangeField) HandleTab(forward bool) bool {
	if forward && d.focusIndex == 0 {
		d.focusIndex = 1
		d.start.Blur()
		d.end.Focus()
		return true
	}
	if !forward && d.focusIndex == 1 {
		d.focusIndex = 0
		d.end.Blur()
		d.start.Focus()
		return true
	}
	return false
}

func (d *dateRangeField) Update(msg tea.Msg) (tea.Cmd, []wizard.Action) {
	beforeStart, beforeEnd := d.start.Value(), d.end.Value()
	var cmd tea.Cmd
	if d.focusIndex == 0 {
		d.start, cmd = d.start.Update(msg)
	} else {
		d.end, cmd = d.end.Update(msg)
	}

	if d.start.Value() == beforeStart && d.end.Value() == beforeEnd {
		return cmd, nil
	}

	value, err := d.parse()
	if err != nil {
		d.parseErr = err.Error()
		return cmd, nil
	}
	d.parseErr = ""
	return cmd, []wizard.Action{wizard.SetField{Name: d.field.Name, Value: value}}
}

// parse builds the date range value from the two inputs. Either side may be
// empty for an open-ended range; both empty unsets the field.
func (d *dateRangeField) parse() (wizard.Value, error) {
	startRaw := strings.TrimSpace(d.start.Value())
	endRaw := strings.TrimSpace(d.end.Value())
	if startRaw == "" && endRaw == "" {
		return nil, nil
	}

	var dr wizard.DateRange
	if startRaw != "" {
		t, err := time.Parse(dateInputFormat, startRaw)
		if err != nil {
			return nil, fmt.Errorf("dates must look like 2026-01-31")
		}
		dr.Start = t
	}
	if endRaw != "" {
		t, err := time.Parse(dateInputFormat, endRaw)
		if err != nil {
			return nil, fmt.Errorf("dates must look like 2026-01-31")
		}
		dr.End = t
	}
	return dr, nil
}

func (d *dateRangeField) View() string {
	var b strings.Builder
	b.WriteString(styleFieldLabel.Render("From") + " " + d.start.View())
	b.WriteString("\n")
	b.WriteString(styleFieldLabel.Render("To  ") + " " + d.end.View())
	if d.parseErr != "" {
		b.WriteString("\n" + styleFieldError.Render("✗ "+d.parseErr))
	}
	return b.String()
}

func (d *dateRangeField) Sync(v wizard.Value) {
	dr, ok := v.(wizard.DateRange)
	if !ok {
		if v == nil {
			d.start.SetValue("")
			d.end.SetValue("")
		}
		return
	}
	if !dr.Start.IsZero() {
		d.start.SetValue(dr.Start.Format(dateInputFormat))
	}
	if !dr.End.IsZero() {
		d.end.SetValue(dr.End.Format(dateInputFormat))
	}
	d.parseErr = ""
}

// ---- choice / string set ----

// optionField renders a navigable option list. In multi mode (string_set)
// space toggles membership; in single mode (choice) selection replaces.
type optionField struct {
	field    *schema.Field
	multi    bool
	cursor   int
	selected map[string]bool
	focused  bool
}

func newOptionField(f *schema.Field, multi bool) *optionField {
	return &optionField{
		field:    f,
		multi:    multi,
		selected: make(map[string]bool),
	}
}

func (o *optionField) Name() string        { return o.field.Name }
func (o *optionField) Focus() tea.Cmd      { o.focused = true; return nil }
func (o *optionField) Blur()               { o.focused = false }
func (o *optionField) SetWidth(int)        {}
func (o *optionField) HandleTab(bool) bool { return false }

func (o *optionField) Update(msg tea.Msg) (tea.Cmd, []wizard.Action) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if o.cursor > 0 {
			o.cursor--
		}
	case "down", "j":
		if o.cursor < len(o.field.Options)-1 {
			o.cursor++
		}
	case "space", " ":
		return nil, o.toggleCursor()
	}
	return nil, nil
}

func (o *optionField) toggleCursor() []wizard.Action {
	if o.cursor >= len(o.field.Options) {
		return nil
	}
	code := o.field.Options[o.cursor].Code

	if o.multi {
		o.selected[code] = !o.selected[code]
		return []wizard.Action{wizard.ToggleField{Name: o.field.Name, Code: code}}
	}

	o.selected = map[string]bool{code: true}
	return []wizard.Action{wizard.SetField{Name: o.field.Name, Value: wizard.Choice(code)}}
}

func (o *optionField) View() string {
	var b strings.Builder
	for i, opt := range o.field.Options {
		cursor := "  "
		if o.focused && i == o.cursor {
			cursor = styleOptionCursor.Render("> ")
		}

		marker := "( )"
		if o.multi {
			marker = "[ ]"
		}
		style := styleOption
		if o.selected[opt.Code] {
			if o.multi {
				marker = "[x]"
			} else {
				marker = "(•)"
			}
			style = styleOptionSelected
		}

		b.WriteString(cursor + style.Render(marker+" "+opt.Label))
		if i < len(o.field.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (o *optionField) Sync(v wizard.Value) {
	o.selected = make(map[string]bool)
	switch val := v.(type) {
	case wizard.Choice:
		o.selected[string(val)] = true
	case wizard.StringSet:
		for _, code := range val {
			o.selected[code] = true
		}
	}
}

// ---- bool ----

type boolField struct {
	field   *schema.Field
	value   bool
	set     bool
	focused bool
}

func newBoolField(f *schema.Field) *boolField {
	return &boolField{field: f}
}

func (b *boolField) Name() string        { return b.field.Name }
func (b *boolField) Focus() tea.Cmd      { b.focused = true; return nil }
func (b *boolField) Blur()               { b.focused = false }
func (b *boolField) SetWidth(int)        {}
func (b *boolField) HandleTab(bool) bool { return false }

func (b *boolField) Update(msg tea.Msg) (tea.Cmd, []wizard.Action) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, nil
	}

	switch keyMsg.String() {
	case "space", " ", "left", "right", "h", "l":
		b.value = !b.value
		b.set = true
	case "y":
		b.value = true
		b.set = true
	case "n":
		b.value = false
		b.set = true
	default:
		return nil, nil
	}
	return nil, []wizard.Action{wizard.SetField{Name: b.field.Name, Value: wizard.Bool(b.value)}}
}

func (b *boolField) View() string {
	yes, no := "( ) Yes", "( ) No"
	yesStyle, noStyle := styleOption, styleOption
	if b.set {
		if b.value {
			yes = "(•) Yes"
			yesStyle = styleOptionSelected
		} else {
			no = "(•) No"
			noStyle = styleOptionSelected
		}
	}
	return yesStyle.Render(yes) + "   " + noStyle.Render(no)
}

func (b *boolField) Sync(v wizard.Value) {
	if val, ok := v.(wizard.Bool); ok {
		b.value = bool(val)
		b.set = true
	}
}
