package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/urls"
	"github.com/stmarys-jajpur/admitform/internal/wizard"
)

// formKeyMap defines key bindings for the form screen
type formKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	Cycle    key.Binding
	Clear    key.Binding
	Next     key.Binding
	Previous key.Binding
	Submit   key.Binding
	Back     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Next, k.Previous, k.Submit, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.Cycle, k.Clear},
		{k.Next, k.Previous, k.Submit, k.Back},
	}
}

// editorKeyMap defines key bindings while a field editor is open
type editorKeyMap struct {
	Save   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Save, k.Cancel}}
}

// fieldRow is one focusable line of a section: a field, or one subfield
// of a group field
type fieldRow struct {
	field *form.Field
	sub   *form.Subfield
}

// label returns the text shown in the label column
func (r fieldRow) label() string {
	if r.sub != nil {
		return r.field.Label + " · " + r.sub.Label
	}
	return r.field.Label
}

// FormModel is the section-by-section editor for one record
type FormModel struct {
	wizard   *wizard.Controller
	maxBytes int64 // Per attachment, 0 = unlimited
	fee      int

	Cursor   int
	Editing  bool
	FieldErr string

	input textinput.Model
	area  textarea.Model

	// Intents read and cleared by the app model
	SubmitRequested bool
	BackRequested   bool

	Help       help.Model
	Keys       formKeyMap
	EditorKeys editorKeyMap
}

// NewFormModel creates the editor for the wizard's record
func NewFormModel(w *wizard.Controller, maxBytes int64, fee int) FormModel {
	input := textinput.New()
	input.CharLimit = 512
	input.Width = 50

	area := textarea.New()
	area.SetWidth(50)
	area.SetHeight(3)
	area.ShowLineNumbers = false

	keys := formKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right", "h", "l"),
			key.WithHelp("←/→", "change option"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove file"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "pgdown"),
			key.WithHelp("tab", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("shift+tab", "pgup"),
			key.WithHelp("shift+tab", "previous"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "home"),
		),
	}

	editorKeys := editorKeyMap{
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return FormModel{
		wizard:     w,
		maxBytes:   maxBytes,
		fee:        fee,
		input:      input,
		area:       area,
		Help:       help.New(),
		Keys:       keys,
		EditorKeys: editorKeys,
	}
}

// Wizard returns the controller behind the form
func (m FormModel) Wizard() *wizard.Controller {
	return m.wizard
}

// rows returns the focusable lines of the active section
func (m FormModel) rows() []fieldRow {
	schema := m.wizard.Schema()
	var rows []fieldRow
	for _, name := range m.wizard.Section().Fields {
		f, ok := schema.Field(name)
		if !ok {
			continue
		}
		if f.Kind == form.KindGroup {
			for i := range f.Subfields {
				rows = append(rows, fieldRow{field: f, sub: &f.Subfields[i]})
			}
			continue
		}
		rows = append(rows, fieldRow{field: f})
	}
	return rows
}

// current returns the focused row
func (m FormModel) current() (fieldRow, bool) {
	rows := m.rows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return fieldRow{}, false
	}
	return rows[m.Cursor], true
}

// Update handles key presses for the form screen
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if m.Editing {
		return m.updateEditor(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.FieldErr = ""

	case key.Matches(keyMsg, m.Keys.Down):
		if m.Cursor < len(m.rows())-1 {
			m.Cursor++
		}
		m.FieldErr = ""

	case key.Matches(keyMsg, m.Keys.Next):
		if m.wizard.GoNext() {
			m.Cursor = 0
			m.FieldErr = ""
		}

	case key.Matches(keyMsg, m.Keys.Previous):
		if m.wizard.GoPrevious() {
			m.Cursor = 0
			m.FieldErr = ""
		}

	case key.Matches(keyMsg, m.Keys.Submit):
		if m.wizard.IsLast() {
			m.SubmitRequested = true
		}

	case key.Matches(keyMsg, m.Keys.Back):
		m.BackRequested = true

	case key.Matches(keyMsg, m.Keys.Clear):
		if row, ok := m.current(); ok && row.field.Kind == form.KindAttachment {
			_ = m.wizard.ClearAttachment(row.field.Name)
		}

	case key.Matches(keyMsg, m.Keys.Cycle):
		if row, ok := m.current(); ok && row.field.Kind == form.KindChoice {
			step := 1
			if keyMsg.String() == "left" || keyMsg.String() == "h" {
				step = -1
			}
			m.cycleChoice(row.field, step)
		}

	case key.Matches(keyMsg, m.Keys.Edit):
		return m.activate()
	}

	return m, nil
}

// activate acts on the focused row: flags toggle, choices cycle forward,
// everything else opens an inline editor
func (m FormModel) activate() (FormModel, tea.Cmd) {
	row, ok := m.current()
	if !ok {
		return m, nil
	}
	rec := m.wizard.Record()
	m.FieldErr = ""

	switch row.field.Kind {
	case form.KindFlag:
		_ = m.wizard.SetChecked(row.field.Name, !rec.Checked(row.field.Name))
		return m, nil

	case form.KindChoice:
		m.cycleChoice(row.field, 1)
		return m, nil

	case form.KindLongText:
		m.Editing = true
		m.area.SetValue(rec.Text(row.field.Name))
		m.area.Placeholder = row.field.Placeholder
		return m, m.area.Focus()

	case form.KindAttachment:
		m.Editing = true
		m.input.SetValue("")
		m.input.Placeholder = "Path to file, e.g. ~/Pictures/receipt.png"
		m.input.CharLimit = 4096
		m.input.CursorEnd()
		return m, m.input.Focus()

	default:
		value := rec.Text(row.field.Name)
		placeholder := row.field.Placeholder
		limit := 512
		if row.sub != nil {
			value = rec.Nested(row.field.Name, row.sub.Name)
			placeholder = row.sub.Placeholder
		} else if row.field.MaxLength > 0 {
			limit = row.field.MaxLength
		}
		if row.field.Kind == form.KindDate && placeholder == "" {
			placeholder = "YYYY-MM-DD"
		}
		m.Editing = true
		m.input.CharLimit = limit
		m.input.Placeholder = placeholder
		m.input.SetValue(value)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
}

// cycleChoice moves a choice field by step through "" and its options
func (m FormModel) cycleChoice(f *form.Field, step int) {
	values := append([]string{""}, f.Options...)
	current := m.wizard.Record().Text(f.Name)
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(values)) % len(values)
	_ = m.wizard.UpdateField(f.Name, values[idx])
}

// updateEditor handles input while a field editor is open
func (m FormModel) updateEditor(msg tea.Msg) (FormModel, tea.Cmd) {
	row, ok := m.current()
	if !ok {
		m.Editing = false
		return m, nil
	}
	multiline := row.field.Kind == form.KindLongText

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.EditorKeys.Cancel):
			m.closeEditor()
			m.FieldErr = ""
			return m, nil

		case keyMsg.String() == "ctrl+s" && multiline,
			keyMsg.String() == "enter" && !multiline:
			return m.commit(row), nil
		}
	}

	var cmd tea.Cmd
	if multiline {
		m.area, cmd = m.area.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *FormModel) closeEditor() {
	m.Editing = false
	m.input.Blur()
	m.area.Blur()
}

// commit stores the editor value. Invalid dates and unusable files keep
// the editor open with a message.
func (m FormModel) commit(row fieldRow) FormModel {
	var err error

	switch {
	case row.sub != nil:
		err = m.wizard.UpdateNestedField(row.field.Name, row.sub.Name, m.input.Value())

	case row.field.Kind == form.KindLongText:
		err = m.wizard.UpdateField(row.field.Name, m.area.Value())

	case row.field.Kind == form.KindAttachment:
		err = m.attach(row.field, m.input.Value())

	case row.field.Kind == form.KindDate:
		value := strings.TrimSpace(m.input.Value())
		if value != "" {
			if _, perr := time.Parse(form.DateLayout, value); perr != nil {
				m.FieldErr = "Enter the date as YYYY-MM-DD"
				return m
			}
		}
		err = m.wizard.UpdateField(row.field.Name, value)

	default:
		err = m.wizard.UpdateField(row.field.Name, m.input.Value())
	}

	if err != nil {
		m.FieldErr = err.Error()
		return m
	}
	m.FieldErr = ""
	m.closeEditor()
	return m
}

// attach loads the file at path into an attachment slot. An empty path
// leaves the slot as it was, like a cancelled file picker.
func (m FormModel) attach(f *form.Field, path string) error {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return nil
	}

	blob, err := attachment.NewFileBlob(path)
	if err != nil {
		return err
	}
	if !f.Accepts(blob.MIMEType()) {
		return fmt.Errorf("%s is %s, expected %s", blob.Name(), blob.MIMEType(), f.Accept)
	}
	if m.maxBytes > 0 && blob.Size > m.maxBytes {
		return fmt.Errorf("%s is %s, the limit is %s", blob.Name(), formatSize(blob.Size), formatSize(m.maxBytes))
	}
	return m.wizard.SetAttachment(f.Name, blob)
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// HelpView returns the footer help for the current mode
func (m FormModel) HelpView() string {
	if m.Editing {
		if row, ok := m.current(); ok && row.field.Kind == form.KindLongText {
			return "ctrl+s save • esc cancel"
		}
		return m.Help.View(m.EditorKeys)
	}
	return m.Help.View(m.Keys)
}

// View renders the active section
func (m FormModel) View(width int, toast string) string {
	schema := m.wizard.Schema()
	section := m.wizard.Section()
	var b strings.Builder

	b.WriteString(RenderTitle(schema.Title))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	b.WriteString(HeadingStyle.Render(section.Heading))
	b.WriteString("  ")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Step %d of %d", m.wizard.Active()+1, len(schema.Sections))))
	b.WriteString("\n")

	if notes := m.renderNotes(section); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, row := range m.rows() {
		b.WriteString(m.renderRow(i, row, width))
		b.WriteString("\n")
		if i == m.Cursor && m.FieldErr != "" {
			b.WriteString(FieldErrorStyle.Render("✗ " + m.FieldErr))
			b.WriteString("\n")
		}
	}

	if toast != "" {
		b.WriteString("\n")
		b.WriteString(ToastStyle.Render("✗ " + toast + "   (esc to dismiss)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderButtons())
	return b.String()
}

// renderTabs draws one tab per section, completed ones ticked
func (m FormModel) renderTabs() string {
	active := m.wizard.Active()
	tabs := make([]string, 0, len(m.wizard.Schema().Sections))
	for i, sec := range m.wizard.Schema().Sections {
		label := iconFor(sec.Icon) + " " + sec.Title
		switch {
		case i == active:
			tabs = append(tabs, ActiveTabStyle.Render(label))
		case i < active:
			tabs = append(tabs, DoneTabStyle.Render("✓ "+sec.Title))
		default:
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderNotes prints the section guidance. The payment section also
// carries the fee and the UPI details.
func (m FormModel) renderNotes(section *form.Section) string {
	var lines []string
	for i, note := range section.Notes {
		if len(section.Notes) > 1 {
			note = fmt.Sprintf("%d. %s", i+1, note)
		}
		lines = append(lines, NoteStyle.Render(note))
	}

	for _, name := range section.Fields {
		if name != form.FieldPayment || m.fee <= 0 {
			continue
		}
		pay := fmt.Sprintf("Fee ₹%d  •  UPI %s\nQR: %s", m.fee, urls.UPIPayment(m.fee), urls.PaymentQR(m.fee))
		lines = append(lines, InfoBoxStyle.Render(pay))
	}
	return strings.Join(lines, "\n")
}

// renderRow draws one label/value line, or the open editor
func (m FormModel) renderRow(i int, row fieldRow, width int) string {
	focused := i == m.Cursor
	labelStyle := LabelStyle
	pointer := "  "
	if focused {
		labelStyle = FocusedLabelStyle
		pointer = "▸ "
	}

	label := row.label()
	if row.field.Required {
		label += RequiredMarkStyle.Render("*")
	}
	line := pointer + labelStyle.Render(label)

	if focused && m.Editing {
		editorWidth := width - labelWidth - 10
		if editorWidth < 30 {
			editorWidth = 30
		}
		var editor string
		if row.field.Kind == form.KindLongText {
			m.area.SetWidth(editorWidth)
			editor = m.area.View()
		} else {
			m.input.Width = editorWidth
			editor = m.input.View()
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, line, InlineEditorStyle.Render(editor))
	}

	return line + m.renderValue(row, focused)
}

// renderValue formats the current value of a row for display
func (m FormModel) renderValue(row fieldRow, focused bool) string {
	rec := m.wizard.Record()
	f := row.field

	if row.sub != nil {
		return textOrPlaceholder(rec.Nested(f.Name, row.sub.Name), row.sub.Placeholder)
	}

	switch f.Kind {
	case form.KindFlag:
		if rec.Checked(f.Name) {
			return ValueStyle.Render("[x] I accept")
		}
		return PlaceholderStyle.Render("[ ] Not accepted")

	case form.KindChoice:
		value := rec.Text(f.Name)
		if value == "" {
			value = "Select"
		}
		if focused {
			return ValueStyle.Render("‹ " + value + " ›")
		}
		return textOrPlaceholder(rec.Text(f.Name), "Select")

	case form.KindAttachment:
		blob := rec.Attachment(f.Name)
		if blob == nil {
			return PlaceholderStyle.Render("No file chosen")
		}
		return ValueStyle.Render("📎 " + blob.Name() + " (" + blob.MIMEType() + ")")

	case form.KindLongText:
		value := strings.ReplaceAll(rec.Text(f.Name), "\n", ", ")
		return textOrPlaceholder(value, f.Placeholder)

	default:
		return textOrPlaceholder(rec.Text(f.Name), f.Placeholder)
	}
}

func textOrPlaceholder(value, placeholder string) string {
	if value != "" {
		return ValueStyle.Render(value)
	}
	if placeholder == "" {
		placeholder = "-"
	}
	return PlaceholderStyle.Render(placeholder)
}

// renderButtons draws Previous and Next (or Submit), with the reason a
// control is disabled underneath
func (m FormModel) renderButtons() string {
	var (
		next   string
		reason string
	)
	if m.wizard.IsLast() {
		submittable := m.wizard.IsSubmittable()
		next = RenderButton("Submit "+m.wizard.Schema().Noun+" (ctrl+s)", submittable)
		if !submittable {
			reason = m.wizard.SubmitBlocker()
		}
	} else {
		next = RenderButton("Next →", m.wizard.CanAdvance())
		reason, _ = m.wizard.Blocked()
	}

	line := "  " + RenderButton("← Previous", !m.wizard.IsFirst()) + "  " + next
	if reason != "" {
		line += "\n  " + GateReasonStyle.Render(reason)
	}
	return line
}
