package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/shell"
	"github.com/stmarys-jajpur/admitform/internal/submission"
)

type stubSubmitter struct {
	err   error
	calls int
}

func (s *stubSubmitter) Submit(_ context.Context, _ *form.Record) (*submission.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &submission.Response{Result: submission.ResultSuccess, Row: 2}, nil
}

func newApp(schema *form.Schema, sub submission.Submitter) AppModel {
	sh := shell.New(schema, sub)
	sh.SetClock(func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) })
	return NewAppModel(context.Background(), sh, Options{MaxAttachmentBytes: 1 << 20})
}

// press feeds one key through Update and returns the model and command
func press(t *testing.T, m AppModel, keys ...string) (AppModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(AppModel)
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// typeText sends each rune of s as a key press
func typeText(t *testing.T, m AppModel, s string) AppModel {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(AppModel)
	}
	return m
}

// drain runs cmd and feeds every resulting message back into the model
func drain(t *testing.T, m AppModel, cmd tea.Cmd) AppModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	updated, _ := m.Update(msg)
	return updated.(AppModel)
}

func TestLanding(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})

	view := m.View()
	for _, want := range []string{"ST. MARY'S HIGHER SECONDARY SCHOOL", "Apply for Admission"} {
		if !strings.Contains(view, want) {
			t.Errorf("landing view missing %q", want)
		}
	}

	m, _ = press(t, m, "enter")
	if m.Shell.View() != shell.ViewForm {
		t.Fatalf("View() = %v, want form", m.Shell.View())
	}
	if m.Form.Wizard() == nil {
		t.Fatal("form has no wizard after apply")
	}
	if !strings.Contains(m.View(), "Student Profile") {
		t.Error("form view missing first section heading")
	}
}

func TestLanding_Quit(t *testing.T) {
	m := newApp(form.SAT(), &stubSubmitter{})
	if _, cmd := press(t, m, "q"); cmd == nil {
		t.Error("q on landing returned no command, want tea.Quit")
	}
}

func TestForm_TextEdit(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter") // apply
	m, _ = press(t, m, "enter") // edit student name
	if !m.Form.Editing {
		t.Fatal("editor did not open")
	}
	m = typeText(t, m, "ANANYA")
	m, _ = press(t, m, "enter")

	if m.Form.Editing {
		t.Error("editor still open after enter")
	}
	if got := m.Shell.Wizard().Record().Text(form.FieldStudentName); got != "ANANYA" {
		t.Errorf("studentName = %q, want %q", got, "ANANYA")
	}
}

func TestForm_EditCancel(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter", "enter")
	m = typeText(t, m, "X")
	m, _ = press(t, m, "esc")

	if m.Form.Editing {
		t.Error("editor still open after esc")
	}
	if m.Shell.View() != shell.ViewForm {
		t.Error("esc in the editor left the form")
	}
	if got := m.Shell.Wizard().Record().Text(form.FieldStudentName); got != "" {
		t.Errorf("studentName = %q, want empty after cancel", got)
	}
}

func TestForm_ChoiceCycling(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter", "down") // class row

	m, _ = press(t, m, "right")
	rec := m.Shell.Wizard().Record()
	if got := rec.Text(form.FieldClass); got != form.ClassOptions[0] {
		t.Errorf("after right: class = %q, want %q", got, form.ClassOptions[0])
	}

	m, _ = press(t, m, "left")
	if got := rec.Text(form.FieldClass); got != "" {
		t.Errorf("after left: class = %q, want empty", got)
	}

	m, _ = press(t, m, "left")
	last := form.ClassOptions[len(form.ClassOptions)-1]
	if got := rec.Text(form.FieldClass); got != last {
		t.Errorf("wrap around: class = %q, want %q", got, last)
	}
}

func TestForm_DateValidation(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter", "down", "down", "down") // dob
	m, _ = press(t, m, "enter")
	m = typeText(t, m, "31-12-2020")
	m, _ = press(t, m, "enter")

	if !m.Form.Editing {
		t.Error("editor closed on an invalid date")
	}
	if m.Form.FieldErr == "" {
		t.Error("no field error for an invalid date")
	}
	if got := m.Shell.Wizard().Record().Text("dob"); got != "" {
		t.Errorf("dob = %q, want unchanged", got)
	}
}

func TestForm_PaymentGateAndAttachment(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter", "tab", "tab", "tab")
	if got := m.Shell.Wizard().Active(); got != 3 {
		t.Fatalf("Active() = %d, want 3", got)
	}

	m, _ = press(t, m, "tab")
	if got := m.Shell.Wizard().Active(); got != 3 {
		t.Errorf("gated section advanced to %d", got)
	}
	if !strings.Contains(m.View(), "Payment proof is required to proceed.") {
		t.Error("gate reason not shown")
	}

	path := filepath.Join(t.TempDir(), "upi.png")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		t.Fatal(err)
	}

	m, _ = press(t, m, "enter")
	m = typeText(t, m, path)
	m, _ = press(t, m, "enter")

	if m.Form.FieldErr != "" {
		t.Fatalf("attach error: %s", m.Form.FieldErr)
	}
	if !m.Shell.Wizard().Record().HasAttachment(form.FieldPayment) {
		t.Fatal("payment screenshot not attached")
	}

	m, _ = press(t, m, "tab")
	if got := m.Shell.Wizard().Active(); got != 4 {
		t.Errorf("Active() = %d, want 4 after attaching", got)
	}

	m, _ = press(t, m, "shift+tab", "x")
	if m.Shell.Wizard().Record().HasAttachment(form.FieldPayment) {
		t.Error("x did not remove the attachment")
	}
}

func TestForm_AttachmentRejected(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter", "tab", "tab", "tab", "enter")

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	m = typeText(t, m, path)
	m, _ = press(t, m, "enter")

	if m.Form.FieldErr == "" {
		t.Error("text file accepted for an image slot")
	}
	if m.Shell.Wizard().Record().HasAttachment(form.FieldPayment) {
		t.Error("rejected file was attached")
	}
}

// satReady opens the SAT form, moves to the last section and accepts the
// declaration
func satReady(t *testing.T, sub submission.Submitter) AppModel {
	t.Helper()
	m := newApp(form.SAT(), sub)
	m, _ = press(t, m, "enter", "tab", "tab")
	if !m.Shell.Wizard().IsLast() {
		t.Fatal("not on the last section")
	}
	if !strings.Contains(m.View(), "You must accept the declaration") {
		t.Error("submit blocker not shown")
	}
	m, _ = press(t, m, "space")
	if !m.Shell.Wizard().Record().Checked(form.FieldDeclaration) {
		t.Fatal("declaration not toggled")
	}
	return m
}

func TestSubmit_Success(t *testing.T) {
	sub := &stubSubmitter{}
	m := satReady(t, sub)

	m, cmd := press(t, m, "ctrl+s")
	if !m.Shell.Submitting() {
		t.Fatal("not submitting after ctrl+s")
	}
	if !strings.Contains(m.View(), "Submitting") {
		t.Error("overlay not shown while submitting")
	}

	// Input is blocked while in flight
	m, _ = press(t, m, "esc")
	if m.Shell.View() != shell.ViewForm {
		t.Error("esc left the form during submission")
	}

	m = drain(t, m, cmd)
	if sub.calls != 1 {
		t.Errorf("Submit called %d times, want 1", sub.calls)
	}
	if m.Shell.View() != shell.ViewSuccess {
		t.Fatalf("View() = %v, want success", m.Shell.View())
	}
	view := m.View()
	for _, want := range []string{"SAT Registration Complete!", "SAT-", "14 Mar 2026"} {
		if !strings.Contains(view, want) {
			t.Errorf("success view missing %q", want)
		}
	}

	m, _ = press(t, m, "enter")
	if m.Shell.View() != shell.ViewLanding {
		t.Errorf("View() = %v, want landing", m.Shell.View())
	}
}

func TestSubmit_FailureToast(t *testing.T) {
	sub := &stubSubmitter{err: submission.NewRejectedError("Sheet full")}
	m := satReady(t, sub)

	m, cmd := press(t, m, "ctrl+s")
	m = drain(t, m, cmd)

	if m.Shell.View() != shell.ViewForm {
		t.Fatalf("View() = %v, want form after failure", m.Shell.View())
	}
	if !strings.Contains(m.View(), "Sheet full") {
		t.Error("rejection message not shown")
	}
	if !m.Shell.Wizard().Record().Checked(form.FieldDeclaration) {
		t.Error("record lost after failure")
	}

	m, _ = press(t, m, "esc")
	if m.Shell.Error() != "" {
		t.Error("esc did not dismiss the toast")
	}
	if m.Shell.View() != shell.ViewForm {
		t.Error("dismissing the toast left the form")
	}
}

func TestSubmit_NotOnLastSection(t *testing.T) {
	sub := &stubSubmitter{}
	m := newApp(form.SAT(), sub)
	m, cmd := press(t, m, "enter", "ctrl+s")

	if cmd != nil || m.Shell.Submitting() {
		t.Error("ctrl+s submitted from the first section")
	}
	if sub.calls != 0 {
		t.Errorf("Submit called %d times, want 0", sub.calls)
	}
}

func TestBackDiscardsRecord(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	m, _ = press(t, m, "enter", "enter")
	m = typeText(t, m, "A")
	m, _ = press(t, m, "enter", "esc")

	if m.Shell.View() != shell.ViewLanding {
		t.Fatalf("View() = %v, want landing", m.Shell.View())
	}
	m, _ = press(t, m, "enter")
	if got := m.Shell.Wizard().Record().Text(form.FieldStudentName); got != "" {
		t.Errorf("studentName = %q, want a fresh record", got)
	}
}

func TestWindowResize(t *testing.T) {
	m := newApp(form.Admission(), &stubSubmitter{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m = updated.(AppModel)

	if m.Width != 90 || m.Height != 30 {
		t.Errorf("size = %dx%d, want 90x30", m.Width, m.Height)
	}
	if m.Landing.Height != 24 {
		t.Errorf("Landing.Height = %d, want 24", m.Landing.Height)
	}
}
