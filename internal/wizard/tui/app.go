package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stmarys-jajpur/admitform/internal/config"
	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/shell"
	"github.com/stmarys-jajpur/admitform/internal/submission"
)

// submitDoneMsg carries the outcome of a background submission
type submitDoneMsg struct {
	rec *form.Record
	err error
}

// Options configure the desk
type Options struct {
	School             *config.School
	MaxAttachmentBytes int64
	Endpoint           string // Shown in the submit overlay
}

// AppModel is the top-level model. Screen state lives in the shell; this
// model owns the widgets that render it.
type AppModel struct {
	Shell   *shell.Shell
	Options Options

	ctx context.Context

	Form    FormModel
	Landing viewport.Model
	Spinner spinner.Model

	// UI state
	Width  int
	Height int

	Help        help.Model
	LandingKeys landingKeyMap
	SuccessKeys successKeyMap
}

// NewAppModel creates the desk on the landing screen. ctx bounds
// submissions started from the UI.
func NewAppModel(ctx context.Context, sh *shell.Shell, opts Options) AppModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.School == nil {
		opts.School = config.DefaultSchool()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := AppModel{
		Shell:       sh,
		Options:     opts,
		ctx:         ctx,
		Spinner:     s,
		Width:       100,
		Height:      40,
		Help:        help.New(),
		LandingKeys: newLandingKeys(),
		SuccessKeys: newSuccessKeys(),
	}
	m.Landing = viewport.New(m.contentWidth(), m.contentHeight())
	m.Landing.SetContent(buildLandingContent(opts.School, sh.Schema(), m.contentWidth()))
	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) contentWidth() int {
	w := m.Width - 4
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < MinTerminalWidth-4 {
		w = MinTerminalWidth - 4
	}
	return w
}

func (m AppModel) contentHeight() int {
	h := m.Height - 6 // border, header and footer
	if h < 4 {
		h = 4
	}
	return h
}

// Update handles all messages and routes them to the active screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Landing.Width = m.contentWidth()
		m.Landing.Height = m.contentHeight()
		m.Landing.SetContent(buildLandingContent(m.Options.School, m.Shell.Schema(), m.contentWidth()))
		return m, nil

	case submitDoneMsg:
		m.Shell.FinishSubmit(msg.rec, msg.err)
		if m.Shell.View() != shell.ViewForm {
			m.Form = FormModel{}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Shell.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Input is blocked while a submission is in flight
		if m.Shell.Submitting() {
			return m, nil
		}
	}

	switch m.Shell.View() {
	case shell.ViewLanding:
		return m.updateLanding(msg)
	case shell.ViewForm:
		return m.updateForm(msg)
	case shell.ViewSuccess:
		return m.updateSuccess(msg)
	}
	return m, nil
}

func (m AppModel) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.LandingKeys.Apply):
			m.Shell.Apply()
			m.Form = NewFormModel(m.Shell.Wizard(), m.Options.MaxAttachmentBytes, m.Options.School.Fee)
			return m, nil
		case key.Matches(keyMsg, m.LandingKeys.Quit):
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Landing, cmd = m.Landing.Update(msg)
	return m, cmd
}

func (m AppModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// esc dismisses the error toast before it means anything else
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.Form.Editing && m.Shell.Error() != "" {
		if keyMsg.String() == "esc" {
			m.Shell.DismissError()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)

	if m.Form.BackRequested {
		m.Form.BackRequested = false
		m.Shell.Back()
		m.Landing.GotoTop()
		return m, nil
	}

	if m.Form.SubmitRequested {
		m.Form.SubmitRequested = false
		return m.startSubmit()
	}

	return m, cmd
}

// startSubmit snapshots the record and posts it in the background. When
// the shell refuses, its message is already in the toast.
func (m AppModel) startSubmit() (tea.Model, tea.Cmd) {
	rec, err := m.Shell.BeginSubmit()
	if err != nil {
		return m, nil
	}
	return m, tea.Batch(m.Spinner.Tick, submitCmd(m.ctx, m.Shell.Submitter(), rec))
}

// submitCmd runs one submission off the UI goroutine
func submitCmd(ctx context.Context, sub submission.Submitter, rec *form.Record) tea.Cmd {
	return func() tea.Msg {
		_, err := sub.Submit(ctx, rec)
		return submitDoneMsg{rec: rec, err: err}
	}
}

func (m AppModel) updateSuccess(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.SuccessKeys.Home):
			m.Shell.Back()
			m.Landing.GotoTop()
		case key.Matches(keyMsg, m.SuccessKeys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.Shell.View() {
	case shell.ViewForm:
		if m.Shell.Submitting() {
			return RenderOverlay(m.renderSubmitting(), m.Width, m.Height)
		}
		return RenderApplicationContainer(m.Form.View(m.contentWidth(), m.Shell.Error()), m.Form.HelpView(), m.Width, m.Height)

	case shell.ViewSuccess:
		return RenderApplicationContainer(buildSuccessContent(m.Shell.Schema(), m.Shell.Receipt()), m.Help.View(m.SuccessKeys), m.Width, m.Height)

	default:
		return RenderApplicationContainer(m.Landing.View(), m.Help.View(m.LandingKeys), m.Width, m.Height)
	}
}

// renderSubmitting is the blocking overlay shown while a submission runs
func (m AppModel) renderSubmitting() string {
	lines := []string{
		m.Spinner.View() + " " + lipgloss.NewStyle().Bold(true).Render("Submitting…"),
		"",
		SubtitleStyle.Render("Please wait..."),
	}
	if m.Options.Endpoint != "" {
		lines = append(lines, "", SubtitleStyle.Render(m.Options.Endpoint))
	}
	return OverlayStyle.Render(strings.Join(lines, "\n"))
}
