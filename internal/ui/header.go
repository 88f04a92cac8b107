package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the banner printed at the start of a command
type Header struct {
	Title   string   // e.g., "Submit Application"
	Command string   // e.g., "admitform submit record.yaml"
	Params  []Detail // e.g., Endpoint, Form
	Width   int
}

// NewHeader creates a new header sized to the terminal
func NewHeader(title, command string, params ...Detail) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	content := top
	if len(h.Params) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left,
			top,
			RenderHorizontalDivider(width-6),
			renderDetails(h.Params),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
