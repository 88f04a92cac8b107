package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/shell"
)

// successKeyMap defines key bindings for the success screen
type successKeyMap struct {
	Home key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k successKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k successKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Home, k.Quit}}
}

func newSuccessKeys() successKeyMap {
	return successKeyMap{
		Home: key.NewBinding(
			key.WithKeys("enter", "h"),
			key.WithHelp("enter", "back to home"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// buildSuccessContent renders the receipt of an accepted submission
func buildSuccessContent(schema *form.Schema, receipt *shell.Receipt) string {
	if receipt == nil {
		return RenderTitle(schema.SuccessTitle)
	}

	rows := [][2]string{
		{schema.RefLabel, receipt.RefID},
		{"Date", receipt.Date},
		{"Student", receipt.StudentName},
		{"Class", receipt.Class},
	}
	if receipt.Email != "" {
		rows = append(rows, [2]string{"E-Mail", receipt.Email})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "-"
		}
		lines = append(lines, LabelStyle.Width(18).Render(r[0])+ValueStyle.Bold(true).Render(value))
	}

	heading := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true).Render("✓ " + schema.SuccessTitle)
	thanks := "Thank you. Your " + receipt.Noun + " has been received. Please keep the " +
		strings.ToLower(schema.RefLabel) + " for future reference."

	box := SuccessBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		heading,
		"",
		thanks,
		"",
		strings.Join(lines, "\n"),
		"",
		SubtitleStyle.Render(receipt.Note(schema)),
	))

	return "\n" + box
}
