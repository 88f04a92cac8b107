package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/stmarys-jajpur/admitform/internal/config"
	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/urls"
)

// Static landing content
const (
	schoolTagline = "Service Through Excellence. Molding the leaders of tomorrow with " +
		"holistic education, moral values, and academic rigor."
	applicationDeadline = "April 30th, 2026"
)

var requiredDocuments = []string{
	"Passport Photograph",
	"Birth Certificate",
	"Aadhar Card (Student & Parents)",
	"Transfer Certificate",
}

var admissionGuidelines = []string{
	"This application is not a guarantee for admission, since the number of seats is limited. " +
		"Admission is granted based on merit and vacancy.",
	"Birth Certificate should be either in Hindi or English. Birth Certificate issued by Hospitals " +
		"and Panchayats are not accepted; it must be from the Municipal Corporation/Nagar Nigam.",
	"One photo copy of the Birth Certificate and Aadhar card is compulsory at the time of physical verification.",
	"Payment of admission fees will be done through cash only at the school office upon selection.",
	"In case of inter-state transfer, the Transfer Certificate has to be countersigned by the " +
		"appropriate education officer.",
}

// landingKeyMap defines key bindings for the landing screen
type landingKeyMap struct {
	Apply  key.Binding
	Scroll key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k landingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Scroll, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k landingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Apply, k.Scroll, k.Quit}}
}

func newLandingKeys() landingKeyMap {
	return landingKeyMap{
		Apply: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "apply"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown", "k", "j"),
			key.WithHelp("↑/↓", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// applyLabel is the call to action for a form variant
func applyLabel(schema *form.Schema) string {
	if schema.Name == "sat" {
		return "Register for SAT →"
	}
	return "Apply for Admission →"
}

// buildLandingContent renders school information, the guidelines and the
// apply action
func buildLandingContent(school *config.School, schema *form.Schema, width int) string {
	if school == nil {
		school = config.DefaultSchool()
	}
	textWidth := width - 12
	if textWidth < 40 {
		textWidth = 40
	}
	wrap := lipgloss.NewStyle().Width(textWidth).PaddingLeft(2)

	var b strings.Builder

	b.WriteString(RenderTitle(strings.ToUpper(school.Name)))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(school.Address + "  •  Academic session " + school.Session))
	b.WriteString("\n\n")
	b.WriteString(wrap.Render(schoolTagline))
	b.WriteString("\n\n")
	b.WriteString("  " + RenderButton(applyLabel(schema), true) + "  " + SubtitleStyle.Render(schema.Title))
	b.WriteString("\n")

	dates := fmt.Sprintf("Application submission deadline: %s.\nPlease ensure all documents are scanned "+
		"and ready before starting the application.", applicationDeadline)
	if school.Fee > 0 {
		dates += fmt.Sprintf("\nApplication fee: ₹%d, payable online by UPI.", school.Fee)
	}
	b.WriteString(InfoBoxStyle.Width(textWidth).Render(HeadingStyle.Render("Important Dates") + "\n" + dates))
	b.WriteString("\n")

	docs := make([]string, len(requiredDocuments))
	for i, doc := range requiredDocuments {
		docs[i] = "✓ " + doc
	}
	b.WriteString(InfoBoxStyle.Width(textWidth).Render(HeadingStyle.Render("Required Documents") + "\n" + strings.Join(docs, "\n")))
	b.WriteString("\n")

	age := "Students must meet the age requirements for their respective classes as per the " +
		"government guidelines for the academic year " + school.Session + "."
	b.WriteString(InfoBoxStyle.Width(textWidth).Render(HeadingStyle.Render("Age Criteria") + "\n" + age))
	b.WriteString("\n\n")

	b.WriteString("  " + HeadingStyle.Render("Admission Guidelines"))
	b.WriteString("\n\n")
	for i, guideline := range admissionGuidelines {
		number := lipgloss.NewStyle().Foreground(AccentColor).Bold(true).Render(fmt.Sprintf("%02d.", i+1))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  "+number+" ",
			lipgloss.NewStyle().Width(textWidth-6).Render(guideline)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  %s  •  %s", urls.SchoolWebsite, school.Address)))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  © 2026 " + school.Name + ". All rights reserved."))

	return b.String()
}
