package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stmarys-jajpur/admitform/internal/version"
)

// Application branding constants
const (
	AppName    = "ST. MARY'S ADMISSION DESK"
	WebsiteURL = "stmarysjajpurroad.com"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
	labelWidth       = 26  // Field label column
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#1E3A8A") // Navy
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	AccentColor    = lipgloss.Color("#D4A017") // Gold
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#3B5BDB") // Light navy
	HighlightColor = lipgloss.Color("#D4A017") // Gold (same as accent)
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true).
			Padding(1, 0, 0, 0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			Underline(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(labelWidth)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true).
				Width(labelWidth)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true)

	RequiredMarkStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	NoteStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(2)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Background(AccentColor).
			Bold(true).
			Padding(0, 1)

	DoneTabStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Strikethrough(true).
				Padding(0, 2)

	GateReasonStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(2)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	ToastStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 2)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(AccentColor).
			Padding(1, 4).
			Align(lipgloss.Center)

	SuccessBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(SecondaryColor).
			Padding(1, 3)

	InfoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2).
			MarginTop(1)

	InlineEditorStyle = lipgloss.NewStyle().
				Border(lipgloss.Border{
			Top:    "━",
			Bottom: "━",
			Left:   "┃",
			Right:  "┃",
		}).
		BorderForeground(AccentColor).
		Padding(0, 1)
)

// sectionIcons maps icon references to terminal glyphs
var sectionIcons = map[string]string{
	"user":        "👤",
	"users":       "👪",
	"phone":       "📞",
	"map-pin":     "📍",
	"credit-card": "💳",
	"file-text":   "📝",
}

// iconFor returns the glyph for an icon reference, or a bullet
func iconFor(ref string) string {
	if glyph, ok := sectionIcons[ref]; ok {
		return glyph
	}
	return "•"
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderButton renders an action, struck through when disabled
func RenderButton(label string, enabled bool) string {
	if !enabled {
		return DisabledButtonStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

// BuildHeaderContent creates header content with app name and website
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(WebsiteURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps every screen: header, content and a
// footer with the context help, inside a bordered full-terminal panel.
func RenderApplicationContainer(content, footerText string, terminalWidth, terminalHeight int) string {
	width := terminalWidth
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	height := terminalHeight
	if height < 10 {
		height = 10
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(footerText),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderOverlay centers modal content over a dimmed screen
func RenderOverlay(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
