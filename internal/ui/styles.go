package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for command output, taken from the school crest
var (
	PrimaryColor = lipgloss.Color("#1E3A8A") // Navy - headers, borders
	AccentColor  = lipgloss.Color("#D4A017") // Gold - highlights
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

var (
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	DetailKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(2)

	DetailValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	StepCompleteStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	StepRunningStyle  = lipgloss.NewStyle().Foreground(WarningColor)
	StepPendingStyle  = lipgloss.NewStyle().Foreground(MutedColor)

	// StepNoteStyle is for optional notes in parentheses
	StepNoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningTitleStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	HintTitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Bold(true)

	HintItemStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Status markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

// Detail is one labelled value in a header or result box
type Detail struct {
	Key   string
	Value string
}

// renderDetails aligns keys to the longest one
func renderDetails(details []Detail) string {
	keyWidth := 0
	for _, d := range details {
		if w := lipgloss.Width(d.Key); w > keyWidth {
			keyWidth = w
		}
	}

	lines := make([]string, 0, len(details))
	for _, d := range details {
		key := DetailKeyStyle.Render(d.Key + ":" + strings.Repeat(" ", keyWidth-lipgloss.Width(d.Key)))
		lines = append(lines, key+" "+DetailValueStyle.Render(d.Value))
	}
	return strings.Join(lines, "\n")
}

// clampWidth keeps width within the supported range
func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return clampWidth(width)
}

// IsInteractive reports whether stdin is a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat("─", width))
}
