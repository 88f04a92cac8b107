package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result is a bordered outcome box
type Result struct {
	Type    ResultType
	Title   string   // e.g., "Application Submitted!"
	Details []Detail // Shown in order
	Message string   // Failure text shown to the operator
	Hints   []string // What to try next (failures only)
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title, message string, hints ...string) *Result {
	return &Result{Type: ResultFailure, Title: title, Message: message, Hints: hints, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

// AddDetail appends a detail row
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width)

	var (
		marker, label string
		titleStyle    lipgloss.Style
		border        lipgloss.Color
	)
	switch r.Type {
	case ResultFailure:
		marker, label, titleStyle, border = FailureMarker, "FAILED", ErrorTitleStyle, ErrorColor
	case ResultWarning:
		marker, label, titleStyle, border = WarningMarker, "WARNING", WarningTitleStyle, WarningColor
	default:
		marker, label, titleStyle, border = SuccessMarker, "SUCCESS", SuccessTitleStyle, SuccessColor
	}

	lines := []string{
		"",
		titleStyle.Render(fmt.Sprintf(" %s  %s  ─  %s", marker, label, r.Title)),
		"",
	}

	if r.Message != "" {
		lines = append(lines, ErrorMessageStyle.Width(width-10).Render(" "+r.Message), "")
	}
	if len(r.Details) > 0 {
		lines = append(lines, renderDetails(r.Details), "")
	}
	if len(r.Hints) > 0 {
		lines = append(lines, r.renderHints(width), "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (r *Result) renderHints(width int) string {
	lines := []string{HintTitleStyle.Render("Try:"), ""}
	for _, hint := range r.Hints {
		lines = append(lines, HintItemStyle.Render("  • "+hint))
	}

	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(1).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
