package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
)

// Step is a single stage of a multi-step command
type Step struct {
	Name    string
	Status  StepStatus
	Message string // Optional note, e.g. "2 files, 1.4 MB"
}

// Progress is a progress bar above a step list
type Progress struct {
	Label string
	Steps []Step
	Width int
	bar   progress.Model
}

// NewProgress creates a progress display for the named steps
func NewProgress(label string, names ...string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}

	width := GetTerminalWidth()
	barWidth := width - 20
	if barWidth > 50 {
		barWidth = 50
	}

	return &Progress{
		Label: label,
		Steps: steps,
		Width: width,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
	}
}

// Update sets the status of the step at index i (0-based)
func (p *Progress) Update(i int, status StepStatus, message string) {
	if i < 0 || i >= len(p.Steps) {
		return
	}
	p.Steps[i].Status = status
	p.Steps[i].Message = message
}

// Start marks step i as running
func (p *Progress) Start(i int) { p.Update(i, StepRunning, "") }

// Complete marks step i as done
func (p *Progress) Complete(i int, message string) { p.Update(i, StepComplete, message) }

// Fail marks step i as failed
func (p *Progress) Fail(i int, message string) { p.Update(i, StepFailed, message) }

// Percent returns the share of completed steps
func (p *Progress) Percent() float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete {
			done++
		}
	}
	return float64(done) / float64(len(p.Steps))
}

// Render returns the styled progress display as a string
func (p *Progress) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
		fmt.Sprintf("%s  %3.0f%%", p.bar.ViewAs(p.Percent()), p.Percent()*100)))
	b.WriteString("\n\n")

	for i, step := range p.Steps {
		b.WriteString(p.renderStep(i, step))
		if i < len(p.Steps)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (p *Progress) renderStep(i int, step Step) string {
	var marker string
	var style lipgloss.Style
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	padding := 40 - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}

	line := fmt.Sprintf("  [%d/%d] %s%s%s", i+1, len(p.Steps),
		style.Render(step.Name), strings.Repeat(" ", padding), style.Render(marker))
	if step.Message != "" {
		line += "  " + StepNoteStyle.Render("("+step.Message+")")
	}
	return line
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}
