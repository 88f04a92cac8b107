package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm prints question with a [y/N] suffix and reads one answer line.
// Anything but "y" or "yes" (any case), including EOF, is a refusal.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	prompt := lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	_, _ = fmt.Fprint(out, prompt.Render(question+" [y/N]: "))

	answer, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		_, _ = fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Cancelled."))
		return false
	}
}
