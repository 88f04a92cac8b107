package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes styled components to a writer. Commands use it for all
// non-interactive output.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Width returns the rendering width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Printf writes formatted content
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	h := NewHeader(title, command, params...)
	h.Width = p.width
	p.Println(h.Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	r := NewSuccessResult(title, details...)
	r.Width = p.width
	p.Println(r.Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	r := NewWarningResult(title, details...)
	r.Width = p.width
	p.Println(r.Render())
}

// PrintError prints a failure box with hints
func (p *Printer) PrintError(title, message string, hints ...string) {
	r := NewFailureResult(title, message, hints...)
	r.Width = p.width
	p.Println(r.Render())
}

// PrintProgress prints the current state of a progress display
func (p *Printer) PrintProgress(pr *Progress) {
	p.Println(pr.Render())
	p.Newline()
}
