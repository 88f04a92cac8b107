package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"y", true}, // EOF without newline
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Submit?")
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Submit? [y/N]") {
			t.Errorf("prompt missing from output: %q", out.String())
		}
	}
}

func TestRenderDetails_Order(t *testing.T) {
	got := renderDetails([]Detail{{"Student", "ANANYA"}, {"Class", "Class 3"}, {"E-Mail", "a@b"}})
	student := strings.Index(got, "ANANYA")
	class := strings.Index(got, "Class 3")
	email := strings.Index(got, "a@b")
	if !(student < class && class < email) {
		t.Errorf("details out of order:\n%s", got)
	}
}

func TestResult_Render(t *testing.T) {
	ok := NewSuccessResult("Application Submitted!", Detail{"Ref ID", "ABC123XYZ"})
	ok.Width = 80
	out := ok.Render()
	for _, want := range []string{"SUCCESS", "Application Submitted!", "ABC123XYZ"} {
		if !strings.Contains(out, want) {
			t.Errorf("success box missing %q", want)
		}
	}

	fail := NewFailureResult("Submission failed", "Sheet full", "Ask the office to open a new sheet")
	fail.Width = 80
	out = fail.Render()
	for _, want := range []string{"FAILED", "Sheet full", "Ask the office"} {
		if !strings.Contains(out, want) {
			t.Errorf("failure box missing %q", want)
		}
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress("Submitting", "Load", "Encode", "Send")
	p.Width = 80

	if p.Percent() != 0 {
		t.Errorf("Percent() = %v, want 0", p.Percent())
	}
	p.Complete(0, "")
	p.Start(1)
	p.Update(7, StepComplete, "") // out of range is ignored

	if got := p.Percent(); got < 0.33 || got > 0.34 {
		t.Errorf("Percent() = %v, want 1/3", got)
	}

	p.Fail(1, "unreadable")
	out := p.Render()
	if !strings.Contains(out, "[2/3]") || !strings.Contains(out, "(unreadable)") {
		t.Errorf("Render() = %s", out)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintHeader("Submit", "admitform submit r.yaml", Detail{"Form", "admission"})
	p.PrintError("Submission failed", "Failed to submit application.")

	out := buf.String()
	if !strings.Contains(out, "SUBMIT") || !strings.Contains(out, "admission") {
		t.Errorf("header missing from output:\n%s", out)
	}
	if !strings.Contains(out, "Failed to submit application.") {
		t.Errorf("error missing from output:\n%s", out)
	}
}

func TestClampWidth(t *testing.T) {
	for in, want := range map[int]int{10: MinTerminalWidth, 80: 80, 300: MaxContentWidth} {
		if got := clampWidth(in); got != want {
			t.Errorf("clampWidth(%d) = %d, want %d", in, got, want)
		}
	}
}
