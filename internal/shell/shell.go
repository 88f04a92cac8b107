// Package shell holds the presentation state of the admission desk:
// which view is showing, the active wizard, the in-flight flag of a
// submission and the last error or receipt.
//
// It knows nothing about terminals. The TUI renders a Shell and forwards
// key presses to it; tests drive it directly.
package shell

import (
	"context"
	"time"

	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"github.com/stmarys-jajpur/admitform/internal/submission"
	"github.com/stmarys-jajpur/admitform/internal/wizard"
	"go.uber.org/zap"
)

// View identifies the top-level screen
type View int

const (
	// ViewLanding shows school information and the apply action
	ViewLanding View = iota
	// ViewForm shows the wizard
	ViewForm
	// ViewSuccess shows the receipt
	ViewSuccess
)

// String returns the view name
func (v View) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewForm:
		return "form"
	case ViewSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Shell is the state machine behind the screens
type Shell struct {
	schema    *form.Schema
	submitter submission.Submitter
	now       func() time.Time

	view       View
	wizard     *wizard.Controller
	submitting bool
	errMsg     string
	receipt    *Receipt
}

// New creates a shell on the landing view
func New(schema *form.Schema, submitter submission.Submitter) *Shell {
	return &Shell{
		schema:    schema,
		submitter: submitter,
		now:       time.Now,
		view:      ViewLanding,
	}
}

// SetClock replaces the time source used for new records and receipts
func (s *Shell) SetClock(now func() time.Time) {
	s.now = now
}

// View returns the current view
func (s *Shell) View() View { return s.view }

// Schema returns the form variant
func (s *Shell) Schema() *form.Schema { return s.schema }

// Wizard returns the active wizard, nil outside the form view
func (s *Shell) Wizard() *wizard.Controller { return s.wizard }

// Submitting reports whether a submission is in flight
func (s *Shell) Submitting() bool { return s.submitting }

// Error returns the message of the last failed submission
func (s *Shell) Error() string { return s.errMsg }

// Receipt returns the receipt of the accepted submission, if any
func (s *Shell) Receipt() *Receipt { return s.receipt }

// Apply opens the form with a fresh record
func (s *Shell) Apply() {
	if s.view != ViewLanding {
		return
	}
	s.wizard = wizard.New(s.schema, wizard.WithClock(s.now))
	s.errMsg = ""
	s.receipt = nil
	s.view = ViewForm
}

// Back returns to the landing view, discarding the record. It is ignored
// while a submission is in flight.
func (s *Shell) Back() {
	if s.submitting {
		return
	}
	s.wizard = nil
	s.errMsg = ""
	s.receipt = nil
	s.view = ViewLanding
}

// DismissError clears the error toast
func (s *Shell) DismissError() {
	s.errMsg = ""
}

// BeginSubmit marks a submission in flight and returns a snapshot of the
// record to send. It refuses outside the form view, while another
// submission is in flight, and while the record is not submittable.
func (s *Shell) BeginSubmit() (*form.Record, error) {
	switch {
	case s.view != ViewForm || s.wizard == nil:
		return nil, submission.NewValidationError("no form is open")
	case s.submitting:
		return nil, submission.NewValidationError("a submission is already in progress")
	case !s.wizard.IsSubmittable():
		msg := s.wizard.SubmitBlocker()
		s.errMsg = msg
		return nil, submission.NewValidationError(msg)
	}

	s.submitting = true
	s.errMsg = ""
	return s.wizard.Record().Clone(), nil
}

// FinishSubmit records the outcome of a submission started with
// BeginSubmit. Success moves to the receipt; failure keeps the record and
// shows one message.
func (s *Shell) FinishSubmit(rec *form.Record, err error) {
	s.submitting = false

	if err != nil {
		s.errMsg = submission.UserMessage(err, s.schema)
		logging.Debug("Submission failed",
			zap.String("form", s.schema.Name),
			zap.String("reason", submission.GetShortErrorMessage(err)))
		return
	}

	receipt := NewReceipt(rec, s.now())
	s.receipt = &receipt
	s.wizard = nil
	s.view = ViewSuccess
	logging.Info("Submission accepted",
		zap.String("form", s.schema.Name),
		zap.String("ref", receipt.RefID))
}

// Submit runs one whole submission synchronously
func (s *Shell) Submit(ctx context.Context) error {
	rec, err := s.BeginSubmit()
	if err != nil {
		return err
	}
	_, err = s.submitter.Submit(ctx, rec)
	s.FinishSubmit(rec, err)
	return err
}

// Submitter returns the submitter used by Submit
func (s *Shell) Submitter() submission.Submitter { return s.submitter }
