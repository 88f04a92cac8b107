package submission

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/form"
)

// ErrorType represents the category of a submission failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a transport-level failure
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request did not complete within its bound
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the endpoint refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the endpoint host could not be resolved
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx response
	ErrTypeHTTP
	// ErrTypeParse indicates the response body was not the expected JSON
	ErrTypeParse
	// ErrTypeRejected indicates the endpoint answered with a structured rejection
	ErrTypeRejected
	// ErrTypeAttachment indicates a selected file could not be read
	ErrTypeAttachment
	// ErrTypeValidation indicates the record was not eligible for submission
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeAttachment:
		return "Attachment Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// SubmitError describes why a submission did not succeed
type SubmitError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Slot       string    // Attachment slot (attachment errors only)
	FileName   string    // Attachment filename (attachment errors only)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *SubmitError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error) *SubmitError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &SubmitError{Type: ErrTypeTimeout, Message: "Request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &SubmitError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &SubmitError{Type: ErrTypeConnectionRefused, Message: "Endpoint refused connection", Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &SubmitError{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *SubmitError {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		return &SubmitError{Type: ErrTypeNetwork, Message: message}
	}
	classified.Message = message
	return classified
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(statusCode int, message string) *SubmitError {
	return &SubmitError{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *SubmitError {
	return &SubmitError{Type: ErrTypeParse, Message: message, Err: err}
}

// NewRejectedError creates an error for a structured rejection.
// message is the endpoint's own error text and may be empty.
func NewRejectedError(message string) *SubmitError {
	return &SubmitError{Type: ErrTypeRejected, Message: message}
}

// NewAttachmentError wraps an attachment read failure
func NewAttachmentError(err error) *SubmitError {
	e := &SubmitError{Type: ErrTypeAttachment, Message: "attachment could not be read", Err: err}
	var readErr *attachment.ReadError
	if errors.As(err, &readErr) {
		e.Slot = readErr.Slot
		e.FileName = readErr.FileName
	}
	return e
}

// NewValidationError creates an error for a record that may not be submitted
func NewValidationError(message string) *SubmitError {
	return &SubmitError{Type: ErrTypeValidation, Message: message}
}

func asSubmitError(err error) (*SubmitError, bool) {
	var subErr *SubmitError
	if errors.As(err, &subErr) {
		return subErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a transport failure. Non-2xx
// responses and timeouts count as network errors.
func IsNetworkError(err error) bool {
	if subErr, ok := asSubmitError(err); ok {
		switch subErr.Type {
		case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS, ErrTypeHTTP:
			return true
		}
	}
	return false
}

// IsTimeout checks if an error is a timeout
func IsTimeout(err error) bool {
	subErr, ok := asSubmitError(err)
	return ok && subErr.Type == ErrTypeTimeout
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	subErr, ok := asSubmitError(err)
	return ok && subErr.Type == ErrTypeParse
}

// IsRejected checks if the endpoint rejected the submission
func IsRejected(err error) bool {
	subErr, ok := asSubmitError(err)
	return ok && subErr.Type == ErrTypeRejected
}

// IsAttachmentError checks if an attachment could not be read
func IsAttachmentError(err error) bool {
	subErr, ok := asSubmitError(err)
	return ok && subErr.Type == ErrTypeAttachment
}

// IsValidationError checks if the record was refused before any network activity
func IsValidationError(err error) bool {
	subErr, ok := asSubmitError(err)
	return ok && subErr.Type == ErrTypeValidation
}

// RejectionMessage returns the endpoint's rejection text, if err is a
// rejection that carried one.
func RejectionMessage(err error) (string, bool) {
	subErr, ok := asSubmitError(err)
	if !ok || subErr.Type != ErrTypeRejected || subErr.Message == "" {
		return "", false
	}
	return subErr.Message, true
}

// FallbackRejection is shown when the endpoint rejects without a message
const FallbackRejection = "Submission failed on server"

// UserMessage converts any submission failure into the single string shown
// to the applicant. The schema supplies the noun ("application" or
// "registration") and attachment labels; it may be nil.
func UserMessage(err error, schema *form.Schema) string {
	if err == nil {
		return ""
	}

	var noun string
	if schema != nil {
		noun = schema.Noun
	}

	subErr, ok := asSubmitError(err)
	if !ok {
		return genericFailure(noun)
	}

	switch subErr.Type {
	case ErrTypeRejected:
		if subErr.Message != "" {
			return subErr.Message
		}
		return FallbackRejection
	case ErrTypeAttachment:
		label := subErr.Slot
		if schema != nil {
			if f, ok := schema.Field(subErr.Slot); ok {
				label = f.Label
			}
		}
		if subErr.FileName != "" {
			return fmt.Sprintf("Could not read %s (%s). Please choose the file again.", label, subErr.FileName)
		}
		return fmt.Sprintf("Could not read %s. Please choose the file again.", label)
	case ErrTypeValidation:
		return subErr.Message
	default:
		return genericFailure(noun)
	}
}

func genericFailure(noun string) string {
	if noun == "" {
		noun = "application"
	}
	return fmt.Sprintf("Failed to submit %s. Please check your internet connection and try again.", noun)
}

// GetShortErrorMessage returns a concise diagnostic for logs and the CLI
func GetShortErrorMessage(err error) string {
	subErr, ok := asSubmitError(err)
	if !ok {
		return err.Error()
	}

	switch subErr.Type {
	case ErrTypeTimeout:
		return "Endpoint not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Endpoint refused connection"
	case ErrTypeDNS:
		return "Cannot resolve endpoint hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Endpoint error (HTTP %d)", subErr.StatusCode)
	case ErrTypeParse:
		return "Unexpected response from endpoint"
	case ErrTypeRejected:
		if subErr.Message == "" {
			return FallbackRejection
		}
		return "Rejected: " + subErr.Message
	case ErrTypeAttachment:
		return fmt.Sprintf("Cannot read attachment %s", subErr.Slot)
	default:
		return subErr.Message
	}
}
