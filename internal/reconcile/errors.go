package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/editable"
)

// FallbackMessage is shown when a failure carries no usable message.
const FallbackMessage = "an unexpected error occurred while saving"

var (
	// ErrSaveInProgress is returned when Save is called while another save
	// is still in flight.
	ErrSaveInProgress = errors.New("a save is already in progress")

	// ErrSaveCancelled is returned when the caller's context was cancelled
	// before the server answered. The working copy is left untouched.
	ErrSaveCancelled = errors.New("save cancelled")

	// ErrInvalid is the sentinel wrapped by ValidationError.
	ErrInvalid = errors.New("invalid rows")

	// ErrSubmission is the sentinel wrapped by SubmissionError.
	ErrSubmission = errors.New("bulk submission failed")
)

// ValidationError blocks a save locally: at least one active row is invalid.
type ValidationError struct {
	Errors []editable.ValidationError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, editable.JoinValidationErrors(e.Errors))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// SubmissionError wraps a failure of the bulk call.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SubmissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSubmission}
	}
	return []error{ErrSubmission, e.Err}
}

// message normalises err into a stable user-facing text.
func message(err error) string {
	if err == nil {
		return FallbackMessage
	}
	var apiErr *bulk.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return strings.TrimSpace(apiErr.Message)
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return FallbackMessage
	}
	return msg
}

// panicError turns a recovered panic value into an error.
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("submitter panicked: %v", p.value)
}
