package submission

import (
	"errors"
	"strings"
)

var (
	// ErrInFlight refuses a submit while the previous one is still outstanding.
	ErrInFlight = errors.New("a submission is already in progress")
	// ErrSuperseded marks a response that arrived after its cycle was abandoned.
	ErrSuperseded = errors.New("submission was superseded")
	// ErrSessionClosed is returned by operations on an abandoned session.
	ErrSessionClosed = errors.New("submission session is closed")
)

// GenericSubmitMessage is shown when the engine gives no usable detail
const GenericSubmitMessage = "Failed to submit reimbursement request"

// Field names used as keys of Snapshot.Errors
const (
	FieldEmployee = "employee"
	FieldInvoice  = "invoice"
	FieldSubmit   = "submit"
)

// Validation failure codes
const (
	CodeEmployeeRequired = "employee_required"
	CodeInvoiceRequired  = "invoice_required"
)

// FieldError is one failed precondition
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError reports every missing input of a submit attempt at once
type ValidationError struct {
	Failures []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

// Has reports whether the failure with code is present
func (e *ValidationError) Has(code string) bool {
	for _, f := range e.Failures {
		if f.Code == code {
			return true
		}
	}
	return false
}

// SubmitError is a failed engine call. Message is ready for display.
type SubmitError struct {
	Message string
	Cause   error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Cause
}

// detailer is implemented by engine errors that carry a display message
type detailer interface {
	UserDetail() string
}

func newSubmitError(cause error) *SubmitError {
	message := GenericSubmitMessage
	var d detailer
	if errors.As(cause, &d) {
		if detail := strings.TrimSpace(d.UserDetail()); detail != "" {
			message = detail
		}
	}
	return &SubmitError{Message: message, Cause: cause}
}
