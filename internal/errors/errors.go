package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the invoice pipeline. Every failure that crosses a
// package boundary is marked with exactly one of these so callers can branch
// on taxonomy rather than on message text.
var (
	// ErrMissingInput means no record or no id was supplied at all.
	ErrMissingInput = new(ErrCodeMissingInput, "no invoice record supplied")
	// ErrRecordNotFound means the record source had nothing for the given id.
	ErrRecordNotFound = new(ErrCodeRecordNotFound, "invoice record not found")
	// ErrValidation means a structural rule failed; preview is still allowed,
	// only finalize/deliver is blocked.
	ErrValidation = new(ErrCodeValidation, "invoice validation failed")
	// ErrRenderBackend means the document canvas was unavailable at render
	// time. Terminal for the document path only.
	ErrRenderBackend = new(ErrCodeRenderBackend, "document renderer unavailable")
	// ErrDelivery means the chosen delivery channel failed. The produced
	// document survives so delivery can be retried.
	ErrDelivery = new(ErrCodeDelivery, "invoice delivery failed")
	ErrSystem   = new(ErrCodeSystemError, "system error")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrMissingInput:   http.StatusBadRequest,
		ErrRecordNotFound: http.StatusNotFound,
		ErrValidation:     http.StatusUnprocessableEntity,
		ErrRenderBackend:  http.StatusServiceUnavailable,
		ErrDelivery:       http.StatusBadGateway,
		ErrSystem:         http.StatusInternalServerError,
	}
)

const (
	ErrCodeMissingInput   = "missing_input"
	ErrCodeRecordNotFound = "record_not_found"
	ErrCodeValidation     = "validation_error"
	ErrCodeRenderBackend  = "render_backend_error"
	ErrCodeDelivery       = "delivery_error"
	ErrCodeSystemError    = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsMissingInput checks if an error is a missing input error
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingInput)
}

// IsRecordNotFound checks if an error is a record not found error
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsRenderBackend checks if an error is a render backend error
func IsRenderBackend(err error) bool {
	return errors.Is(err, ErrRenderBackend)
}

// IsDelivery checks if an error is a delivery error
func IsDelivery(err error) bool {
	return errors.Is(err, ErrDelivery)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
