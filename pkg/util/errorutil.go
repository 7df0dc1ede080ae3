package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes used across the service.
const (
	CodeValidationFailed          = "VALIDATION_FAILED"
	CodeNotFound                  = "NOT_FOUND"
	CodeUnauthorized              = "UNAUTHORIZED"
	CodeForbidden                 = "FORBIDDEN"
	CodeConflict                  = "CONFLICT"
	CodeBackendError              = "BACKEND_ERROR"
	CodePaymentFailed             = "PAYMENT_FAILED"
	CodePaymentVerificationFailed = "PAYMENT_VERIFICATION_FAILED"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewBackendError wraps an opaque persistence or network failure.
func NewBackendError(err error) error {
	return &DomainError{
		Code:       CodeBackendError,
		Message:    "backend unavailable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewPaymentFailed reports a failure to start a payment with the gateway.
func NewPaymentFailed(err error) error {
	return &DomainError{
		Code:       CodePaymentFailed,
		Message:    "payment could not be initiated",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewPaymentVerificationFailed reports a terminal verification failure for a
// payment attempt. Distinct from initiation failure; never retried.
func NewPaymentVerificationFailed(reason string) error {
	return NewDomainError(CodePaymentVerificationFailed, reason, http.StatusUnprocessableEntity, nil)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeBackendError,
		Message:    "backend unavailable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}
