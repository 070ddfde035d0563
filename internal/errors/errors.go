package errors

import (
	stderrors "errors"
	"fmt"
)

// APIError is an error that knows which response it maps to.
type APIError struct {
	Code    ErrorCode
	Message string
	Field   string
	Cause   error
}

// Error implements the error interface. The message is what clients see.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status for this error
func (e *APIError) Status() int {
	return e.Code.StatusCode()
}

// ValidationError creates a VALIDATION_ERROR for a missing or malformed input
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// UnknownAction creates the error returned for unsupported (method, action) pairs
func UnknownAction() *APIError {
	return &APIError{
		Code:    ErrUnknownAction,
		Message: "Unknown action",
	}
}

// InternalError wraps an infrastructure failure. The cause's message is kept
// verbatim as the client-facing message.
func InternalError(cause error) *APIError {
	msg := "internal server error"
	if cause != nil {
		msg = cause.Error()
	}
	return &APIError{
		Code:    ErrInternalError,
		Message: msg,
		Cause:   cause,
	}
}

// AsAPIError converts any error into an *APIError. Errors that are not already
// classified become INTERNAL_ERROR.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return InternalError(err)
}

// IsCode reports whether err is an *APIError with the given code
func IsCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return stderrors.As(err, &apiErr) && apiErr.Code == code
}
