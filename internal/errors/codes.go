package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrValidation    ErrorCode = "VALIDATION_ERROR"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrUnknownAction ErrorCode = "UNKNOWN_ACTION"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// StatusCodeMap maps ErrorCode to HTTP status code.
//
// Validation and not-found errors answer 500 because existing clients were
// built against that contract. Changing the mapping here is the only edit
// needed to move them to 422/404.
var StatusCodeMap = map[ErrorCode]int{
	ErrValidation:    http.StatusInternalServerError,
	ErrNotFound:      http.StatusInternalServerError,
	ErrUnknownAction: http.StatusBadRequest,
	ErrInternalError: http.StatusInternalServerError,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
