package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Error codes
const (
	CodeMissingParameter  = "MISSING_PARAMETER"
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	CodeTokenAlreadyInUse = "TOKEN_ALREADY_IN_USE"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeTokenNotFound     = "TOKEN_NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// Predefined domain errors
var (
	ErrInternal = NewDomainError(CodeInternal, "internal server error")
)

// NewMissingParameter reports a required request field that was absent.
func NewMissingParameter(field string) *DomainError {
	return NewDomainError(CodeMissingParameter, fmt.Sprintf("Missing parameter '%s'", field))
}

// NewInvalidParameter reports a request field that failed validation.
func NewInvalidParameter(field string) *DomainError {
	return NewDomainError(CodeInvalidParameter, fmt.Sprintf("Invalid parameter '%s'", field))
}

// NewUserAlreadyExists reports a name collision with an existing user.
func NewUserAlreadyExists(name string) *DomainError {
	return NewDomainError(CodeUserAlreadyExists, fmt.Sprintf("User '%s' already exists", name))
}

// NewTokenAlreadyInUse reports a token owned by a different user.
func NewTokenAlreadyInUse(token string) *DomainError {
	return NewDomainError(CodeTokenAlreadyInUse, fmt.Sprintf("Token '%s' is already in use by another user", token))
}

// NewUserNotFound reports a lookup miss by identifier.
func NewUserNotFound(identifier string) *DomainError {
	return NewDomainError(CodeUserNotFound, fmt.Sprintf("No user '%s' found", identifier))
}

// NewTokenNotFound reports a lookup miss by token value.
func NewTokenNotFound(token string) *DomainError {
	return NewDomainError(CodeTokenNotFound, fmt.Sprintf("No user with token '%s' found", token))
}

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == code
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case CodeMissingParameter, CodeInvalidParameter:
		return http.StatusBadRequest

	// 404 Not Found
	case CodeUserNotFound, CodeTokenNotFound:
		return http.StatusNotFound

	// 409 Conflict
	case CodeUserAlreadyExists, CodeTokenAlreadyInUse:
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
