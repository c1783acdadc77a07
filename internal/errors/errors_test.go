package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"missing parameter", NewMissingParameter("name"), http.StatusBadRequest},
		{"invalid parameter", NewInvalidParameter("email"), http.StatusBadRequest},
		{"user not found", NewUserNotFound("42"), http.StatusNotFound},
		{"token not found", NewTokenNotFound("abc"), http.StatusNotFound},
		{"user already exists", NewUserAlreadyExists("Alice"), http.StatusConflict},
		{"token already in use", NewTokenAlreadyInUse("abc"), http.StatusConflict},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped domain error", fmt.Errorf("create user: %w", NewUserAlreadyExists("Alice")), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.expected {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := NewUserNotFound("42")

	if !HasCode(err, CodeUserNotFound) {
		t.Error("expected HasCode to match the error's own code")
	}
	if HasCode(err, CodeUserAlreadyExists) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(errors.New("boom"), CodeUserNotFound) {
		t.Error("expected HasCode to reject non-domain errors")
	}

	wrapped := fmt.Errorf("lookup: %w", err)
	if !HasCode(wrapped, CodeUserNotFound) {
		t.Error("expected HasCode to unwrap")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapError(ErrInternal, cause)

	if wrapped.Code != CodeInternal {
		t.Errorf("Code = %s, want %s", wrapped.Code, CodeInternal)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to keep its cause")
	}
	if wrapped.Error() != "internal server error: connection refused" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}
