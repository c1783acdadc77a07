package service

import (
	"strings"

	apperrors "github.com/Payphone-Digital/userhub/internal/errors"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength  = 64
	maxEmailLength = 255
	maxTokenLength = 64
)

var validate = validator.New()

// sanitizeName trims surrounding whitespace and strips ASCII control
// characters (0x00-0x1F, 0x7F) from a raw name.
func sanitizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, trimmed)
}

// validateName sanitizes the raw name and rejects it when the result is
// empty or longer than 64 characters.
func validateName(raw string) (string, error) {
	name := sanitizeName(raw)
	if name == "" || len([]rune(name)) > maxNameLength {
		return "", apperrors.NewInvalidParameter("name")
	}
	return name, nil
}

// validateEmail trims the raw email and rejects it when it fails the
// standard syntax check or exceeds 255 characters.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if len(email) > maxEmailLength || validate.Var(email, "email") != nil {
		return "", apperrors.NewInvalidParameter("email")
	}
	return email, nil
}

// validateToken rejects empty or overlong token values.
func validateToken(token string) error {
	if token == "" || len(token) > maxTokenLength {
		return apperrors.NewInvalidParameter("token")
	}
	return nil
}
