package service

import (
	"strings"
	"testing"

	apperrors "github.com/Payphone-Digital/userhub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name untouched",
			input:    "Alice",
			expected: "Alice",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Alice  ",
			expected: "Alice",
		},
		{
			name:     "control characters stripped",
			input:    "Al\x00ice\x1f",
			expected: "Alice",
		},
		{
			name:     "DEL stripped",
			input:    "Alice\x7f",
			expected: "Alice",
		},
		{
			name:     "inner whitespace kept",
			input:    "Alice Smith",
			expected: "Alice Smith",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Run("valid name returned sanitized", func(t *testing.T) {
		name, err := validateName("  Bob\x01  ")
		require.NoError(t, err)
		assert.Equal(t, "Bob", name)
	})

	t.Run("only control characters is invalid", func(t *testing.T) {
		_, err := validateName("\x00\x01\x02")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParameter))
	})

	t.Run("64 characters is valid", func(t *testing.T) {
		name, err := validateName(strings.Repeat("a", 64))
		require.NoError(t, err)
		assert.Len(t, name, 64)
	})

	t.Run("65 characters is invalid", func(t *testing.T) {
		_, err := validateName(strings.Repeat("a", 65))
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParameter))
	})
}

func TestValidateEmail(t *testing.T) {
	t.Run("valid email accepted", func(t *testing.T) {
		email, err := validateEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", email)
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		email, err := validateEmail("  alice@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", email)
	})

	t.Run("missing at-sign rejected", func(t *testing.T) {
		_, err := validateEmail("alice.example.com")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParameter))
	})

	t.Run("overlong email rejected", func(t *testing.T) {
		local := strings.Repeat("a", 250)
		_, err := validateEmail(local + "@example.com")
		require.Error(t, err)
	})
}

func TestValidateToken(t *testing.T) {
	assert.NoError(t, validateToken("abc"))
	assert.NoError(t, validateToken(strings.Repeat("t", 64)))
	assert.Error(t, validateToken(""))
	assert.Error(t, validateToken(strings.Repeat("t", 65)))
}
