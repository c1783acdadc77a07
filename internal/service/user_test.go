package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Payphone-Digital/userhub/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func usersNamed(names ...string) []model.User {
	users := make([]model.User, 0, len(names))
	for _, name := range names {
		users = append(users, model.User{Name: name})
	}
	return users
}

func namesOf(users []model.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}

func TestSortUsersByName(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "numeric suffixes compare numerically",
			input:    []string{"user10", "user2"},
			expected: []string{"user2", "user10"},
		},
		{
			name:     "case insensitive",
			input:    []string{"bob", "Alice"},
			expected: []string{"Alice", "bob"},
		},
		{
			name:     "mixed plain and numbered",
			input:    []string{"user10", "alice", "User2", "Bob"},
			expected: []string{"alice", "Bob", "User2", "user10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := usersNamed(tt.input...)
			sortUsersByName(users)
			assert.Equal(t, tt.expected, namesOf(users))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_user_tokens_token"}

	assert.True(t, isUniqueViolation(uniqueErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert failed: %w", uniqueErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("boom")))
}

func TestStalenessPolicyCutoff(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	policy := NewStalenessPolicy(24 * time.Hour)
	policy.now = func() time.Time { return fixed }

	assert.Equal(t, fixed.Add(-24*time.Hour), policy.StaleCutoff())
}
