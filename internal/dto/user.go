package dto

import "time"

// CreateUserRequest carries the create payload. Tokens is a pointer so an
// absent field can be told apart from an explicit empty list; Token is a
// single-value convenience accepted alongside it.
type CreateUserRequest struct {
	Name   string    `json:"name"`
	Email  string    `json:"email" binding:"omitempty,max=255"`
	Token  string    `json:"token" binding:"omitempty,max=64"`
	Tokens *[]string `json:"tokens" binding:"omitempty,dive,max=64"`
}

// UpdateUserRequest carries the update payload. Every field is optional;
// IsDisabled is presence-gated, so an explicit false still overwrites.
type UpdateUserRequest struct {
	Name       string    `json:"name"`
	Email      string    `json:"email" binding:"omitempty,max=255"`
	Token      string    `json:"token" binding:"omitempty,max=64"`
	Tokens     *[]string `json:"tokens" binding:"omitempty,dive,max=64"`
	IsDisabled *bool     `json:"isDisabled"`
}

// DesiredTokens resolves the token fields into the desired token set.
// nil means the request left tokens untouched.
func (r *CreateUserRequest) DesiredTokens() *[]string {
	return desiredTokens(r.Tokens, r.Token)
}

func (r *UpdateUserRequest) DesiredTokens() *[]string {
	return desiredTokens(r.Tokens, r.Token)
}

func desiredTokens(tokens *[]string, token string) *[]string {
	if tokens != nil {
		return tokens
	}
	if token != "" {
		single := []string{token}
		return &single
	}
	return nil
}

type UserResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Disabled     bool      `json:"disabled"`
	LastActiveAt time.Time `json:"last_active_at"`
	Tokens       []string  `json:"tokens"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
