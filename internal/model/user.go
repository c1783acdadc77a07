package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the aggregate root. It owns its token collection; deleting a
// user cascades to its tokens.
type User struct {
	gorm.Model
	Name         string      `gorm:"column:name;size:64;not null;uniqueIndex:uq_users_name"`
	Email        string      `gorm:"column:email;size:255"`
	Disabled     bool        `gorm:"column:disabled;not null;default:false"`
	LastActiveAt time.Time   `gorm:"column:last_active_at"`
	Tokens       []UserToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserToken binds an opaque token string to exactly one user. The token
// value is unique across the whole table, not just per user. Rows are
// hard-deleted on reconciliation, so no soft-delete column: a removed
// token must free its slot in the unique index immediately.
type UserToken struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Token     string    `gorm:"column:token;size:64;not null;uniqueIndex:uq_user_tokens_token"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
}

// TokenValues returns the plain token strings the user currently owns.
func (u *User) TokenValues() []string {
	values := make([]string, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		values = append(values, t.Token)
	}
	return values
}
