package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/userhub/internal/model"
	"github.com/Payphone-Digital/userhub/internal/repository"
	"gorm.io/gorm"
)

// userStore is the persistence surface the user flows depend on. The
// gorm repository satisfies it.
type userStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindAllActive(ctx context.Context, cutoff time.Time) ([]model.User, error)
	FindAllInactive(ctx context.Context, cutoff time.Time) ([]model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
}

type tokenStore interface {
	GetByToken(ctx context.Context, token string) (*model.UserToken, error)
	Create(ctx context.Context, userToken *model.UserToken) error
	Delete(ctx context.Context, userToken *model.UserToken) error
}

// txManager runs fn with stores bound to a single transaction; any
// error rolls the whole write back.
type txManager interface {
	Transaction(ctx context.Context, fn func(users userStore, tokens tokenStore) error) error
}

type gormTxManager struct {
	db     *gorm.DB
	users  *repository.UserRepository
	tokens *repository.UserTokenRepository
}

func (m *gormTxManager) Transaction(ctx context.Context, fn func(userStore, tokenStore) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(m.users.WithTx(tx), m.tokens.WithTx(tx))
	})
}
