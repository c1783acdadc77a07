package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/userhub/internal/model"
	ctxutil "github.com/Payphone-Digital/userhub/pkg/context"
	"github.com/Payphone-Digital/userhub/pkg/logger"
	"gorm.io/gorm"
)

type UserTokenRepository struct {
	db *gorm.DB
}

func NewUserTokenRepository(db *gorm.DB) *UserTokenRepository {
	return &UserTokenRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *UserTokenRepository) WithTx(tx *gorm.DB) *UserTokenRepository {
	return &UserTokenRepository{db: tx}
}

// GetByToken finds the token row holding the given value, regardless of
// owner. Returns gorm.ErrRecordNotFound when no row matches.
func (r *UserTokenRepository) GetByToken(ctx context.Context, token string) (*model.UserToken, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var userToken model.UserToken

	result := r.db.WithContext(ctx).Where("token = ?", token).First(&userToken)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get token").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &userToken, nil
}

// Create inserts a new token row bound to its owner.
func (r *UserTokenRepository) Create(ctx context.Context, userToken *model.UserToken) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(userToken)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create token").
			Uint("user_id", userToken.UserID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Token created").
		Uint("user_id", userToken.UserID).
		Uint("token_id", userToken.ID).
		Duration(duration).
		Log()

	return nil
}

// Delete removes a token row.
func (r *UserTokenRepository) Delete(ctx context.Context, userToken *model.UserToken) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Delete(userToken)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete token").
			Uint("user_id", userToken.UserID).
			Uint("token_id", userToken.ID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Token deleted").
		Uint("user_id", userToken.UserID).
		Uint("token_id", userToken.ID).
		Duration(duration).
		Log()

	return nil
}
