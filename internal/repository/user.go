package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/userhub/internal/model"
	ctxutil "github.com/Payphone-Digital/userhub/pkg/context"
	"github.com/Payphone-Digital/userhub/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
// Write flows run their lookups and mutations through it so pre-checks
// and the flush share one transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// GetByID loads a user with its token collection. Returns
// gorm.ErrRecordNotFound when no row matches.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Preload("Tokens").Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				Uint("user_id", id).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved").
		Uint("user_id", id).
		String("name", user.Name).
		Duration(duration).
		Log()

	return &user, nil
}

// GetByName finds a user by exact (case-sensitive) name match.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByName")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("name = ?", name).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by name").
				String("name", name).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &user, nil
}

// FindAll returns every user with tokens preloaded.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindAll")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var users []model.User

	if err := r.db.WithContext(ctx).Preload("Tokens").Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Users retrieved").
		Int("count", len(users)).
		Duration(time.Since(start)).
		Log()

	return users, nil
}

// FindAllActive returns users whose last activity is at or after the
// staleness cutoff.
func (r *UserRepository) FindAllActive(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindAllActive")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Tokens").
		Where("last_active_at >= ?", cutoff).
		Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch active users").
			Err(err).
			Log()
		return nil, err
	}
	return users, nil
}

// FindAllInactive returns users whose last activity is before the
// staleness cutoff.
func (r *UserRepository) FindAllInactive(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindAllInactive")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Tokens").
		Where("last_active_at < ?", cutoff).
		Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch inactive users").
			Err(err).
			Log()
		return nil, err
	}
	return users, nil
}

// Search finds non-disabled users whose name contains the query,
// ordered by name ascending and capped at limit. LIKE is used on
// purpose: case rules follow the store's collation.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Search")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var users []model.User

	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).Preload("Tokens").
		Where("name LIKE ?", pattern).
		Where("disabled = ?", false).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to search users").
			String("query", query).
			Int("limit", limit).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "User search completed").
		String("query", query).
		Int("limit", limit).
		Int("count", len(users)).
		Duration(time.Since(start)).
		Log()

	return users, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("name", user.Name).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("name", user.Name).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// Save flushes scalar field changes on an existing user row.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Save")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"name":           user.Name,
		"email":          user.Email,
		"disabled":       user.Disabled,
		"last_active_at": user.LastActiveAt,
	})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to save user").
			Uint("user_id", user.ID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User saved").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}
