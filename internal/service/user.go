package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Payphone-Digital/userhub/internal/dto"
	apperrors "github.com/Payphone-Digital/userhub/internal/errors"
	"github.com/Payphone-Digital/userhub/internal/model"
	"github.com/Payphone-Digital/userhub/internal/repository"
	ctxutil "github.com/Payphone-Digital/userhub/pkg/context"
	"github.com/Payphone-Digital/userhub/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maruel/natural"
	"gorm.io/gorm"
)

type UserService struct {
	users     userStore
	tokens    tokenStore
	tx        txManager
	staleness *StalenessPolicy
}

func NewUserService(
	db *gorm.DB,
	repoUser *repository.UserRepository,
	repoToken *repository.UserTokenRepository,
	staleness *StalenessPolicy,
) *UserService {
	return &UserService{
		users:     repoUser,
		tokens:    repoToken,
		tx:        &gormTxManager{db: db, users: repoUser, tokens: repoToken},
		staleness: staleness,
	}
}

// Create validates and persists a new user, reconciling its token set
// when the request carried one. The whole write runs in one transaction;
// the response is re-read from the store after commit so the caller sees
// committed state including server-computed defaults.
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if req.Name == "" {
		return nil, apperrors.NewMissingParameter("name")
	}

	name, err := validateName(req.Name)
	if err != nil {
		logger.WarnWithContext(ctx, "Name validation failed").
			Err(err).
			Log()
		return nil, err
	}

	email := ""
	if req.Email != "" {
		if email, err = validateEmail(req.Email); err != nil {
			logger.WarnWithContext(ctx, "Email validation failed").
				Err(err).
				Log()
			return nil, err
		}
	}

	logger.InfoWithContext(ctx, "Creating user").
		String("name", name).
		Log()

	var userID uint
	err = s.tx.Transaction(ctx, func(txUser userStore, txToken tokenStore) error {
		if _, err := txUser.GetByName(ctx, name); err == nil {
			return apperrors.NewUserAlreadyExists(name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		user := &model.User{
			Name:         name,
			Email:        email,
			LastActiveAt: time.Now().UTC(),
		}
		if err := txUser.Create(ctx, user); err != nil {
			// only the name column carries a unique constraint on the user row
			if isUniqueViolation(err) {
				return apperrors.NewUserAlreadyExists(name)
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if desired := req.DesiredTokens(); desired != nil {
			if err := s.reconcileTokens(ctx, txToken, user, *desired); err != nil {
				return err
			}
		}

		userID = user.ID
		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "User creation aborted").
			String("name", name).
			Err(err).
			Log()
		return nil, err
	}

	// Re-read with a fresh session so the response reflects exactly
	// what was committed.
	created, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User created successfully").
		Uint("user_id", created.ID).
		String("name", created.Name).
		Log()

	return toUserResponse(created), nil
}

// Update applies the optional fields of the request to an existing user.
// Name renames collide only against other users; an empty email means no
// change; the disabled flag is presence-gated.
func (s *UserService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	logger.InfoWithContext(ctx, "Updating user").
		Uint("user_id", id).
		Log()

	err := s.tx.Transaction(ctx, func(txUser userStore, txToken tokenStore) error {
		user, err := txUser.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewUserNotFound(fmt.Sprintf("%d", id))
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if req.Name != "" {
			name, err := validateName(req.Name)
			if err != nil {
				return err
			}
			// renaming to one's own current name is a no-op, not a collision
			if name != user.Name {
				if _, err := txUser.GetByName(ctx, name); err == nil {
					return apperrors.NewUserAlreadyExists(name)
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.WrapError(apperrors.ErrInternal, err)
				}
				user.Name = name
			}
		}

		if req.Email != "" {
			email, err := validateEmail(req.Email)
			if err != nil {
				return err
			}
			user.Email = email
		}

		if req.IsDisabled != nil {
			user.Disabled = *req.IsDisabled
		}

		if desired := req.DesiredTokens(); desired != nil {
			if err := s.reconcileTokens(ctx, txToken, user, *desired); err != nil {
				return err
			}
		}

		if err := txUser.Save(ctx, user); err != nil {
			// the user-row update can only trip the name constraint
			if isUniqueViolation(err) {
				return apperrors.NewUserAlreadyExists(user.Name)
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "User update aborted").
			Uint("user_id", id).
			Err(err).
			Log()
		return nil, err
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User updated successfully").
		Uint("user_id", updated.ID).
		String("name", updated.Name).
		Log()

	return toUserResponse(updated), nil
}

// List returns users, optionally filtered by activity against the
// staleness cutoff, sorted by name with case-insensitive natural
// ordering.
func (s *UserService) List(ctx context.Context, active *bool) ([]dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "List")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	var (
		users []model.User
		err   error
	)

	switch {
	case active == nil:
		users, err = s.users.FindAll(ctx)
	case *active:
		users, err = s.users.FindAllActive(ctx, s.staleness.StaleCutoff())
	default:
		users, err = s.users.FindAllInactive(ctx, s.staleness.StaleCutoff())
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	sortUsersByName(users)

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}

	logger.InfoWithContext(ctx, "Users listed").
		Int("count", len(responses)).
		Log()

	return responses, nil
}

// Search returns non-disabled users whose name contains the query,
// ordered by name and capped at limit.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Search")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	users, err := s.users.Search(ctx, query, limit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}

	return responses, nil
}

// GetByID returns a single user by identifier.
func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "User not found").
				Uint("user_id", id).
				Log()
			return nil, apperrors.NewUserNotFound(fmt.Sprintf("%d", id))
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// GetByToken resolves a token value to its owning user.
func (s *UserService) GetByToken(ctx context.Context, token string) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	userToken, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Token not found").
				Log()
			return nil, apperrors.NewTokenNotFound(token)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userToken.UserID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// sortUsersByName orders users by name using case-insensitive natural
// ordering, so "user2" sorts before "user10".
func sortUsersByName(users []model.User) {
	sort.Slice(users, func(i, j int) bool {
		return natural.Less(strings.ToLower(users[i].Name), strings.ToLower(users[j].Name))
	})
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The application pre-checks are a best-effort read before
// write; under concurrent submission the database constraint decides
// who wins, and each write site maps the violation its statement can
// hit onto the matching domain conflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Disabled:     user.Disabled,
		LastActiveAt: user.LastActiveAt,
		Tokens:       user.TokenValues(),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
