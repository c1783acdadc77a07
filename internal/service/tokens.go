package service

import (
	"context"
	"errors"

	apperrors "github.com/Payphone-Digital/userhub/internal/errors"
	"github.com/Payphone-Digital/userhub/internal/model"
	ctxutil "github.com/Payphone-Digital/userhub/pkg/context"
	"github.com/Payphone-Digital/userhub/pkg/logger"
	"gorm.io/gorm"
)

// diffTokens computes the reconciliation plan that makes current equal
// to desired: adds are desired values the user does not own yet, removes
// are owned values absent from the desired set. Duplicates in desired
// collapse to one add.
func diffTokens(current, desired []string) (adds, removes []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, t := range current {
		currentSet[t] = struct{}{}
	}

	desiredSet := make(map[string]struct{}, len(desired))
	for _, t := range desired {
		if _, dup := desiredSet[t]; dup {
			continue
		}
		desiredSet[t] = struct{}{}
		if _, owned := currentSet[t]; !owned {
			adds = append(adds, t)
		}
	}

	for _, t := range current {
		if _, wanted := desiredSet[t]; !wanted {
			removes = append(removes, t)
		}
	}

	return adds, removes
}

// reconcileTokens makes the user's token collection equal to the desired
// set. It must run inside the write transaction: any conflict aborts the
// whole operation with nothing committed. A desired token owned by a
// different user fails with TokenAlreadyInUse.
func (s *UserService) reconcileTokens(
	ctx context.Context,
	tokenRepo tokenStore,
	user *model.User,
	desired []string,
) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "reconcileTokens")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	for _, token := range desired {
		if err := validateToken(token); err != nil {
			return err
		}
	}

	adds, removes := diffTokens(user.TokenValues(), desired)

	logger.DebugWithContext(ctx, "Reconciling user tokens").
		Uint("user_id", user.ID).
		Strings("adds", adds).
		Strings("removes", removes).
		Log()

	for _, token := range adds {
		existing, err := tokenRepo.GetByToken(ctx, token)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if existing != nil {
			if existing.UserID != user.ID {
				logger.WarnWithContext(ctx, "Token owned by another user").
					Uint("user_id", user.ID).
					Uint("owner_id", existing.UserID).
					Log()
				return apperrors.NewTokenAlreadyInUse(token)
			}
			// already ours, nothing to do
			continue
		}

		userToken := &model.UserToken{Token: token, UserID: user.ID}
		if err := tokenRepo.Create(ctx, userToken); err != nil {
			// the unique constraint is the final arbiter under
			// concurrent submission
			if isUniqueViolation(err) {
				return apperrors.NewTokenAlreadyInUse(token)
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		user.Tokens = append(user.Tokens, *userToken)
	}

	removeSet := make(map[string]struct{}, len(removes))
	for _, token := range removes {
		removeSet[token] = struct{}{}
	}

	kept := user.Tokens[:0]
	for i := range user.Tokens {
		userToken := user.Tokens[i]
		if _, drop := removeSet[userToken.Token]; !drop {
			kept = append(kept, userToken)
			continue
		}
		if err := tokenRepo.Delete(ctx, &userToken); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}
	user.Tokens = kept

	return nil
}
