package impl

import (
	"context"
	"log/slog"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/domain/constants"
	"careid/internal/domain/entity"
	domainerrors "careid/internal/domain/errors"
	"careid/internal/domain/repository"
	"careid/internal/domain/service"
	"careid/internal/usecase"

	"github.com/pkg/errors"
)

// actingLogin resolves the audit principal from the caller context, falling
// back to the system account for scheduler-driven operations.
func actingLogin(ctx context.Context) string {
	if login, ok := deliverycontext.GetCurrentLogin(ctx); ok {
		return login
	}

	return constants.SystemAccount
}

// CreateUser administratively creates an account. It is born activated with
// a random password; a pre-issued reset key lets the owner choose their own
// password through the regular reset flow.
func (srv *accountService) CreateUser(ctx context.Context, input *usecase.CreateUserInput) (*entity.User, error) {
	login := normalize(input.Login)
	email := normalize(input.Email)

	if _, err := srv.userRepo.FindByLogin(ctx, login); err == nil {
		return nil, domainerrors.ErrLoginAlreadyUsed
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check login availability")
	}
	if _, err := srv.userRepo.FindByEmailIgnoreCase(ctx, email); err == nil {
		return nil, domainerrors.ErrEmailAlreadyUsed
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email availability")
	}

	randomPassword, err := srv.keyGen.Password()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate initial password")
	}
	passwordHash, err := srv.hasher.Hash(randomPassword)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash initial password")
	}
	resetKey, err := srv.keyGen.ResetKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate reset key")
	}

	langKey := input.LangKey
	if langKey == "" {
		langKey = constants.DefaultLanguage
	}

	issuedAt := srv.now()
	creator := actingLogin(ctx)
	user := &entity.User{
		Login:          login,
		Email:          email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		ImageURL:       input.ImageURL,
		LangKey:        langKey,
		Activated:      true,
		ResetKey:       resetKey,
		ResetDate:      &issuedAt,
		Authorities:    entity.AuthoritiesFromStrings(input.Authorities).Add(entity.AuthorityUser),
		CreatedBy:      creator,
		LastModifiedBy: creator,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	srv.mirrorUpsert(ctx, user)
	srv.evictUser(user)

	srv.log(ctx).Info("User created administratively",
		slog.String("login", user.Login),
		slog.String("created_by", creator),
	)

	return user, nil
}

// UpdateUser administratively rewrites an account. Nil fields are left
// unchanged; a non-nil authority slice replaces the full set.
func (srv *accountService) UpdateUser(ctx context.Context, input *usecase.UpdateUserInput) (*entity.User, error) {
	target := normalize(input.Login)

	var oldLogin, oldEmail string
	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByLogin(ctx, target)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load user")
		}

		oldLogin = user.Login
		oldEmail = normalize(user.Email)

		if input.NewLogin != nil {
			newLogin := normalize(*input.NewLogin)
			if newLogin != user.Login {
				if _, err := userRepo.FindByLogin(ctx, newLogin); err == nil {
					return domainerrors.ErrLoginAlreadyUsed
				} else if !errors.Is(err, repository.ErrUserNotFound) {
					return errors.Wrap(err, "failed to check login availability")
				}
				user.Login = newLogin
			}
		}
		if input.Email != nil {
			newEmail := normalize(*input.Email)
			if newEmail != oldEmail {
				if err := srv.ensureEmailFree(ctx, userRepo, newEmail, user.ID); err != nil {
					return err
				}
				user.Email = newEmail
			}
		}
		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.LangKey != nil {
			user.LangKey = *input.LangKey
		}
		if input.ImageURL != nil {
			user.ImageURL = *input.ImageURL
		}
		if input.Activated != nil {
			user.Activated = *input.Activated
		}
		if input.Authorities != nil {
			user.Authorities = entity.AuthoritiesFromStrings(input.Authorities)
		}
		user.LastModifiedBy = actingLogin(ctx)

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.mirrorUpsert(ctx, updated)
	srv.evictUser(updated)
	srv.userCache.Evict(service.CacheByLogin, oldLogin)
	srv.userCache.Evict(service.CacheByEmail, oldEmail)

	srv.log(ctx).Info("User updated administratively",
		slog.String("login", updated.Login),
		slog.String("updated_by", updated.LastModifiedBy),
	)

	return updated, nil
}

// DeleteUser removes the account with the given login. An absent login is a
// no-op, making overlapping deletes safe.
func (srv *accountService) DeleteUser(ctx context.Context, login string) error {
	normalized := normalize(login)

	user, err := srv.userRepo.FindByLogin(ctx, normalized)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to find user for deletion")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Delete(ctx, user)
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	srv.mirrorDelete(ctx, user)
	srv.evictUser(user)

	srv.log(ctx).Info("User deleted", slog.String("login", user.Login))

	return nil
}

// RemoveNotActivatedUsers deletes accounts that never activated within the
// retention window. It dispatches into the same reclamation path used during
// registration, so deletion semantics never diverge.
func (srv *accountService) RemoveNotActivatedUsers(ctx context.Context) (int, error) {
	cutoff := srv.now().Add(-constants.UnactivatedRetention)

	stale, err := srv.userRepo.FindAllNotActivatedCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list not activated users")
	}

	removed := 0
	for _, user := range stale {
		if err := srv.reclaim(ctx, user); err != nil {
			srv.log(ctx).Error("Failed to remove not activated user",
				slog.String("login", user.Login),
				slog.Any("error", err),
			)

			continue
		}
		removed++
	}

	if removed > 0 {
		srv.log(ctx).Info("Removed not activated users", slog.Int("count", removed))
	}

	return removed, nil
}
