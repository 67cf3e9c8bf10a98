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

// Activate consumes an activation key. The key is single-use: a successful
// activation clears it, so a replayed key no longer resolves.
func (srv *accountService) Activate(ctx context.Context, key string) (*entity.User, error) {
	if key == "" {
		return nil, domainerrors.ErrInvalidActivationKey
	}

	var activated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByActivationKey(ctx, key)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrInvalidActivationKey
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user by activation key")
		}

		user.Activated = true
		user.ActivationKey = ""
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to activate user")
		}

		activated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.mirrorUpsert(ctx, activated)
	srv.evictUser(activated)

	srv.log(ctx).Info("Account activated", slog.String("login", activated.Login))

	return activated, nil
}

// RequestPasswordReset issues a fresh reset key for an activated account.
// An unknown or not-yet-activated email is rejected without side effects.
func (srv *accountService) RequestPasswordReset(ctx context.Context, email string) (*entity.User, error) {
	normalized := normalize(email)

	var requested *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByEmailIgnoreCase(ctx, normalized)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrEmailNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user by email")
		}
		if !user.Activated {
			return domainerrors.ErrEmailNotFound
		}

		resetKey, err := srv.keyGen.ResetKey()
		if err != nil {
			return errors.Wrap(err, "failed to generate reset key")
		}

		issuedAt := srv.now()
		user.ResetKey = resetKey
		user.ResetDate = &issuedAt
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to store reset key")
		}

		requested = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.evictUser(requested)

	srv.log(ctx).Info("Password reset requested", slog.String("login", requested.Login))

	return requested, nil
}

// CompletePasswordReset consumes a reset key within its validity window and
// stores the new password. Both the key and its issue timestamp are cleared.
func (srv *accountService) CompletePasswordReset(ctx context.Context, key, newPassword string) (*entity.User, error) {
	if key == "" {
		return nil, domainerrors.ErrInvalidResetKey
	}

	var reset *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByResetKey(ctx, key)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrInvalidResetKey
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user by reset key")
		}

		if user.ResetDate == nil || srv.now().Sub(*user.ResetDate) > constants.ResetKeyValidity {
			return domainerrors.ErrResetKeyExpired
		}

		passwordHash, err := srv.hasher.Hash(newPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
		}

		user.PasswordHash = passwordHash
		user.ResetKey = ""
		user.ResetDate = nil
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to store new password")
		}

		reset = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.evictUser(reset)
	srv.pushAlert(ctx, reset, service.AlertPasswordResetComplete)

	srv.log(ctx).Info("Password reset completed", slog.String("login", reset.Login))

	return reset, nil
}

// ChangePassword verifies the current password before storing the new one.
func (srv *accountService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	login, ok := deliverycontext.GetCurrentLogin(ctx)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	var changed *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByLogin(ctx, login)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrAccountNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load current account")
		}

		if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return domainerrors.ErrInvalidPassword
		}

		passwordHash, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
		}

		user.PasswordHash = passwordHash
		user.LastModifiedBy = login
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to store new password")
		}

		changed = user

		return nil
	})
	if err != nil {
		return err
	}

	srv.evictUser(changed)
	srv.pushAlert(ctx, changed, service.AlertPasswordChanged)

	srv.log(ctx).Info("Password changed", slog.String("login", changed.Login))

	return nil
}
