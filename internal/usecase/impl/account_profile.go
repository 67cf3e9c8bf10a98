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

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GetAccount returns the account resolved from the caller context.
// Anonymous callers fail closed.
func (srv *accountService) GetAccount(ctx context.Context) (*entity.User, error) {
	login, ok := deliverycontext.GetCurrentLogin(ctx)
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	user, err := srv.GetUserByLogin(ctx, login)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, domainerrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByLogin reads through the cache: a hit returns the cached user, a
// miss loads from the store and populates both keyspaces.
func (srv *accountService) GetUserByLogin(ctx context.Context, login string) (*entity.User, error) {
	normalized := normalize(login)

	if cached, ok := srv.userCache.Get(service.CacheByLogin, normalized); ok {
		return cached, nil
	}

	user, err := srv.userRepo.FindByLogin(ctx, normalized)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by login")
	}

	srv.userCache.Put(service.CacheByLogin, user.Login, user)
	srv.userCache.Put(service.CacheByEmail, normalize(user.Email), user)

	return user, nil
}

// GetAllManagedUsers pages through users, skipping the reserved anonymous account.
func (srv *accountService) GetAllManagedUsers(ctx context.Context, page, size int) (*usecase.UserPage, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}

	users, total, err := srv.userRepo.FindAllExcludingLogin(ctx, constants.AnonymousUser, page*size, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list managed users")
	}

	return &usecase.UserPage{Users: users, Total: total}, nil
}

// UpdateCurrentAccount merges a self-service update into the caller's account.
// Scalar fields overwrite unconditionally; the nested profile is only touched
// when its sub-payload is present, and then as a whole-object overwrite. The
// role branch follows the account's existing membership, never the payload.
func (srv *accountService) UpdateCurrentAccount(ctx context.Context, input *usecase.UpdateAccountInput) (*entity.User, error) {
	login, ok := deliverycontext.GetCurrentLogin(ctx)
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	var oldEmail string
	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByLogin(ctx, login)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrAccountNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load current account")
		}

		oldEmail = normalize(user.Email)
		newEmail := normalize(input.Email)
		if newEmail != oldEmail {
			if err := srv.ensureEmailFree(ctx, userRepo, newEmail, user.ID); err != nil {
				return err
			}
		}

		user.Email = newEmail
		user.FirstName = input.FirstName
		user.LastName = input.LastName
		user.LangKey = input.LangKey
		user.ImageURL = input.ImageURL
		user.LastModifiedBy = login

		if err := srv.mergeRoleProfile(user, input); err != nil {
			return err
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update current account")
		}

		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.mirrorUpsert(ctx, updated)
	srv.evictUser(updated)
	srv.userCache.Evict(service.CacheByEmail, oldEmail)

	srv.log(ctx).Info("Account updated", slog.String("login", updated.Login))

	return updated, nil
}

// ensureEmailFree rejects an email already owned by a different account.
// The store-level unique constraint stays the authority of record; this
// pre-check only produces the friendlier conflict before commit.
func (srv *accountService) ensureEmailFree(ctx context.Context, userRepo repository.UserRepository, email string, selfID uuid.UUID) error {
	other, err := userRepo.FindByEmailIgnoreCase(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check email availability")
	}
	if other.ID != selfID {
		return domainerrors.ErrEmailAlreadyUsed
	}

	return nil
}

// mergeRoleProfile applies the nested sub-payload to the profile matching the
// account's role membership. A missing profile row is created on first-time
// completion; a payload for the other role is ignored.
func (srv *accountService) mergeRoleProfile(user *entity.User, input *usecase.UpdateAccountInput) error {
	switch {
	case user.Authorities.Contains(entity.AuthorityProvider):
		if input.Provider == nil {
			return nil
		}
		profile := providerProfileFromInput(input.Provider)
		profile.UserID = user.ID
		user.Provider = profile

	case user.Authorities.Contains(entity.AuthoritySubject):
		if input.Subject == nil {
			return nil
		}
		profile, err := subjectProfileFromInput(input.Subject)
		if err != nil {
			return err
		}
		profile.UserID = user.ID
		user.Subject = profile
	}

	return nil
}
