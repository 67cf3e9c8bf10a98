package impl

import (
	"context"
	"testing"
	"time"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/domain/constants"
	"careid/internal/domain/entity"
	domainerrors "careid/internal/domain/errors"
	"careid/internal/domain/repository"
	"careid/internal/domain/service"
	"careid/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_BornActivatedWithResetKey(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "bob").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "bob@example.com").Return(nil, repository.ErrUserNotFound)
	m.keyGen.On("Password").Return("random-password", nil)
	m.hasher.On("Hash", "random-password").Return("hashed", nil)
	m.keyGen.On("ResetKey").Return("77777", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	user, err := srv.CreateUser(context.Background(), &usecase.CreateUserInput{
		Login: "Bob",
		Email: "Bob@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "bob", user.Login)
	assert.True(t, user.Activated, "administratively created accounts skip activation")
	assert.Equal(t, "77777", user.ResetKey)
	require.NotNil(t, user.ResetDate)
	assert.True(t, user.ResetDate.Equal(testNow))
	assert.True(t, user.Authorities.Contains(entity.AuthorityUser))
	assert.Equal(t, constants.SystemAccount, user.CreatedBy)
}

func TestCreateUser_ActingLoginFromContext(t *testing.T) {
	srv, m := newTestService()

	ctx := deliverycontext.WithCurrentLogin(context.Background(), "admin")
	m.repo.On("FindByLogin", mock.Anything, "bob").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "bob@example.com").Return(nil, repository.ErrUserNotFound)
	m.keyGen.On("Password").Return("random-password", nil)
	m.hasher.On("Hash", "random-password").Return("hashed", nil)
	m.keyGen.On("ResetKey").Return("77777", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	user, err := srv.CreateUser(ctx, &usecase.CreateUserInput{
		Login: "bob",
		Email: "bob@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.CreatedBy)
}

func TestCreateUser_LoginTaken(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "bob").Return(&entity.User{Login: "bob"}, nil)

	_, err := srv.CreateUser(context.Background(), &usecase.CreateUserInput{
		Login: "bob",
		Email: "bob@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrLoginAlreadyUsed)
}

func TestUpdateUser_ReplacesAuthoritySet(t *testing.T) {
	srv, m := newTestService()

	user := &entity.User{
		ID:          uuid.New(),
		Login:       "bob",
		Email:       "bob@example.com",
		Authorities: entity.Authorities{entity.AuthorityUser, entity.AuthoritySubject},
	}

	m.repo.On("FindByLogin", mock.Anything, "bob").Return(user, nil)
	m.repo.On("Update", mock.Anything, user).Return(nil)
	m.mirror.On("Upsert", mock.Anything, user).Return(nil)

	updated, err := srv.UpdateUser(context.Background(), &usecase.UpdateUserInput{
		Login:       "bob",
		Authorities: []string{"ROLE_ADMIN", "ROLE_USER"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		entity.Authorities{entity.AuthorityAdmin, entity.AuthorityUser},
		updated.Authorities,
		"a non-nil authority slice replaces the full set",
	)
	assert.Equal(t, constants.SystemAccount, updated.LastModifiedBy)
}

func TestUpdateUser_RenameEvictsOldEntries(t *testing.T) {
	srv, m := newTestService()

	user := &entity.User{ID: uuid.New(), Login: "bob", Email: "bob@example.com"}
	m.cache.Put(service.CacheByLogin, "bob", user)
	m.cache.Put(service.CacheByEmail, "bob@example.com", user)

	newLogin := "robert"
	m.repo.On("FindByLogin", mock.Anything, "bob").Return(user, nil)
	m.repo.On("FindByLogin", mock.Anything, "robert").Return(nil, repository.ErrUserNotFound)
	m.repo.On("Update", mock.Anything, user).Return(nil)
	m.mirror.On("Upsert", mock.Anything, user).Return(nil)

	updated, err := srv.UpdateUser(context.Background(), &usecase.UpdateUserInput{
		Login:    "bob",
		NewLogin: &newLogin,
	})
	require.NoError(t, err)

	assert.Equal(t, "robert", updated.Login)
	assert.Zero(t, m.cache.Len(), "entries under the old login and email must be gone")
}

func TestUpdateUser_NewLoginConflict(t *testing.T) {
	srv, m := newTestService()

	user := &entity.User{ID: uuid.New(), Login: "bob", Email: "bob@example.com"}
	taken := "alice"
	m.repo.On("FindByLogin", mock.Anything, "bob").Return(user, nil)
	m.repo.On("FindByLogin", mock.Anything, "alice").Return(&entity.User{Login: "alice"}, nil)

	_, err := srv.UpdateUser(context.Background(), &usecase.UpdateUserInput{
		Login:    "bob",
		NewLogin: &taken,
	})
	assert.ErrorIs(t, err, domainerrors.ErrLoginAlreadyUsed)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_UnknownTarget(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := srv.UpdateUser(context.Background(), &usecase.UpdateUserInput{Login: "ghost"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestDeleteUser_AbsentLoginIsNoop(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	err := srv.DeleteUser(context.Background(), "ghost")
	require.NoError(t, err)
	m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_RemovesAndUnindexes(t *testing.T) {
	srv, m := newTestService()

	user := &entity.User{ID: uuid.New(), Login: "bob", Email: "bob@example.com"}
	m.cache.Put(service.CacheByLogin, "bob", user)
	m.repo.On("FindByLogin", mock.Anything, "bob").Return(user, nil)
	m.repo.On("Delete", mock.Anything, user).Return(nil)
	m.mirror.On("Delete", mock.Anything, user).Return(nil)

	err := srv.DeleteUser(context.Background(), "Bob")
	require.NoError(t, err)

	m.mirror.AssertCalled(t, "Delete", mock.Anything, user)
	assert.Zero(t, m.cache.Len())
}

func TestRemoveNotActivatedUsers_SweepsWithRetentionCutoff(t *testing.T) {
	srv, m := newTestService()

	stale1 := &entity.User{ID: uuid.New(), Login: "stale1", Email: "s1@example.com"}
	stale2 := &entity.User{ID: uuid.New(), Login: "stale2", Email: "s2@example.com"}

	cutoff := testNow.Add(-constants.UnactivatedRetention)
	m.repo.On("FindAllNotActivatedCreatedBefore", mock.Anything, mock.MatchedBy(func(ts time.Time) bool {
		return ts.Equal(cutoff)
	})).Return([]*entity.User{stale1, stale2}, nil)

	m.repo.On("Delete", mock.Anything, stale1).Return(assert.AnError)
	m.repo.On("Delete", mock.Anything, stale2).Return(nil)
	m.mirror.On("Delete", mock.Anything, stale2).Return(nil)

	removed, err := srv.RemoveNotActivatedUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "a failed deletion is skipped, not fatal")
}
