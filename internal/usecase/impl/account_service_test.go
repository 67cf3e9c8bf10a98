package impl

import (
	"context"
	"testing"

	"careid/internal/domain/entity"
	domainerrors "careid/internal/domain/errors"
	"careid/internal/domain/repository"
	"careid/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegister_SubjectSuccess(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.On("Hash", "secret42").Return("hashed", nil)
	m.keyGen.On("ActivationKey").Return("12345678901234567890", nil)
	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.qr.On("GenerateActivationQR", "12345678901234567890").Return([]byte("png"), nil)

	output, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:    "  Alice ",
		Email:    "Alice@Example.com",
		Password: "secret42",
	})
	require.NoError(t, err)

	user := output.User
	assert.Equal(t, "alice", user.Login)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.False(t, user.Activated)
	assert.Equal(t, "12345678901234567890", user.ActivationKey)
	assert.Equal(t, "en", user.LangKey)
	assert.True(t, user.Authorities.Contains(entity.AuthorityUser))
	assert.True(t, user.Authorities.Contains(entity.AuthoritySubject))
	assert.NotNil(t, user.Subject)
	assert.Nil(t, user.Provider)
	assert.Equal(t, []byte("png"), output.ActivationQR)

	m.repo.AssertExpectations(t)
}

func TestRegister_LoginHeldByActivated(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").
		Return(&entity.User{Login: "alice", Activated: true}, nil)

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret42",
	})
	assert.ErrorIs(t, err, domainerrors.ErrLoginAlreadyUsed)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_LoginHeldByUnactivatedIsReclaimed(t *testing.T) {
	srv, m := newTestService()

	stale := &entity.User{ID: uuid.New(), Login: "alice", Email: "old@example.com"}
	m.repo.On("FindByLogin", mock.Anything, "alice").Return(stale, nil)
	m.repo.On("Delete", mock.Anything, stale).Return(nil)
	m.mirror.On("Delete", mock.Anything, stale).Return(nil)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.On("Hash", "secret42").Return("hashed", nil)
	m.keyGen.On("ActivationKey").Return("key", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.qr.On("GenerateActivationQR", "key").Return([]byte("png"), nil)

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret42",
	})
	require.NoError(t, err)

	m.repo.AssertCalled(t, "Delete", mock.Anything, stale)
	m.mirror.AssertCalled(t, "Delete", mock.Anything, stale)
}

func TestRegister_EmailReclaimCommitsEvenWhenLicenseRejects(t *testing.T) {
	srv, m := newTestService()

	stale := &entity.User{ID: uuid.New(), Login: "someoneelse", Email: "alice@example.com"}
	holder := &entity.User{ID: uuid.New(), Login: "drbob", Activated: true}

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(stale, nil)
	m.repo.On("Delete", mock.Anything, stale).Return(nil)
	m.mirror.On("Delete", mock.Anything, stale).Return(nil)
	m.repo.On("FindProviderByLicense", mock.Anything, "LIC-1234", true).Return(holder, nil)

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:       "alice",
		Email:       "alice@example.com",
		Password:    "secret42",
		Authorities: []string{"ROLE_PROVIDER"},
		Provider:    &usecase.ProviderProfileInput{LicenseNumber: "LIC-1234"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrLicenseAlreadyUsed)

	// The email reclamation stays committed despite the rejection.
	m.repo.AssertCalled(t, "Delete", mock.Anything, stale)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ProviderWithoutPayload(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:       "alice",
		Email:       "alice@example.com",
		Password:    "secret42",
		Authorities: []string{"ROLE_PROVIDER"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrProviderDataMissing)
}

func TestRegister_LicenseLengthCheckedBeforeUniqueness(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)

	for _, license := range []string{"abc", "   ab    ", "123456789012345678901"} {
		_, err := srv.Register(context.Background(), &usecase.RegisterInput{
			Login:       "alice",
			Email:       "alice@example.com",
			Password:    "secret42",
			Authorities: []string{"ROLE_PROVIDER"},
			Provider:    &usecase.ProviderProfileInput{LicenseNumber: license},
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidLicenseNumber, "license %q", license)
	}

	m.repo.AssertNotCalled(t, "FindProviderByLicense", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_LicenseHeldByUnactivatedIsReclaimed(t *testing.T) {
	srv, m := newTestService()

	stale := &entity.User{ID: uuid.New(), Login: "drstale", Email: "stale@example.com"}

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindProviderByLicense", mock.Anything, "LIC-1234", true).Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindProviderByLicense", mock.Anything, "LIC-1234", false).Return(stale, nil)
	m.repo.On("Delete", mock.Anything, stale).Return(nil)
	m.mirror.On("Delete", mock.Anything, stale).Return(nil)
	m.hasher.On("Hash", "secret42").Return("hashed", nil)
	m.keyGen.On("ActivationKey").Return("key", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.qr.On("GenerateActivationQR", "key").Return([]byte("png"), nil)

	output, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:       "alice",
		Email:       "alice@example.com",
		Password:    "secret42",
		Authorities: []string{"ROLE_PROVIDER"},
		Provider:    &usecase.ProviderProfileInput{LicenseNumber: " LIC-1234 "},
	})
	require.NoError(t, err)

	m.repo.AssertCalled(t, "Delete", mock.Anything, stale)
	require.NotNil(t, output.User.Provider)
	assert.Equal(t, "LIC-1234", output.User.Provider.LicenseNumber)
	assert.True(t, output.User.Authorities.Contains(entity.AuthorityProvider))
}

func TestRegister_AdminAuthorityIsDowngraded(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "mallory").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "mallory@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.On("Hash", "secret42").Return("hashed", nil)
	m.keyGen.On("ActivationKey").Return("key", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.qr.On("GenerateActivationQR", "key").Return([]byte("png"), nil)

	output, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:       "mallory",
		Email:       "mallory@example.com",
		Password:    "secret42",
		Authorities: []string{"ROLE_ADMIN", "ROLE_BOGUS"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		entity.Authorities{entity.AuthorityUser, entity.AuthoritySubject},
		output.User.Authorities,
	)
}

func TestRegister_HashFailure(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.On("Hash", "secret42").Return("", assert.AnError)

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret42",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestRegister_QRFailureDoesNotFailRegistration(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.On("Hash", "secret42").Return("hashed", nil)
	m.keyGen.On("ActivationKey").Return("key", nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.qr.On("GenerateActivationQR", "key").Return(nil, assert.AnError)

	output, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret42",
	})
	require.NoError(t, err)
	assert.Nil(t, output.ActivationQR)
}

func TestRegister_InvalidSubjectEnums(t *testing.T) {
	srv, m := newTestService()

	m.repo.On("FindByLogin", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	m.repo.On("FindByEmailIgnoreCase", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.On("Hash", "secret42").Return("hashed", nil)
	m.keyGen.On("ActivationKey").Return("key", nil)

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret42",
		Subject:  &usecase.SubjectProfileInput{Sex: "UNKNOWN"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
