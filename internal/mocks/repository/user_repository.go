// Package repository provides hand-written testify mocks for the domain
// repository interfaces.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"careid/internal/domain/entity"
	"careid/internal/domain/repository"
)

// UserRepository is a testify mock of repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)

	return userReturn(args)
}

func (m *UserRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	args := m.Called(ctx, login)

	return userReturn(args)
}

func (m *UserRepository) FindByEmailIgnoreCase(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)

	return userReturn(args)
}

func (m *UserRepository) FindByActivationKey(ctx context.Context, key string) (*entity.User, error) {
	args := m.Called(ctx, key)

	return userReturn(args)
}

func (m *UserRepository) FindByResetKey(ctx context.Context, key string) (*entity.User, error) {
	args := m.Called(ctx, key)

	return userReturn(args)
}

func (m *UserRepository) FindProviderByLicense(ctx context.Context, license string, activatedOnly bool) (*entity.User, error) {
	args := m.Called(ctx, license, activatedOnly)

	return userReturn(args)
}

func (m *UserRepository) FindAllNotActivatedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*entity.User, error) {
	args := m.Called(ctx, cutoff)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *UserRepository) FindAllExcludingLogin(ctx context.Context, excluded string, offset, limit int) ([]*entity.User, int64, error) {
	args := m.Called(ctx, excluded, offset, limit)
	users, _ := args.Get(0).([]*entity.User)
	total, _ := args.Get(1).(int64)

	return users, total, args.Error(2)
}

func (m *UserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *UserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func userReturn(args mock.Arguments) (*entity.User, error) {
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}
