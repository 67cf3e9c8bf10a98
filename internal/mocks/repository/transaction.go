package repository

import (
	"context"

	"careid/internal/domain/repository"
)

// StubFactory hands out a fixed UserRepository, standing in for a
// transaction-bound repository factory.
type StubFactory struct {
	Repo repository.UserRepository
}

var _ repository.RepositoryFactory = (*StubFactory)(nil)

func (f *StubFactory) UserRepo() repository.UserRepository {
	return f.Repo
}

// PassthroughTransactionManager executes the callback directly against the
// stub factory, without any real transaction. BeginErr, when set, is
// returned instead of running the callback.
type PassthroughTransactionManager struct {
	Factory  repository.RepositoryFactory
	BeginErr error
}

var _ repository.TransactionManager = (*PassthroughTransactionManager)(nil)

func (m *PassthroughTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}

	return fn(m.Factory)
}
