// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"careid/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
// Callers decide whether absence is fatal; it is not an application error by itself.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
//
// The underlying store must enforce unique constraints on the normalized login
// and normalized email as a backstop against check-then-act races; constraint
// violations at commit time surface as the matching domain conflict error.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByLogin retrieves a single user by their login. Logins are stored
	// lower-case; callers normalize before lookup.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)

	// FindByEmailIgnoreCase retrieves a single user by email, compared
	// case-insensitively.
	FindByEmailIgnoreCase(ctx context.Context, email string) (*entity.User, error)

	// FindByActivationKey retrieves the user holding the given activation key.
	FindByActivationKey(ctx context.Context, key string) (*entity.User, error)

	// FindByResetKey retrieves the user holding the given password reset key.
	FindByResetKey(ctx context.Context, key string) (*entity.User, error)

	// FindProviderByLicense retrieves the user owning a provider profile with
	// the given license number. With activatedOnly set, only users that have
	// completed activation are considered.
	FindProviderByLicense(ctx context.Context, license string, activatedOnly bool) (*entity.User, error)

	// FindAllNotActivatedCreatedBefore lists every unactivated user created
	// before the cutoff, oldest first.
	FindAllNotActivatedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*entity.User, error)

	// FindAllExcludingLogin pages through users, skipping the given reserved
	// login. Returns the page and the total count.
	FindAllExcludingLogin(ctx context.Context, excluded string, offset, limit int) ([]*entity.User, int64, error)

	// Create persists a new user entity together with its role profile.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity, including its role profile.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user. The role profile and its degree records are
	// removed with it. Deleting an already-deleted user is a no-op.
	Delete(ctx context.Context, user *entity.User) error
}
