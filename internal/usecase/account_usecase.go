// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"careid/internal/domain/entity"
)

// --- Input DTOs ---

// DegreeInput is one professional credential in a provider payload.
type DegreeInput struct {
	Name           string
	Institute      string
	Country        string
	EnrollmentYear int
	PassingYear    int
}

// ProviderProfileInput is the provider sub-payload. When supplied on an
// update, every field overwrites the stored profile; there is no partial
// merge within the sub-object.
type ProviderProfileInput struct {
	Phone            string
	LicenseNumber    string
	NationalID       string
	PassportNo       string
	Type             int
	Department       int
	Designation      string
	Description      string
	Address          string
	Latitude         *float64
	Longitude        *float64
	Image            []byte
	ImageContentType string
	Degrees          []DegreeInput
}

// SubjectProfileInput is the subject sub-payload, with the same
// whole-sub-object overwrite semantics as ProviderProfileInput.
type SubjectProfileInput struct {
	Phone            string
	Sex              string
	BirthTimestamp   *time.Time
	BloodGroup       string
	WeightInKG       float64
	HeightInInch     float64
	Address          string
	Latitude         *float64
	Longitude        *float64
	Image            []byte
	ImageContentType string
}

// RegisterInput defines the data required to register a new account.
// Requested authorities decide the role branch; an administrative role in
// the request is silently downgraded.
type RegisterInput struct {
	Login     string
	Email     string
	Password  string
	FirstName string
	LastName  string
	LangKey   string
	ImageURL  string

	Authorities []string
	Provider    *ProviderProfileInput
	Subject     *SubjectProfileInput
}

// UpdateAccountInput carries a self-service profile update. Scalar fields
// always overwrite; a nil sub-payload leaves the stored profile untouched.
type UpdateAccountInput struct {
	FirstName string
	LastName  string
	Email     string
	LangKey   string
	ImageURL  string

	Provider *ProviderProfileInput
	Subject  *SubjectProfileInput
}

// CreateUserInput is the administrative creation payload. The account is
// born activated with a random password and a pre-issued reset key.
type CreateUserInput struct {
	Login       string
	Email       string
	FirstName   string
	LastName    string
	LangKey     string
	ImageURL    string
	Authorities []string
}

// UpdateUserInput is the administrative update payload, addressed by the
// target's current login. Nil fields are left unchanged; a non-nil
// Authorities slice replaces the full authority set.
type UpdateUserInput struct {
	Login string

	NewLogin    *string
	Email       *string
	FirstName   *string
	LastName    *string
	LangKey     *string
	ImageURL    *string
	Activated   *bool
	Authorities []string
}

// ChangePasswordInput carries a self-service password change.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account plus a QR code encoding
// its activation link for the mobile app. The QR is best-effort and may be
// nil when rendering failed.
type RegisterOutput struct {
	User         *entity.User
	ActivationQR []byte
}

// UserPage is one page of managed users together with the total count.
type UserPage struct {
	Users []*entity.User
	Total int64
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (API handlers, scheduler) depends on.
type AccountUsecase interface {
	// Register runs the registration and uniqueness arbitration flow.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Activate consumes an activation key, flipping the account to activated.
	Activate(ctx context.Context, key string) (*entity.User, error)

	// RequestPasswordReset issues a reset key for an activated account.
	RequestPasswordReset(ctx context.Context, email string) (*entity.User, error)

	// CompletePasswordReset consumes a reset key and stores the new password.
	CompletePasswordReset(ctx context.Context, key, newPassword string) (*entity.User, error)

	// ChangePassword changes the current account's password after verifying
	// the existing one.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error

	// GetAccount returns the current account resolved from the caller context.
	GetAccount(ctx context.Context) (*entity.User, error)

	// UpdateCurrentAccount merges a self-service update into the current account.
	UpdateCurrentAccount(ctx context.Context, input *UpdateAccountInput) (*entity.User, error)

	// CreateUser administratively creates an activated account.
	CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error)

	// UpdateUser administratively rewrites an account, including login and
	// authority set.
	UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error)

	// GetUserByLogin returns one user through the read-through cache.
	GetUserByLogin(ctx context.Context, login string) (*entity.User, error)

	// GetAllManagedUsers pages through users, excluding the anonymous account.
	GetAllManagedUsers(ctx context.Context, page, size int) (*UserPage, error)

	// DeleteUser removes the account with the given login. Absent logins are
	// a no-op.
	DeleteUser(ctx context.Context, login string) error

	// RemoveNotActivatedUsers deletes accounts that never activated within
	// the retention window. Returns the number of accounts removed.
	RemoveNotActivatedUsers(ctx context.Context) (int, error)
}
