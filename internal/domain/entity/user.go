// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity root of the system. It carries the credentials and
// account-lifecycle state shared by every role, plus exactly one of the two
// role-specific profiles.
type User struct {
	ID           uuid.UUID // The unique identifier for this account.
	Login        string    // Unique login, stored lower-case.
	Email        string    // Unique contact email, stored lower-case.
	PasswordHash string    // bcrypt hash of the account password.

	FirstName string
	LastName  string
	ImageURL  string
	LangKey   string // BCP-47 style language tag, e.g. "en".

	Activated     bool       // False until the activation key is consumed.
	ActivationKey string     // Single-use registration key. Empty once consumed.
	ResetKey      string     // Single-use password reset key. Empty when no reset is pending.
	ResetDate     *time.Time // When the pending reset key was issued.

	Authorities Authorities // Role set, e.g. {ROLE_USER, ROLE_PROVIDER}.

	Provider *ProviderProfile // Non-nil iff this account is a provider.
	Subject  *SubjectProfile  // Non-nil iff this account is a subject.

	CreatedBy      string
	CreatedAt      time.Time
	LastModifiedBy string
	UpdatedAt      time.Time
}

// ProfileKind tags which role-specific profile a user owns.
type ProfileKind string

const (
	// ProfileKindNone marks an account with no role-specific profile.
	ProfileKindNone ProfileKind = "none"
	// ProfileKindProvider marks a provider account.
	ProfileKindProvider ProfileKind = "provider"
	// ProfileKindSubject marks a subject account.
	ProfileKindSubject ProfileKind = "subject"
)

// Kind reports which role-specific profile this user owns. A user never owns
// both; the provider profile wins if persistence ever produced both.
func (u *User) Kind() ProfileKind {
	switch {
	case u.Provider != nil:
		return ProfileKindProvider
	case u.Subject != nil:
		return ProfileKindSubject
	default:
		return ProfileKindNone
	}
}
