// Package constants holds domain-wide constants shared across layers.
package constants

import "time"

const (
	// LoginRegex is the pattern every login must match.
	LoginRegex = "^[_.@A-Za-z0-9-]*$"

	// PhoneRegex is the pattern phone numbers must match: 7 to 15 digits,
	// optionally space separated.
	PhoneRegex = "^(?:[0-9] ?){6,14}[0-9]$"

	// LicenseNumberMinLength is the shortest acceptable provider license number.
	LicenseNumberMinLength = 4
	// LicenseNumberMaxLength is the longest acceptable provider license number.
	LicenseNumberMaxLength = 20

	// PasswordMinLength is the shortest acceptable account password.
	PasswordMinLength = 4
	// PasswordMaxLength is the longest acceptable account password.
	PasswordMaxLength = 100

	// SystemAccount is the audit principal used for actions not attributable
	// to a human actor.
	SystemAccount = "system"

	// AnonymousUser is the reserved login backing unauthenticated access.
	// It is never listed, never deleted and can never be registered.
	AnonymousUser = "anonymoususer"

	// DefaultLanguage is the language tag assigned when none is supplied.
	DefaultLanguage = "en"

	// ResetKeyValidity is how long a password reset key stays usable after
	// it was issued.
	ResetKeyValidity = 24 * time.Hour

	// UnactivatedRetention is how long a never-activated account is kept
	// before the sweep removes it.
	UnactivatedRetention = 3 * 24 * time.Hour
)

// Pub/Sub provider names accepted in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
	PubSubProviderNoop   = "noop"
)
