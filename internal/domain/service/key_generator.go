package service

// KeyGenerator produces the single-use tokens that drive the account
// lifecycle. Keys must be unguessable; the implementation draws from a
// cryptographically secure source.
type KeyGenerator interface {
	// ActivationKey returns a fresh activation key for a new registration.
	ActivationKey() (string, error)

	// ResetKey returns a fresh password reset key.
	ResetKey() (string, error)

	// Password returns a random initial password for administratively
	// created accounts.
	Password() (string, error)
}
