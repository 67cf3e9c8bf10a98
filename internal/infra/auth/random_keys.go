package auth

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"

	"careid/internal/domain/service"
)

const (
	keyLength      = 20
	passwordLength = 20

	digits       = "0123456789"
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randomKeyGenerator implements service.KeyGenerator backed by crypto/rand.
// Activation and reset keys are 20-digit numeric strings; generated
// passwords are 20-character alphanumeric strings.
type randomKeyGenerator struct{}

// NewRandomKeyGenerator is the constructor for randomKeyGenerator.
func NewRandomKeyGenerator() service.KeyGenerator {
	return &randomKeyGenerator{}
}

// ActivationKey returns a fresh activation key for a new registration.
func (g *randomKeyGenerator) ActivationKey() (string, error) {
	return randomString(digits, keyLength)
}

// ResetKey returns a fresh password reset key.
func (g *randomKeyGenerator) ResetKey() (string, error) {
	return randomString(digits, keyLength)
}

// Password returns a random initial password for administratively created accounts.
func (g *randomKeyGenerator) Password() (string, error) {
	return randomString(alphanumeric, passwordLength)
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)

	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "read random source")
		}
		out[i] = alphabet[n.Int64()]
	}

	return string(out), nil
}
