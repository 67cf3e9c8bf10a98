package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomKeyGenerator_ActivationKey(t *testing.T) {
	generator := NewRandomKeyGenerator()

	key, err := generator.ActivationKey()
	assert.NoError(t, err)
	assert.Len(t, key, keyLength)

	// Activation keys are numeric
	for _, r := range key {
		assert.True(t, r >= '0' && r <= '9', "expected digit, got %q", r)
	}
}

func TestRandomKeyGenerator_ResetKey(t *testing.T) {
	generator := NewRandomKeyGenerator()

	key, err := generator.ResetKey()
	assert.NoError(t, err)
	assert.Len(t, key, keyLength)

	for _, r := range key {
		assert.True(t, r >= '0' && r <= '9', "expected digit, got %q", r)
	}
}

func TestRandomKeyGenerator_Password(t *testing.T) {
	generator := NewRandomKeyGenerator()

	password, err := generator.Password()
	assert.NoError(t, err)
	assert.Len(t, password, passwordLength)
}

func TestRandomKeyGenerator_KeysAreUnique(t *testing.T) {
	generator := NewRandomKeyGenerator()

	seen := make(map[string]bool)
	for range 100 {
		key, err := generator.ActivationKey()
		assert.NoError(t, err)
		assert.False(t, seen[key], "duplicate key generated: %s", key)
		seen[key] = true
	}
}
