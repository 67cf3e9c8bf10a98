package handler

import (
	"testing"

	httpvalidator "careid/internal/delivery/http/validator"
	domainerrors "careid/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() registerRequest {
	return registerRequest{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret",
	}
}

func assertValidationFailed(t *testing.T, err error) {
	t.Helper()

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
}

func TestRegisterRequestValidation_LoginPattern(t *testing.T) {
	v := httpvalidator.New()

	valid := []string{"alice", "alice.bob", "alice@example.com", "a_b-c.9"}
	for _, login := range valid {
		req := validRegisterRequest()
		req.Login = login
		assert.NoError(t, v.Validate(&req), "login %q should be accepted", login)
	}

	invalid := []string{"evil!!user#$%", "alice bob", "alice/bob", "läser"}
	for _, login := range invalid {
		req := validRegisterRequest()
		req.Login = login
		assertValidationFailed(t, v.Validate(&req))
	}
}

func TestCreateUserRequestValidation_LoginPattern(t *testing.T) {
	v := httpvalidator.New()

	req := createUserRequest{Login: "evil!!user#$%", Email: "x@example.com"}
	assertValidationFailed(t, v.Validate(&req))
}

func TestUpdateUserRequestValidation_LoginPattern(t *testing.T) {
	v := httpvalidator.New()

	bad := "evil!!user#$%"
	assertValidationFailed(t, v.Validate(&updateUserRequest{Login: &bad}))

	good := "renamed.user"
	assert.NoError(t, v.Validate(&updateUserRequest{Login: &good}))
}

func TestProfilePayloadValidation_PhonePattern(t *testing.T) {
	v := httpvalidator.New()

	valid := []string{"", "0123456", "0123 456 789", "123456789012345"}
	for _, phone := range valid {
		req := validRegisterRequest()
		req.Subject = &subjectProfilePayload{Phone: phone}
		assert.NoError(t, v.Validate(&req), "phone %q should be accepted", phone)
	}

	invalid := []string{"abc", "12345", "+8801700000000", "123456 "}
	for _, phone := range invalid {
		req := validRegisterRequest()
		req.Subject = &subjectProfilePayload{Phone: phone}
		assertValidationFailed(t, v.Validate(&req))
	}
}

func TestProviderPayloadValidation_PhonePattern(t *testing.T) {
	v := httpvalidator.New()

	req := validRegisterRequest()
	req.Provider = &providerProfilePayload{Phone: "not-a-number", LicenseNumber: "LIC-1"}
	assertValidationFailed(t, v.Validate(&req))
}
