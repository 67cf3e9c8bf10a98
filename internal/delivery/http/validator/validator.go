// Package validator adapts go-playground/validator to Echo's Validator
// interface so handlers can rely on struct tags for input validation.
package validator

import (
	"regexp"

	"careid/internal/domain/constants"
	domainerrors "careid/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	loginPattern = regexp.MustCompile(constants.LoginRegex)
	phonePattern = regexp.MustCompile(constants.PhoneRegex)
)

type echoValidator struct {
	validate *validator.Validate
}

// New creates the Echo validator backed by go-playground/validator. The
// custom login and phone tags enforce the patterns persisted identifiers
// must match.
func New() echo.Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("login", matchesPattern(loginPattern))
	_ = validate.RegisterValidation("phone", matchesPattern(phonePattern))

	return &echoValidator{validate: validate}
}

func matchesPattern(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

// Validate runs struct-tag validation and maps failures to the shared
// validation error so the error handler renders them uniformly.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
