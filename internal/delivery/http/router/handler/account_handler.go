// Package handler contains the HTTP handlers for the account service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/delivery/http/response"
	"careid/internal/domain/service"
	"careid/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for self-service account handlers.
type AccountHandler struct {
	uc       usecase.AccountUsecase
	notifier service.NotificationPublisher
	logger   *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, notifier service.NotificationPublisher, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:       uc,
		notifier: notifier,
		logger:   logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.RegisterInput{
		Login:       req.Login,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		LangKey:     req.LangKey,
		ImageURL:    req.ImageURL,
		Authorities: req.Authorities,
		Provider:    req.Provider.toInput(),
		Subject:     req.Subject.toInput(),
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.notify(c.Request().Context(), &service.AccountNotification{
		Type:    service.NotificationActivation,
		Login:   output.User.Login,
		Email:   output.User.Email,
		LangKey: output.User.LangKey,
		Key:     output.User.ActivationKey,
	})

	return response.Success(c, http.StatusCreated, registerView{
		User:         toUserView(output.User),
		ActivationQR: output.ActivationQR,
	})
}

// Activate handles the activation link, consuming the key from the query.
func (h *AccountHandler) Activate(c echo.Context) error {
	key := c.QueryParam("key")

	user, err := h.uc.Activate(c.Request().Context(), key)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

// RequestPasswordReset handles the first phase of a password reset.
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req resetPasswordInitRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	h.notify(c.Request().Context(), &service.AccountNotification{
		Type:    service.NotificationPasswordReset,
		Login:   user.Login,
		Email:   user.Email,
		LangKey: user.LangKey,
		Key:     user.ResetKey,
	})

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password reset key sent"})
}

// CompletePasswordReset handles the second phase of a password reset.
func (h *AccountHandler) CompletePasswordReset(c echo.Context) error {
	var req resetPasswordFinishRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.uc.CompletePasswordReset(c.Request().Context(), req.Key, req.NewPassword); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password reset"})
}

// ChangePassword handles a self-service password change.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.uc.ChangePassword(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed"})
}

// GetAccount returns the current account.
func (h *AccountHandler) GetAccount(c echo.Context) error {
	user, err := h.uc.GetAccount(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

// UpdateAccount merges a self-service update into the current account.
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.UpdateAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		LangKey:   req.LangKey,
		ImageURL:  req.ImageURL,
		Provider:  req.Provider.toInput(),
		Subject:   req.Subject.toInput(),
	}

	user, err := h.uc.UpdateCurrentAccount(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

// notify publishes an account notification. Delivery is best-effort; a
// failed publish never fails the request that triggered it.
func (h *AccountHandler) notify(ctx context.Context, notification *service.AccountNotification) {
	notification.RequestID = deliverycontext.GetRequestID(ctx)
	if err := h.notifier.PublishAccountNotification(ctx, notification); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Failed to publish account notification",
			slog.String("type", notification.Type),
			slog.String("login", notification.Login),
			slog.Any("error", err),
		)
	}
}
