package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/delivery/http/response"
	"careid/internal/domain/service"
	"careid/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for administrative user management.
type AdminHandler struct {
	uc       usecase.AccountUsecase
	notifier service.NotificationPublisher
	logger   *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(uc usecase.AccountUsecase, notifier service.NotificationPublisher, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		uc:       uc,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateUser administratively creates an activated account. The owner picks
// their own password through the reset flow started by the creation mail.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.CreateUserInput{
		Login:       req.Login,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		LangKey:     req.LangKey,
		ImageURL:    req.ImageURL,
		Authorities: req.Authorities,
	}

	user, err := h.uc.CreateUser(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.notify(c.Request().Context(), &service.AccountNotification{
		Type:    service.NotificationCreation,
		Login:   user.Login,
		Email:   user.Email,
		LangKey: user.LangKey,
		Key:     user.ResetKey,
	})

	return response.Success(c, http.StatusCreated, toUserView(user))
}

// GetUser returns one user by login.
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.uc.GetUserByLogin(c.Request().Context(), c.Param("login"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

// ListUsers pages through all managed users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	result, err := h.uc.GetAllManagedUsers(c.Request().Context(), page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	users := make([]userView, len(result.Users))
	for i, user := range result.Users {
		users[i] = toUserView(user)
	}

	return response.Success(c, http.StatusOK, userPageView{
		Users: users,
		Total: result.Total,
		Page:  page,
		Size:  size,
	})
}

// UpdateUser administratively rewrites the account addressed by the path login.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.UpdateUserInput{
		Login:       c.Param("login"),
		NewLogin:    req.Login,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		LangKey:     req.LangKey,
		ImageURL:    req.ImageURL,
		Activated:   req.Activated,
		Authorities: req.Authorities,
	}

	user, err := h.uc.UpdateUser(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user))
}

// DeleteUser removes the account addressed by the path login.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.uc.DeleteUser(c.Request().Context(), c.Param("login")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *AdminHandler) notify(ctx context.Context, notification *service.AccountNotification) {
	notification.RequestID = deliverycontext.GetRequestID(ctx)
	if err := h.notifier.PublishAccountNotification(ctx, notification); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Failed to publish account notification",
			slog.String("type", notification.Type),
			slog.String("login", notification.Login),
			slog.Any("error", err),
		)
	}
}
