package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/domain/entity"
	"careid/internal/domain/service"
	mockssvc "careid/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(m *AuthMiddleware, authHeader string, next echo.HandlerFunc, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := next
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	_ = m.Authenticate(h)(c)

	return rec
}

func TestAuthenticate_SetsCurrentLogin(t *testing.T) {
	tokenSvc := new(mockssvc.TokenService)
	tokenSvc.On("ValidateToken", "good-token").Return(&service.Claims{
		Login:       "alice",
		Authorities: []string{"ROLE_USER"},
	}, nil)

	m := NewAuthMiddleware(tokenSvc)

	var seenLogin string
	rec := performRequest(m, "Bearer good-token", func(c echo.Context) error {
		login, ok := deliverycontext.GetCurrentLogin(c.Request().Context())
		require.True(t, ok)
		seenLogin = login

		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seenLogin)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(new(mockssvc.TokenService))

	rec := performRequest(m, "", func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_NotBearer(t *testing.T) {
	m := NewAuthMiddleware(new(mockssvc.TokenService))

	rec := performRequest(m, "Basic abc", func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tokenSvc := new(mockssvc.TokenService)
	tokenSvc.On("ValidateToken", "bad-token").Return(nil, assert.AnError)

	m := NewAuthMiddleware(tokenSvc)

	rec := performRequest(m, "Bearer bad-token", func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthority(t *testing.T) {
	tokenSvc := new(mockssvc.TokenService)
	tokenSvc.On("ValidateToken", "user-token").Return(&service.Claims{
		Login:       "alice",
		Authorities: []string{"ROLE_USER"},
	}, nil)
	tokenSvc.On("ValidateToken", "admin-token").Return(&service.Claims{
		Login:       "root",
		Authorities: []string{"ROLE_USER", "ROLE_ADMIN"},
	}, nil)

	m := NewAuthMiddleware(tokenSvc)
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	rec := performRequest(m, "Bearer user-token", ok, m.RequireAuthority(entity.AuthorityAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = performRequest(m, "Bearer admin-token", ok, m.RequireAuthority(entity.AuthorityAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}
