package middleware

import (
	"strings"

	deliverycontext "careid/internal/delivery/context"
	"careid/internal/delivery/http/response"
	"careid/internal/domain/entity"
	"careid/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
// Tokens are issued by the platform gateway; this service only validates.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and stores the acting login on the
// request context for the account engine to resolve.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "ACCESS_TOKEN_INVALID", "Invalid or expired token")
		}
		if claims.Login == "" {
			return response.Unauthorized(c, "ACCESS_TOKEN_INVALID", "Login missing from token")
		}

		// Set auth info on echo.Context for role checks
		c.Set("login", claims.Login)
		c.Set("authorities", claims.Authorities)

		// Propagate the acting login into context.Context for the usecase layer
		ctx := deliverycontext.WithCurrentLogin(c.Request().Context(), claims.Login)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireAuthority is a middleware factory that checks the token's authority
// claims. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAuthority(required entity.Authority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorities, ok := c.Get("authorities").([]string)
			if !ok {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: authority information missing")
			}

			if !entity.AuthoritiesFromStrings(authorities).Contains(required) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+required.String()+"' authority")
			}

			return next(c)
		}
	}
}
