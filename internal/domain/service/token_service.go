package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by access tokens issued by the
// platform gateway. This service only validates; token issuance happens
// upstream.
type Claims struct {
	Login       string   `json:"login"`
	Authorities []string `json:"auth"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for validating JWT access tokens so the
// delivery layer can resolve the acting login for current-account operations.
type TokenService interface {
	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)
}
