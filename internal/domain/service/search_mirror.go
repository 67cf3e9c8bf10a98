package service

import (
	"context"

	"careid/internal/domain/entity"
)

// UserDocument is the searchable projection of a user pushed to the
// secondary index. Credential and key material never leaves the primary store.
type UserDocument struct {
	ID          string   `json:"id"`
	Login       string   `json:"login"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	Activated   bool     `json:"activated"`
	Authorities []string `json:"authorities,omitempty"`
	RequestID   string   `json:"request_id,omitempty"` // For distributed tracing.
}

// NewUserDocument builds the searchable projection for a user.
func NewUserDocument(user *entity.User) *UserDocument {
	return &UserDocument{
		ID:          user.ID.String(),
		Login:       user.Login,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Activated:   user.Activated,
		Authorities: user.Authorities.ToStrings(),
	}
}

// SearchMirror keeps a secondary searchable copy of the user base in sync.
// Calls are best-effort: the lifecycle engine logs failures and never lets
// them fail the primary transaction.
type SearchMirror interface {
	// Upsert publishes the current state of the user to the index.
	Upsert(ctx context.Context, user *entity.User) error

	// Delete removes the user from the index.
	Delete(ctx context.Context, user *entity.User) error

	// Close releases any resources held by the mirror.
	Close() error
}
