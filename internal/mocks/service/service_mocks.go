// Package service provides hand-written testify mocks and fakes for the
// domain service interfaces.
package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"careid/internal/domain/entity"
	"careid/internal/domain/service"
)

// PasswordHasher is a testify mock of service.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

var _ service.PasswordHasher = (*PasswordHasher)(nil)

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// KeyGenerator is a testify mock of service.KeyGenerator.
type KeyGenerator struct {
	mock.Mock
}

var _ service.KeyGenerator = (*KeyGenerator)(nil)

func (m *KeyGenerator) ActivationKey() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

func (m *KeyGenerator) ResetKey() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

func (m *KeyGenerator) Password() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

// SearchMirror is a testify mock of service.SearchMirror.
type SearchMirror struct {
	mock.Mock
}

var _ service.SearchMirror = (*SearchMirror)(nil)

func (m *SearchMirror) Upsert(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *SearchMirror) Delete(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *SearchMirror) Close() error {
	args := m.Called()

	return args.Error(0)
}

// NotificationPublisher is a testify mock of service.NotificationPublisher.
type NotificationPublisher struct {
	mock.Mock
}

var _ service.NotificationPublisher = (*NotificationPublisher)(nil)

func (m *NotificationPublisher) PublishAccountNotification(ctx context.Context, notification *service.AccountNotification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *NotificationPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// AlertNotifier is a testify mock of service.AlertNotifier.
type AlertNotifier struct {
	mock.Mock
}

var _ service.AlertNotifier = (*AlertNotifier)(nil)

func (m *AlertNotifier) PushSecurityAlert(ctx context.Context, user *entity.User, event string) error {
	args := m.Called(ctx, user, event)

	return args.Error(0)
}

// QRCodeService is a testify mock of service.QRCodeService.
type QRCodeService struct {
	mock.Mock
}

var _ service.QRCodeService = (*QRCodeService)(nil)

func (m *QRCodeService) GenerateActivationQR(activationKey string) ([]byte, error) {
	args := m.Called(activationKey)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// TokenService is a testify mock of service.TokenService.
type TokenService struct {
	mock.Mock
}

var _ service.TokenService = (*TokenService)(nil)

func (m *TokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

// FakeUserCache is a map-backed service.UserCache for asserting read-through
// and eviction behavior without timing concerns.
type FakeUserCache struct {
	entries map[string]*entity.User
}

var _ service.UserCache = (*FakeUserCache)(nil)

func NewFakeUserCache() *FakeUserCache {
	return &FakeUserCache{entries: make(map[string]*entity.User)}
}

func (c *FakeUserCache) Get(keyspace service.CacheKeyspace, key string) (*entity.User, bool) {
	user, ok := c.entries[string(keyspace)+":"+key]

	return user, ok
}

func (c *FakeUserCache) Put(keyspace service.CacheKeyspace, key string, user *entity.User) {
	c.entries[string(keyspace)+":"+key] = user
}

func (c *FakeUserCache) Evict(keyspace service.CacheKeyspace, key string) {
	delete(c.entries, string(keyspace)+":"+key)
}

// Len reports the number of cached entries.
func (c *FakeUserCache) Len() int {
	return len(c.entries)
}
