package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"careid/config"
	"careid/internal/domain/entity"
	"careid/internal/domain/service"
)

func TestTTLUserCache_PutGetEvict(t *testing.T) {
	userCache := newTTLUserCache(&config.Config{})

	user := &entity.User{Login: "jdoe", Email: "jdoe@example.com"}
	userCache.Put(service.CacheByLogin, "jdoe", user)

	got, ok := userCache.Get(service.CacheByLogin, "jdoe")
	assert.True(t, ok)
	assert.Equal(t, user, got)

	userCache.Evict(service.CacheByLogin, "jdoe")
	_, ok = userCache.Get(service.CacheByLogin, "jdoe")
	assert.False(t, ok)
}

func TestTTLUserCache_KeyspacesAreIsolated(t *testing.T) {
	userCache := newTTLUserCache(&config.Config{})

	user := &entity.User{Login: "jdoe", Email: "jdoe@example.com"}
	userCache.Put(service.CacheByLogin, "jdoe", user)

	// Same key in the other keyspace must not resolve
	_, ok := userCache.Get(service.CacheByEmail, "jdoe")
	assert.False(t, ok)

	userCache.Put(service.CacheByEmail, "jdoe@example.com", user)
	userCache.Evict(service.CacheByLogin, "jdoe")

	// Email entry survives login eviction
	got, ok := userCache.Get(service.CacheByEmail, "jdoe@example.com")
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestTTLUserCache_EvictAbsentKeyIsNoop(t *testing.T) {
	userCache := newTTLUserCache(&config.Config{})

	assert.NotPanics(t, func() {
		userCache.Evict(service.CacheByLogin, "missing")
	})
}

func TestTTLUserCache_ConfiguredTTL(t *testing.T) {
	cfg := &config.Config{
		Cache: &config.CacheConfig{TTL: 10 * time.Millisecond},
	}
	userCache := newTTLUserCache(cfg)
	go userCache.cache.Start()
	defer userCache.cache.Stop()

	userCache.Put(service.CacheByLogin, "jdoe", &entity.User{Login: "jdoe"})

	assert.Eventually(t, func() bool {
		_, ok := userCache.Get(service.CacheByLogin, "jdoe")

		return !ok
	}, time.Second, 10*time.Millisecond)
}
