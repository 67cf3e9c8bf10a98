// Package cache provides the in-process user lookup cache.
package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/fx"

	"careid/config"
	"careid/internal/domain/entity"
	"careid/internal/domain/service"
)

const defaultTTL = 5 * time.Minute

// ttlUserCache implements service.UserCache on top of an expiring
// in-process cache. Keys are namespaced by keyspace so login and email
// lookups never collide.
type ttlUserCache struct {
	cache *ttlcache.Cache[string, *entity.User]
}

// Params defines the parameters required for the user cache
type Params struct {
	fx.In

	Config    *config.Config
	Lifecycle fx.Lifecycle
}

// NewUserCache creates the shared user cache and ties its expiry loop to the
// application lifecycle.
func NewUserCache(params Params) service.UserCache {
	userCache := newTTLUserCache(params.Config)

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go userCache.cache.Start()

			return nil
		},
		OnStop: func(_ context.Context) error {
			userCache.cache.Stop()

			return nil
		},
	})

	return userCache
}

func newTTLUserCache(cfg *config.Config) *ttlUserCache {
	ttl := defaultTTL
	var capacity uint64
	if cfg.Cache != nil {
		if cfg.Cache.TTL > 0 {
			ttl = cfg.Cache.TTL
		}
		capacity = cfg.Cache.Capacity
	}

	// Entries expire a fixed TTL after the last write; reads do not extend
	// their lifetime.
	opts := []ttlcache.Option[string, *entity.User]{
		ttlcache.WithTTL[string, *entity.User](ttl),
		ttlcache.WithDisableTouchOnHit[string, *entity.User](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, *entity.User](capacity))
	}

	return &ttlUserCache{cache: ttlcache.New(opts...)}
}

// Get returns the cached user for the key, if present.
func (c *ttlUserCache) Get(keyspace service.CacheKeyspace, key string) (*entity.User, bool) {
	item := c.cache.Get(cacheKey(keyspace, key))
	if item == nil {
		return nil, false
	}

	return item.Value(), true
}

// Put stores the user under the key.
func (c *ttlUserCache) Put(keyspace service.CacheKeyspace, key string, user *entity.User) {
	c.cache.Set(cacheKey(keyspace, key), user, ttlcache.DefaultTTL)
}

// Evict drops the entry for the key. Evicting an absent key is a no-op.
func (c *ttlUserCache) Evict(keyspace service.CacheKeyspace, key string) {
	c.cache.Delete(cacheKey(keyspace, key))
}

func cacheKey(keyspace service.CacheKeyspace, key string) string {
	return string(keyspace) + ":" + key
}
