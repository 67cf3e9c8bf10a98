package service

import "careid/internal/domain/entity"

// CacheKeyspace names one of the two keyed lookup caches.
type CacheKeyspace string

const (
	// CacheByLogin is the keyspace for lookups by normalized login.
	CacheByLogin CacheKeyspace = "usersByLogin"
	// CacheByEmail is the keyspace for lookups by normalized email.
	CacheByEmail CacheKeyspace = "usersByEmail"
)

// UserCache is the process-wide read-through cache for user lookups.
// It is an injected capability constructed once at startup and shared by all
// request handlers. Implementations must be safe for concurrent use; eviction
// races are harmless (at worst a stale read until the next write).
type UserCache interface {
	// Get returns the cached user for the key, if present.
	Get(keyspace CacheKeyspace, key string) (*entity.User, bool)

	// Put stores the user under the key.
	Put(keyspace CacheKeyspace, key string, user *entity.User)

	// Evict drops the entry for the key. Evicting an absent key is a no-op.
	Evict(keyspace CacheKeyspace, key string)
}
