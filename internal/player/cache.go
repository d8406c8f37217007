package player

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/avragame/aura-engine/internal/domain"
)

// cacheSchemaVersion invalidates cached entries when the account record
// structure changes.
const cacheSchemaVersion = "1.0"

type cachedEntry struct {
	Version  string
	Player   *domain.Player
	CachedAt time.Time
}

// accountCache is an in-memory LRU in front of the store, with
// time-based expiration and version-based invalidation.
type accountCache struct {
	lru *expirable.LRU[string, *cachedEntry]
}

func newAccountCache(size int, ttl time.Duration) *accountCache {
	return &accountCache{
		lru: expirable.NewLRU[string, *cachedEntry](size, nil, ttl),
	}
}

// Get returns a cached player, or (nil, false) on miss, expiry, or
// version mismatch.
func (c *accountCache) Get(id string) (*domain.Player, bool) {
	entry, found := c.lru.Get(id)
	if !found {
		return nil, false
	}
	if entry.Version != cacheSchemaVersion {
		c.lru.Remove(id)
		return nil, false
	}
	return entry.Player, true
}

// Set stores a player under the current schema version.
func (c *accountCache) Set(p *domain.Player) {
	c.lru.Add(p.ID, &cachedEntry{
		Version:  cacheSchemaVersion,
		Player:   p,
		CachedAt: time.Now(),
	})
}

// Invalidate drops a cached entry.
func (c *accountCache) Invalidate(id string) {
	c.lru.Remove(id)
}
