package adapters

import (
	"context"
	"errors"
	"time"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/features/cart/ports"
)

// CacheCartStorage keeps carts in the key-value cache under
// "<prefix>:<session>" with the visibility flag at "<prefix>:<session>:open".
type CacheCartStorage struct {
	cache  cache.Cache
	prefix string
	ttl    time.Duration
}

// NewCacheCartStorage creates a CacheCartStorage. A ttl of 0 keeps carts forever.
func NewCacheCartStorage(c cache.Cache, prefix string, ttl time.Duration) *CacheCartStorage {
	return &CacheCartStorage{cache: c, prefix: prefix, ttl: ttl}
}

// Key returns the key of the session's line item slot.
func (s *CacheCartStorage) Key(session string) string {
	return s.prefix + ":" + session
}

// Items implements ports.CartStorage.
func (s *CacheCartStorage) Items(session string) ports.Slot {
	return &cacheSlot{cache: s.cache, key: s.Key(session), ttl: s.ttl}
}

// Visibility implements ports.CartStorage.
func (s *CacheCartStorage) Visibility(session string) ports.Slot {
	return &cacheSlot{cache: s.cache, key: s.Key(session) + ":open", ttl: s.ttl}
}

type cacheSlot struct {
	cache cache.Cache
	key   string
	ttl   time.Duration
}

func (s *cacheSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.cache.Get(ctx, s.key)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ports.ErrSlotEmpty
	}
	return data, err
}

func (s *cacheSlot) Write(ctx context.Context, data []byte) error {
	return s.cache.Set(ctx, s.key, data, s.ttl)
}

func (s *cacheSlot) Remove(ctx context.Context) error {
	return s.cache.Delete(ctx, s.key)
}
