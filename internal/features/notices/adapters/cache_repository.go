package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/features/notices/domain"
)

const noticeKey = "shop_notice"

// CacheNoticeRepository keeps the notice in the shared cache so it expires on its own.
type CacheNoticeRepository struct {
	cache cache.Cache
}

// NewCacheNoticeRepository creates a new CacheNoticeRepository.
func NewCacheNoticeRepository(c cache.Cache) *CacheNoticeRepository {
	return &CacheNoticeRepository{cache: c}
}

// Save stores the notice. A zero ttl keeps it until deleted.
func (r *CacheNoticeRepository) Save(ctx context.Context, notice *domain.Notice, ttl time.Duration) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}
	if err := r.cache.Set(ctx, noticeKey, data, ttl); err != nil {
		return fmt.Errorf("failed to save notice to cache: %w", err)
	}
	return nil
}

// Get returns the active notice or domain.ErrNoNotice.
func (r *CacheNoticeRepository) Get(ctx context.Context) (*domain.Notice, error) {
	data, err := r.cache.Get(ctx, noticeKey)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, domain.ErrNoNotice
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notice from cache: %w", err)
	}

	var notice domain.Notice
	if err := json.Unmarshal(data, &notice); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notice: %w", err)
	}
	return &notice, nil
}

// Delete removes the notice.
func (r *CacheNoticeRepository) Delete(ctx context.Context) error {
	if err := r.cache.Delete(ctx, noticeKey); err != nil {
		return fmt.Errorf("failed to delete notice from cache: %w", err)
	}
	return nil
}
