package ports

import (
	"context"
	"time"

	"repair-shop/internal/features/notices/domain"
)

// NoticeRepository stores the single active notice.
type NoticeRepository interface {
	Save(ctx context.Context, notice *domain.Notice, ttl time.Duration) error
	Get(ctx context.Context) (*domain.Notice, error)
	Delete(ctx context.Context) error
}
