package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/features/notices/domain"
	"repair-shop/internal/features/notices/ports"

	"go.uber.org/zap"
)

// NoticeService manages the storefront notice.
type NoticeService struct {
	repo ports.NoticeRepository
	now  func() time.Time
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(repo ports.NoticeRepository) *NoticeService {
	return &NoticeService{repo: repo, now: time.Now}
}

// SetNotice replaces the active notice. ttlSeconds <= 0 keeps it until removed.
func (s *NoticeService) SetNotice(ctx context.Context, title, message string, kind domain.Kind, ttlSeconds int) (*domain.Notice, error) {
	ttl := time.Duration(ttlSeconds) * time.Second
	notice, err := domain.NewNotice(title, message, kind, ttl, s.now())
	if err != nil {
		return nil, err
	}
	if ttl < 0 {
		ttl = 0
	}

	if err := s.repo.Save(ctx, notice, ttl); err != nil {
		return nil, fmt.Errorf("service: failed to save notice: %w", err)
	}
	logger.Named("notices").Info("Notice set",
		zap.String("kind", string(notice.Kind)),
		zap.Duration("ttl", ttl),
	)
	return notice, nil
}

// Current returns the active notice or domain.ErrNoNotice.
func (s *NoticeService) Current(ctx context.Context) (*domain.Notice, error) {
	notice, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrNoNotice) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to get notice: %w", err)
	}
	return notice, nil
}

// RemoveNotice deletes the active notice.
func (s *NoticeService) RemoveNotice(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("service: failed to remove notice: %w", err)
	}
	return nil
}
