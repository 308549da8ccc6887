package service

import (
	"context"
	"fmt"

	"repair-shop/internal/core/events"
	"repair-shop/internal/core/logger"
	"repair-shop/internal/features/orders/domain"
	"repair-shop/internal/features/orders/ports"

	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// OrderService records placed orders and serves them to the back office.
type OrderService struct {
	// repo is where orders are persisted.
	repo ports.OrderRepository
	// publisher announces placed orders.
	publisher events.Publisher
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(repo ports.OrderRepository, publisher events.Publisher) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
	}
}

// Place stores the order and publishes order.placed. A publish failure is
// logged but does not undo the order.
func (s *OrderService) Place(ctx context.Context, order *domain.Order) error {
	if err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("service: failed to place order: %w", err)
	}

	log := logger.Named("orders").With(zap.String("order_id", order.ID), zap.String("session_id", order.SessionID))
	log.Info("Order placed", zap.String("total", order.Total.String()), zap.Int("lines", len(order.Lines)))

	event := events.NewEvent(events.OrderPlaced, order.ID, order)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish order event", zap.Error(err))
	}
	return nil
}

// GetOrder retrieves an order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get order: %w", err)
	}
	return order, nil
}

// ListOrders returns the newest orders. limit <= 0 uses the default.
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	orders, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

// Totals returns order count and revenue.
func (s *OrderService) Totals(ctx context.Context) (domain.Totals, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("service: failed to compute order totals: %w", err)
	}
	return totals, nil
}
