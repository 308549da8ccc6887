package ports

import (
	"context"

	"repair-shop/internal/features/orders/domain"
)

// OrderRepository persists placed orders.
type OrderRepository interface {
	// Create stores an order together with its lines.
	Create(ctx context.Context, order *domain.Order) error
	// Get returns an order by id or domain.ErrOrderNotFound.
	Get(ctx context.Context, id string) (*domain.Order, error)
	// List returns up to limit orders, newest first.
	List(ctx context.Context, limit int) ([]domain.Order, error)
	// Totals returns the number of orders and their revenue.
	Totals(ctx context.Context) (domain.Totals, error)
}
