package ports

import (
	"context"

	catalog "repair-shop/internal/features/catalog/domain"
	orders "repair-shop/internal/features/orders/domain"
	tickets "repair-shop/internal/features/tickets/domain"
)

// TicketStats is the ticket data the dashboard reads.
type TicketStats interface {
	CountByStatus(ctx context.Context) (map[tickets.Status]int, error)
	List(ctx context.Context, filter tickets.TicketFilter) ([]tickets.Ticket, error)
}

// StockReport lists products that need restocking.
type StockReport interface {
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

// OrderStats aggregates placed orders.
type OrderStats interface {
	Totals(ctx context.Context) (orders.Totals, error)
}
