package ports

import (
	"context"

	customers "repair-shop/internal/features/customers/domain"
	"repair-shop/internal/features/tickets/domain"
)

// TicketRepository is the ticket side of the data store.
type TicketRepository interface {
	// Create stores a new ticket and assigns its sequence and number.
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Get returns a ticket by id or domain.ErrTicketNotFound.
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	// GetByNumber returns a ticket by its SAT number or domain.ErrTicketNotFound.
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	// Update persists every mutable field of an existing ticket.
	Update(ctx context.Context, ticket *domain.Ticket) error
	// List returns tickets matching filter, urgent first then newest.
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	// CountByStatus returns the number of tickets per status.
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
}

// CustomerRegistrar creates or updates the customer bringing a device in.
type CustomerRegistrar interface {
	Upsert(ctx context.Context, contact customers.Contact) (*customers.Customer, bool, error)
}
