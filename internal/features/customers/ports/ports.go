package ports

import (
	"context"

	"repair-shop/internal/features/customers/domain"
)

// CustomerRepository is the customer side of the data store.
type CustomerRepository interface {
	// Get returns a customer by id or domain.ErrCustomerNotFound.
	Get(ctx context.Context, id string) (*domain.Customer, error)
	// FindByPhone returns the customer with the normalized phone or domain.ErrCustomerNotFound.
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	// Save inserts or updates a customer.
	Save(ctx context.Context, customer *domain.Customer) error
	// List returns customers matching filter ordered by name.
	List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)
}
