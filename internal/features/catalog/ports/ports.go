package ports

import (
	"context"

	"repair-shop/internal/features/catalog/domain"
)

// ProductProvider is the read side of the catalog. It has a static fixture
// implementation and a live database implementation.
type ProductProvider interface {
	// List returns the products matching filter, ordered by name.
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	// Get returns a product by id or domain.ErrProductNotFound.
	Get(ctx context.Context, id string) (*domain.Product, error)
	// Suggested returns up to limit products promoted in the storefront.
	Suggested(ctx context.Context, limit int) ([]domain.Product, error)
}

// ProductRepository is a ProductProvider that can also be written to.
type ProductRepository interface {
	ProductProvider
	// Save inserts or updates a product.
	Save(ctx context.Context, product *domain.Product) error
	// LowStock returns active products whose stock is at or below their critical threshold.
	LowStock(ctx context.Context) ([]domain.Product, error)
}
