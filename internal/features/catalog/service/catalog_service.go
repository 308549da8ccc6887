package service

import (
	"context"
	"fmt"

	"repair-shop/internal/features/catalog/domain"
	"repair-shop/internal/features/catalog/ports"
)

const (
	defaultSuggested = 4
	maxSuggested     = 20
)

// CatalogService exposes the product catalog regardless of which provider backs it.
type CatalogService struct {
	repo ports.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo ports.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProducts returns the products matching filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product. Missing products yield domain.ErrProductNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

// Suggested returns the storefront's promoted products. limit is clamped to [1, 20].
func (s *CatalogService) Suggested(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultSuggested
	}
	if limit > maxSuggested {
		limit = maxSuggested
	}
	products, err := s.repo.Suggested(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get suggested products: %w", err)
	}
	return products, nil
}

// SaveProduct validates and stores a product.
func (s *CatalogService) SaveProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return fmt.Errorf("service: failed to save product: %w", err)
	}
	return nil
}

// LowStock returns the products that need restocking.
func (s *CatalogService) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get low stock products: %w", err)
	}
	return products, nil
}
