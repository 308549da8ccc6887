package adapters

import (
	"context"
	"sort"
	"sync"

	"repair-shop/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
)

// FixtureProvider is an in-memory catalog preloaded with demo products.
// It backs the storefront when no database is wanted (DATA_PROVIDER=fixture).
type FixtureProvider struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewFixtureProvider creates a FixtureProvider holding DemoProducts.
func NewFixtureProvider() *FixtureProvider {
	return NewFixtureProviderWith(DemoProducts())
}

// NewFixtureProviderWith creates a FixtureProvider holding the given products.
func NewFixtureProviderWith(products []domain.Product) *FixtureProvider {
	m := make(map[string]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &FixtureProvider{products: m}
}

// DemoProducts returns the static demonstration catalog.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{ID: "ram-ddr4-8", SKU: "RAM-DDR4-8G", Name: "Memoria RAM DDR4 8GB 3200MHz", Price: decimal.NewFromInt(1490), Stock: 12, CriticalStock: 3, Category: "memoria", Active: true},
		{ID: "ram-ddr4-16", SKU: "RAM-DDR4-16G", Name: "Memoria RAM DDR4 16GB 3200MHz", Price: decimal.NewFromInt(2690), Stock: 6, CriticalStock: 2, Category: "memoria", Active: true},
		{ID: "ssd-nvme-512", SKU: "SSD-NVME-512", Name: "SSD NVMe M.2 512GB", Price: decimal.NewFromInt(2390), Stock: 9, CriticalStock: 3, Category: "almacenamiento", Active: true},
		{ID: "ssd-sata-480", SKU: "SSD-SATA-480", Name: "SSD SATA 2.5\" 480GB", Price: decimal.NewFromInt(1790), Stock: 2, CriticalStock: 3, Category: "almacenamiento", Active: true},
		{ID: "charger-usbc-65", SKU: "CHG-USBC-65W", Name: "Cargador USB-C 65W", Price: decimal.NewFromInt(1290), Stock: 15, CriticalStock: 4, Category: "accesorios", Active: true},
		{ID: "paste-thermal", SKU: "THM-PASTE-4G", Name: "Pasta térmica 4g", Price: decimal.NewFromInt(390), Stock: 30, CriticalStock: 5, Category: "accesorios", Active: true},
	}
}

// List returns the matching products ordered by name.
func (f *FixtureProvider) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	sortByName(out)
	return out, nil
}

// Get returns a copy of the product with the given id.
func (f *FixtureProvider) Get(_ context.Context, id string) (*domain.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// Suggested returns active products comfortably above their critical stock.
func (f *FixtureProvider) Suggested(ctx context.Context, limit int) ([]domain.Product, error) {
	all, err := f.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, limit)
	for _, p := range all {
		if len(out) == limit {
			break
		}
		if !p.IsCriticalStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Save inserts or replaces a product.
func (f *FixtureProvider) Save(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.products[product.ID] = *product
	return nil
}

// LowStock returns active products at or below their critical threshold.
func (f *FixtureProvider) LowStock(ctx context.Context) ([]domain.Product, error) {
	all, err := f.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range all {
		if p.IsCriticalStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func sortByName(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}
