package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when no product matches the identifier.
	ErrProductNotFound = errors.New("product not found")
	// ErrNegativePrice is returned when a sale price below zero is given.
	ErrNegativePrice = errors.New("sale price must not be negative")
	// ErrNegativeStock is returned when a stock count below zero is given.
	ErrNegativeStock = errors.New("stock must not be negative")
	// ErrMissingIdentity is returned when a product lacks its id, sku or name.
	ErrMissingIdentity = errors.New("product id, sku and name are required")
)

// Product is a sellable catalog entry. Carts treat it as read-only.
type Product struct {
	// ID is the unique product identifier.
	ID string `json:"id"`
	// SKU is the stock keeping unit code.
	SKU string `json:"sku"`
	// Name is the display name.
	Name string `json:"name"`
	// Price is the unit sale price in UYU.
	Price decimal.Decimal `json:"sale_price" swaggertype:"string"`
	// Stock is the number of units available.
	Stock int `json:"stock"`
	// CriticalStock is the threshold at or below which stock is considered critical.
	CriticalStock int `json:"critical_stock"`
	// Category tags the product type (e.g., memoria, almacenamiento).
	Category string `json:"category"`
	// Active reports whether the product is listed in the storefront.
	Active bool `json:"active"`
	// ImageURL is an optional image reference.
	ImageURL string `json:"image_url,omitempty"`
}

// NewProduct builds a validated, active Product.
func NewProduct(id, sku, name string, price decimal.Decimal, stock, criticalStock int, category string) (*Product, error) {
	p := &Product{
		ID:            strings.TrimSpace(id),
		SKU:           strings.TrimSpace(sku),
		Name:          strings.TrimSpace(name),
		Price:         price,
		Stock:         stock,
		CriticalStock: criticalStock,
		Category:      strings.TrimSpace(category),
		Active:        true,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product invariants.
func (p *Product) Validate() error {
	if p.ID == "" || p.SKU == "" || p.Name == "" {
		return ErrMissingIdentity
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// IsCriticalStock reports whether stock has dropped to the critical threshold.
func (p *Product) IsCriticalStock() bool {
	return p.Stock <= p.CriticalStock
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	// Category keeps only products with this tag when set.
	Category string
	// Query matches name or SKU case-insensitively when set.
	Query string
	// IncludeInactive also returns delisted products (admin views).
	IncludeInactive bool
}

// Matches reports whether p passes the filter.
func (f ProductFilter) Matches(p Product) bool {
	if !f.IncludeInactive && !p.Active {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	return true
}
