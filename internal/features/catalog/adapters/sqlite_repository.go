package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"repair-shop/internal/core/database"
	"repair-shop/internal/features/catalog/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SQLiteProductRepository is the live catalog backed by the products table.
type SQLiteProductRepository struct {
	db *sqlx.DB
}

// NewSQLiteProductRepository creates a new SQLiteProductRepository.
func NewSQLiteProductRepository(db *sqlx.DB) *SQLiteProductRepository {
	return &SQLiteProductRepository{db: db}
}

// productRow mirrors the products table.
type productRow struct {
	ID            string `db:"id"`
	SKU           string `db:"sku"`
	Name          string `db:"name"`
	Price         string `db:"price"`
	Stock         int    `db:"stock"`
	CriticalStock int    `db:"critical_stock"`
	Category      string `db:"category"`
	Active        bool   `db:"active"`
	ImageURL      string `db:"image_url"`
}

const productColumns = `id, sku, name, price, stock, critical_stock, category, active, image_url`

// List returns the matching products ordered by name.
func (r *SQLiteProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	where := []string{"1 = 1"}
	args := []any{}

	if !filter.IncludeInactive {
		where = append(where, "active = 1")
	}
	if filter.Category != "" {
		where = append(where, "LOWER(category) = LOWER(?)")
		args = append(args, filter.Category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)")
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") + ` ORDER BY name`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return mapRows(rows)
}

// Get returns a product by id.
func (r *SQLiteProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Suggested returns active products comfortably above their critical stock.
func (r *SQLiteProductRepository) Suggested(ctx context.Context, limit int) ([]domain.Product, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+productColumns+` FROM products
		WHERE active = 1 AND stock > critical_stock
		ORDER BY name
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggested products: %w", err)
	}
	return mapRows(rows)
}

// LowStock returns active products at or below their critical threshold.
func (r *SQLiteProductRepository) LowStock(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+productColumns+` FROM products
		WHERE active = 1 AND stock <= critical_stock
		ORDER BY stock, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return mapRows(rows)
}

// Save upserts a product.
func (r *SQLiteProductRepository) Save(ctx context.Context, p *domain.Product) error {
	now := database.FormatTime(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products(`+productColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  sku = excluded.sku,
		  name = excluded.name,
		  price = excluded.price,
		  stock = excluded.stock,
		  critical_stock = excluded.critical_stock,
		  category = excluded.category,
		  active = excluded.active,
		  image_url = excluded.image_url,
		  updated_at = excluded.updated_at
	`, p.ID, p.SKU, p.Name, p.Price.String(), p.Stock, p.CriticalStock, p.Category, p.Active, p.ImageURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return nil
}

func (row productRow) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price %q for product %s: %w", row.Price, row.ID, err)
	}
	return domain.Product{
		ID:            row.ID,
		SKU:           row.SKU,
		Name:          row.Name,
		Price:         price,
		Stock:         row.Stock,
		CriticalStock: row.CriticalStock,
		Category:      row.Category,
		Active:        row.Active,
		ImageURL:      row.ImageURL,
	}, nil
}

func mapRows(rows []productRow) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
