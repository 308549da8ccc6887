package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"repair-shop/internal/core/database"
	"repair-shop/internal/features/orders/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SQLiteOrderRepository stores orders in the orders and order_items tables.
type SQLiteOrderRepository struct {
	db *sqlx.DB
}

// NewSQLiteOrderRepository creates a new SQLiteOrderRepository.
func NewSQLiteOrderRepository(db *sqlx.DB) *SQLiteOrderRepository {
	return &SQLiteOrderRepository{db: db}
}

type orderRow struct {
	ID            string `db:"id"`
	SessionID     string `db:"session_id"`
	CustomerID    string `db:"customer_id"`
	CustomerName  string `db:"customer_name"`
	CustomerPhone string `db:"customer_phone"`
	Total         string `db:"total"`
	CreatedAt     string `db:"created_at"`
}

type lineRow struct {
	OrderID   string `db:"order_id"`
	ProductID string `db:"product_id"`
	SKU       string `db:"sku"`
	Name      string `db:"name"`
	UnitPrice string `db:"unit_price"`
	Qty       int    `db:"qty"`
}

// Create inserts the order and its lines in one transaction.
func (r *SQLiteOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders(id, session_id, customer_id, customer_name, customer_phone, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.SessionID, order.CustomerID, order.CustomerName, order.CustomerPhone,
		order.Total.String(), database.FormatTime(order.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}

	for _, l := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items(order_id, product_id, sku, name, unit_price, qty)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, l.ProductID, l.SKU, l.Name, l.UnitPrice.String(), l.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert line %s of order %s: %w", l.ProductID, order.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order %s: %w", order.ID, err)
	}
	return nil
}

// Get returns the order with its lines.
func (r *SQLiteOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}

	orders, err := r.withLines(ctx, []orderRow{row})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// List returns the newest orders first.
func (r *SQLiteOrderRepository) List(ctx context.Context, limit int) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM orders ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return r.withLines(ctx, rows)
}

// Totals sums order totals. Amounts are stored as text, so the sum is done with decimals.
func (r *SQLiteOrderRepository) Totals(ctx context.Context) (domain.Totals, error) {
	var totals []string
	if err := r.db.SelectContext(ctx, &totals, `SELECT total FROM orders`); err != nil {
		return domain.Totals{}, fmt.Errorf("failed to read order totals: %w", err)
	}

	out := domain.Totals{Count: len(totals), Revenue: decimal.Zero}
	for _, t := range totals {
		v, err := decimal.NewFromString(t)
		if err != nil {
			return domain.Totals{}, fmt.Errorf("invalid order total %q: %w", t, err)
		}
		out.Revenue = out.Revenue.Add(v)
	}
	return out, nil
}

func (r *SQLiteOrderRepository) withLines(ctx context.Context, rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	query, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?) ORDER BY rowid`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build order lines query: %w", err)
	}
	var lines []lineRow
	if err := r.db.SelectContext(ctx, &lines, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}

	byOrder := make(map[string][]domain.OrderLine, len(rows))
	for _, l := range lines {
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid unit price %q in order %s: %w", l.UnitPrice, l.OrderID, err)
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], domain.OrderLine{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: price,
			Quantity:  l.Qty,
		})
	}

	for _, row := range rows {
		total, err := decimal.NewFromString(row.Total)
		if err != nil {
			return nil, fmt.Errorf("invalid total %q in order %s: %w", row.Total, row.ID, err)
		}
		created, err := database.ParseTime(row.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Order{
			ID:            row.ID,
			Status:        domain.OrderStatusPlaced,
			SessionID:     row.SessionID,
			CustomerID:    row.CustomerID,
			CustomerName:  row.CustomerName,
			CustomerPhone: row.CustomerPhone,
			Lines:         byOrder[row.ID],
			Total:         total,
			CreatedAt:     created,
		})
	}
	return out, nil
}
