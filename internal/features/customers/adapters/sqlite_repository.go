package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"repair-shop/internal/core/database"
	"repair-shop/internal/features/customers/domain"

	"github.com/jmoiron/sqlx"
)

// SQLiteCustomerRepository stores customers in the customers table.
// Devices are kept as a JSON array column.
type SQLiteCustomerRepository struct {
	db *sqlx.DB
}

// NewSQLiteCustomerRepository creates a new SQLiteCustomerRepository.
func NewSQLiteCustomerRepository(db *sqlx.DB) *SQLiteCustomerRepository {
	return &SQLiteCustomerRepository{db: db}
}

type customerRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	WhatsApp    string `db:"whatsapp"`
	Address     string `db:"address"`
	Notes       string `db:"notes"`
	DevicesJSON string `db:"devices_json"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

// Get returns a customer by id.
func (r *SQLiteCustomerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return r.getBy(ctx, "id", id)
}

// FindByPhone returns the customer registered with phone.
func (r *SQLiteCustomerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return r.getBy(ctx, "phone", domain.NormalizePhone(phone))
}

func (r *SQLiteCustomerRepository) getBy(ctx context.Context, column, value string) (*domain.Customer, error) {
	var row customerRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM customers WHERE `+column+` = ?`, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by %s: %w", column, err)
	}
	c, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save upserts a customer keyed by id.
func (r *SQLiteCustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	devices := c.Devices
	if devices == nil {
		devices = []domain.Device{}
	}
	devicesJSON, err := json.Marshal(devices)
	if err != nil {
		return fmt.Errorf("failed to marshal devices: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO customers(id, name, phone, email, whatsapp, address, notes, devices_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  phone = excluded.phone,
		  email = excluded.email,
		  whatsapp = excluded.whatsapp,
		  address = excluded.address,
		  notes = excluded.notes,
		  devices_json = excluded.devices_json,
		  updated_at = excluded.updated_at
	`, c.ID, c.Name, c.Phone, c.Email, c.WhatsApp, c.Address, c.Notes, string(devicesJSON),
		database.FormatTime(c.CreatedAt), database.FormatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save customer %s: %w", c.ID, err)
	}
	return nil
}

// List returns customers ordered by name.
func (r *SQLiteCustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	query := `SELECT * FROM customers`
	args := []any{}
	if q := strings.TrimSpace(filter.Query); q != "" {
		clause := `LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(q)+"%")
		if digits := domain.NormalizePhone(q); digits != "" {
			clause += ` OR phone LIKE ?`
			args = append(args, "%"+digits+"%")
		}
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY LOWER(name), created_at`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []customerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (row customerRow) toDomain() (domain.Customer, error) {
	var devices []domain.Device
	if err := json.Unmarshal([]byte(row.DevicesJSON), &devices); err != nil {
		return domain.Customer{}, fmt.Errorf("invalid devices for customer %s: %w", row.ID, err)
	}
	if devices == nil {
		devices = []domain.Device{}
	}
	created, err := database.ParseTime(row.CreatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	updated, err := database.ParseTime(row.UpdatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	return domain.Customer{
		ID:        row.ID,
		Name:      row.Name,
		Phone:     row.Phone,
		Email:     row.Email,
		WhatsApp:  row.WhatsApp,
		Address:   row.Address,
		Notes:     row.Notes,
		Devices:   devices,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
