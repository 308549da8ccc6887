package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"repair-shop/internal/core/database"
	"repair-shop/internal/features/tickets/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SQLiteTicketRepository stores tickets in the tickets table. Photo lists and
// the status history are JSON columns.
type SQLiteTicketRepository struct {
	db *sqlx.DB
}

// NewSQLiteTicketRepository creates a new SQLiteTicketRepository.
func NewSQLiteTicketRepository(db *sqlx.DB) *SQLiteTicketRepository {
	return &SQLiteTicketRepository{db: db}
}

type ticketRow struct {
	ID                string         `db:"id"`
	Seq               int64          `db:"seq"`
	Number            string         `db:"ticket_number"`
	CustomerID        string         `db:"customer_id"`
	DeviceBrand       string         `db:"device_brand"`
	DeviceModel       string         `db:"device_model"`
	Fault             string         `db:"fault"`
	Diagnosis         string         `db:"diagnosis"`
	QuotedPrice       sql.NullString `db:"quoted_price"`
	Status            string         `db:"status"`
	Priority          string         `db:"priority"`
	IntakePhotosJSON  string         `db:"intake_photos_json"`
	RepairPhotosJSON  string         `db:"repair_photos_json"`
	Signature         string         `db:"signature"`
	StatusHistoryJSON string         `db:"status_history_json"`
	CreatedAt         string         `db:"created_at"`
	UpdatedAt         string         `db:"updated_at"`
}

// Create assigns the next sequence value inside the insert transaction.
func (r *SQLiteTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM tickets`); err != nil {
		return fmt.Errorf("failed to allocate ticket number: %w", err)
	}

	row, err := toRow(t)
	if err != nil {
		return err
	}
	row.Seq = seq
	row.Number = domain.FormatNumber(seq)

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO tickets(id, seq, ticket_number, customer_id, device_brand, device_model, fault, diagnosis,
		  quoted_price, status, priority, intake_photos_json, repair_photos_json, signature, status_history_json,
		  created_at, updated_at)
		VALUES (:id, :seq, :ticket_number, :customer_id, :device_brand, :device_model, :fault, :diagnosis,
		  :quoted_price, :status, :priority, :intake_photos_json, :repair_photos_json, :signature, :status_history_json,
		  :created_at, :updated_at)`, row)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket: %w", err)
	}

	t.Seq = seq
	t.Number = row.Number
	return nil
}

// Get returns a ticket by id.
func (r *SQLiteTicketRepository) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.getBy(ctx, "id", id)
}

// GetByNumber returns a ticket by number.
func (r *SQLiteTicketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	return r.getBy(ctx, "ticket_number", number)
}

func (r *SQLiteTicketRepository) getBy(ctx context.Context, column, value string) (*domain.Ticket, error) {
	var row ticketRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM tickets WHERE `+column+` = ?`, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by %s: %w", column, err)
	}
	t, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update overwrites the mutable columns of the ticket.
func (r *SQLiteTicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	row, err := toRow(t)
	if err != nil {
		return err
	}
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE tickets SET
		  customer_id = :customer_id,
		  device_brand = :device_brand,
		  device_model = :device_model,
		  fault = :fault,
		  diagnosis = :diagnosis,
		  quoted_price = :quoted_price,
		  status = :status,
		  priority = :priority,
		  intake_photos_json = :intake_photos_json,
		  repair_photos_json = :repair_photos_json,
		  signature = :signature,
		  status_history_json = :status_history_json,
		  updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("failed to update ticket %s: %w", t.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// List orders urgent tickets first, then newest first.
func (r *SQLiteTicketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	where := []string{"1 = 1"}
	args := []any{}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.CustomerID != "" {
		where = append(where, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.OpenOnly {
		where = append(where, "status NOT IN (?, ?)")
		args = append(args, string(domain.StatusDelivered), string(domain.StatusRejected))
	}

	query := `SELECT * FROM tickets WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY CASE priority WHEN 'urgent' THEN 0 ELSE 1 END, created_at DESC, seq DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []ticketRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	out := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// CountByStatus groups tickets by status.
func (r *SQLiteTicketRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM tickets GROUP BY status`); err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	out := make(map[domain.Status]int, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.N
	}
	return out, nil
}

func toRow(t *domain.Ticket) (ticketRow, error) {
	intake, err := json.Marshal(nonNil(t.IntakePhotos))
	if err != nil {
		return ticketRow{}, fmt.Errorf("failed to marshal intake photos: %w", err)
	}
	repair, err := json.Marshal(nonNil(t.RepairPhotos))
	if err != nil {
		return ticketRow{}, fmt.Errorf("failed to marshal repair photos: %w", err)
	}
	history := make(map[domain.Status]string, len(t.StatusHistory))
	for s, at := range t.StatusHistory {
		history[s] = database.FormatTime(at)
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return ticketRow{}, fmt.Errorf("failed to marshal status history: %w", err)
	}

	row := ticketRow{
		ID:                t.ID,
		Seq:               t.Seq,
		Number:            t.Number,
		CustomerID:        t.CustomerID,
		DeviceBrand:       t.DeviceBrand,
		DeviceModel:       t.DeviceModel,
		Fault:             t.Fault,
		Diagnosis:         t.Diagnosis,
		Status:            string(t.Status),
		Priority:          string(t.Priority),
		IntakePhotosJSON:  string(intake),
		RepairPhotosJSON:  string(repair),
		Signature:         t.Signature,
		StatusHistoryJSON: string(historyJSON),
		CreatedAt:         database.FormatTime(t.CreatedAt),
		UpdatedAt:         database.FormatTime(t.UpdatedAt),
	}
	if t.QuotedPrice != nil {
		row.QuotedPrice = sql.NullString{String: t.QuotedPrice.String(), Valid: true}
	}
	return row, nil
}

func (row ticketRow) toDomain() (domain.Ticket, error) {
	t := domain.Ticket{
		ID:          row.ID,
		Seq:         row.Seq,
		Number:      row.Number,
		CustomerID:  row.CustomerID,
		DeviceBrand: row.DeviceBrand,
		DeviceModel: row.DeviceModel,
		Fault:       row.Fault,
		Diagnosis:   row.Diagnosis,
		Status:      domain.Status(row.Status),
		Priority:    domain.Priority(row.Priority),
		Signature:   row.Signature,
	}
	if row.QuotedPrice.Valid {
		q, err := decimal.NewFromString(row.QuotedPrice.String)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("invalid quote %q on ticket %s: %w", row.QuotedPrice.String, row.ID, err)
		}
		t.QuotedPrice = &q
	}
	if err := json.Unmarshal([]byte(row.IntakePhotosJSON), &t.IntakePhotos); err != nil {
		return domain.Ticket{}, fmt.Errorf("invalid intake photos on ticket %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.RepairPhotosJSON), &t.RepairPhotos); err != nil {
		return domain.Ticket{}, fmt.Errorf("invalid repair photos on ticket %s: %w", row.ID, err)
	}
	t.IntakePhotos = nonNil(t.IntakePhotos)
	t.RepairPhotos = nonNil(t.RepairPhotos)

	var history map[domain.Status]string
	if err := json.Unmarshal([]byte(row.StatusHistoryJSON), &history); err != nil {
		return domain.Ticket{}, fmt.Errorf("invalid status history on ticket %s: %w", row.ID, err)
	}
	t.StatusHistory = make(map[domain.Status]time.Time, len(history))
	for s, raw := range history {
		at, err := database.ParseTime(raw)
		if err != nil {
			return domain.Ticket{}, err
		}
		t.StatusHistory[s] = at
	}

	var err error
	if t.CreatedAt, err = database.ParseTime(row.CreatedAt); err != nil {
		return domain.Ticket{}, err
	}
	if t.UpdatedAt, err = database.ParseTime(row.UpdatedAt); err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
