package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"repair-shop/internal/core/events"
	"repair-shop/internal/core/logger"
	customers "repair-shop/internal/features/customers/domain"
	"repair-shop/internal/features/tickets/domain"
	"repair-shop/internal/features/tickets/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateTicketInput is the intake form.
type CreateTicketInput struct {
	// Contact, when it carries a phone, registers or updates the customer.
	Contact      *customers.Contact `json:"customer,omitempty"`
	CustomerID   string             `json:"customer_id,omitempty"`
	DeviceBrand  string             `json:"device_brand"`
	DeviceModel  string             `json:"device_model"`
	DeviceSerial string             `json:"device_serial,omitempty"`
	Fault        string             `json:"fault"`
	Priority     string             `json:"priority,omitempty"`
	IntakePhotos []string           `json:"intake_photos,omitempty"`
}

// StatusChange is the payload of ticket.status_changed events.
type StatusChange struct {
	TicketNumber string            `json:"ticket_number"`
	CustomerID   string            `json:"customer_id,omitempty"`
	From         domain.Status     `json:"from"`
	To           domain.StatusInfo `json:"to"`
}

const lockStripes = 64

// TicketService runs the repair ticket workflow. Updates to one ticket are
// serialised so concurrent admin edits never overwrite each other.
type TicketService struct {
	repo      ports.TicketRepository
	customers ports.CustomerRegistrar
	publisher events.Publisher
	policy    domain.TransitionPolicy
	locks     [lockStripes]sync.Mutex
}

// NewTicketService creates a new TicketService. A nil policy means Permissive.
func NewTicketService(repo ports.TicketRepository, customers ports.CustomerRegistrar, publisher events.Publisher, policy domain.TransitionPolicy) *TicketService {
	if policy == nil {
		policy = domain.Permissive{}
	}
	return &TicketService{
		repo:      repo,
		customers: customers,
		publisher: publisher,
		policy:    policy,
	}
}

// Create opens a ticket in status received.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (*domain.Ticket, error) {
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	ticket, err := domain.NewTicket(domain.Intake{
		CustomerID:   in.CustomerID,
		DeviceBrand:  in.DeviceBrand,
		DeviceModel:  in.DeviceModel,
		Fault:        in.Fault,
		Priority:     priority,
		IntakePhotos: in.IntakePhotos,
	})
	if err != nil {
		return nil, err
	}

	if in.Contact != nil && s.customers != nil && strings.TrimSpace(in.Contact.Phone) != "" {
		contact := *in.Contact
		contact.Device = &customers.Device{Brand: in.DeviceBrand, Model: in.DeviceModel, Serial: in.DeviceSerial}
		customer, _, err := s.customers.Upsert(ctx, contact)
		if err != nil {
			return nil, fmt.Errorf("service: failed to register customer: %w", err)
		}
		ticket.CustomerID = customer.ID
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("service: failed to create ticket: %w", err)
	}

	s.log(ticket).Info("Ticket created", zap.String("priority", string(ticket.Priority)))
	s.publish(ctx, ticket, events.NewEvent(events.TicketCreated, ticket.Number, ticket))
	return ticket, nil
}

// Get returns a ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get ticket: %w", err)
	}
	return t, nil
}

// Track returns the public view of the ticket with the given number.
func (s *TicketService) Track(ctx context.Context, number string) (*domain.TrackingHistory, error) {
	t, err := s.repo.GetByNumber(ctx, domain.NormalizeNumber(number))
	if err != nil {
		return nil, fmt.Errorf("service: failed to track ticket: %w", err)
	}
	view := t.Tracking()
	return &view, nil
}

// List returns tickets, urgent first then newest.
func (s *TicketService) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list tickets: %w", err)
	}
	return list, nil
}

// CountByStatus returns the number of tickets in each of the seven statuses.
// Statuses without tickets are present with zero.
func (s *TicketService) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to count tickets: %w", err)
	}
	out := make(map[domain.Status]int, len(domain.Statuses()))
	for _, info := range domain.Statuses() {
		out[info.Status] = counts[info.Status]
	}
	return out, nil
}

// UpdateStatus moves the ticket to status as allowed by the transition policy
// and publishes ticket.status_changed when the status actually changed.
func (s *TicketService) UpdateStatus(ctx context.Context, id, status string) (*domain.Ticket, error) {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := t.Status

	changed, err := t.SetStatus(to, s.policy)
	if err != nil {
		return nil, err
	}
	if !changed {
		return t, nil
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("service: failed to update ticket status: %w", err)
	}

	s.log(t).Info("Ticket status changed", zap.String("from", string(from)), zap.String("status", string(to)))
	s.publish(ctx, t, events.NewEvent(events.TicketStatusChanged, t.Number, StatusChange{
		TicketNumber: t.Number,
		CustomerID:   t.CustomerID,
		From:         from,
		To:           to.Info(),
	}))
	return t, nil
}

// SetDiagnosis records the diagnosis and an optional quote.
func (s *TicketService) SetDiagnosis(ctx context.Context, id, diagnosis string, quote *decimal.Decimal) (*domain.Ticket, error) {
	return s.mutate(ctx, id, "diagnosis", func(t *domain.Ticket) error {
		return t.SetDiagnosis(diagnosis, quote)
	})
}

// AddPhotos appends intake or repair photo references.
func (s *TicketService) AddPhotos(ctx context.Context, id string, kind domain.PhotoKind, refs []string) (*domain.Ticket, error) {
	return s.mutate(ctx, id, "photos", func(t *domain.Ticket) error {
		return t.AddPhotos(kind, refs)
	})
}

// Sign stores the customer's signature.
func (s *TicketService) Sign(ctx context.Context, id, signature string) (*domain.Ticket, error) {
	return s.mutate(ctx, id, "signature", func(t *domain.Ticket) error {
		return t.Sign(signature)
	})
}

func (s *TicketService) mutate(ctx context.Context, id, what string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("service: failed to update ticket %s: %w", what, err)
	}
	s.log(t).Debug("Ticket updated", zap.String("field", what))
	return t, nil
}

// lockFor returns the mutex serialising read-modify-write cycles on ticket id.
func (s *TicketService) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}

func (s *TicketService) publish(ctx context.Context, t *domain.Ticket, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log(t).Warn("Failed to publish ticket event", zap.String("event", event.Name), zap.Error(err))
	}
}

func (s *TicketService) log(t *domain.Ticket) *zap.Logger {
	return logger.Named("tickets").With(zap.String("ticket_id", t.ID), zap.String("ticket_number", t.Number))
}
