package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTicketNotFound is returned when the ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrDeviceRequired is returned when a ticket is opened without a device model.
	ErrDeviceRequired = errors.New("device model is required")
	// ErrFaultRequired is returned when a ticket is opened without a fault description.
	ErrFaultRequired = errors.New("fault description is required")
	// ErrNegativeQuote is returned for quotes below zero.
	ErrNegativeQuote = errors.New("quoted price must not be negative")
	// ErrInvalidPhotoKind is returned for photo kinds other than intake and repair.
	ErrInvalidPhotoKind = errors.New("photo kind must be intake or repair")
	// ErrNoPhotos is returned when no photo references are given.
	ErrNoPhotos = errors.New("at least one photo reference is required")
	// ErrSignatureRequired is returned when signing with an empty signature.
	ErrSignatureRequired = errors.New("signature is required")
)

// NumberPrefix is the prefix of every ticket number.
const NumberPrefix = "SAT-"

// FormatNumber renders the customer-facing ticket number for a sequence value.
func FormatNumber(seq int64) string {
	return fmt.Sprintf("%s%05d", NumberPrefix, seq)
}

// NormalizeNumber upper-cases a number typed by a customer and adds the prefix when missing.
func NormalizeNumber(raw string) string {
	n := strings.ToUpper(strings.TrimSpace(raw))
	if n != "" && !strings.HasPrefix(n, NumberPrefix) {
		n = NumberPrefix + n
	}
	return n
}

// PhotoKind tells intake photos apart from repair photos.
type PhotoKind string

const (
	PhotoIntake PhotoKind = "intake"
	PhotoRepair PhotoKind = "repair"
)

// Ticket is a repair job.
type Ticket struct {
	ID           string           `json:"id"`
	Seq          int64            `json:"-"`
	Number       string           `json:"ticket_number"`
	CustomerID   string           `json:"customer_id,omitempty"`
	DeviceBrand  string           `json:"device_brand"`
	DeviceModel  string           `json:"device_model"`
	Fault        string           `json:"fault"`
	Diagnosis    string           `json:"diagnosis,omitempty"`
	QuotedPrice  *decimal.Decimal `json:"quoted_price,omitempty" swaggertype:"string"`
	Status       Status           `json:"status"`
	Priority     Priority         `json:"priority"`
	IntakePhotos []string         `json:"intake_photos"`
	RepairPhotos []string         `json:"repair_photos"`
	Signature    string           `json:"signature,omitempty"`
	// StatusHistory holds the first time each status was reached.
	StatusHistory map[Status]time.Time `json:"status_history"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Intake is the data captured at the counter when a device is received.
type Intake struct {
	CustomerID   string
	DeviceBrand  string
	DeviceModel  string
	Fault        string
	Priority     Priority
	IntakePhotos []string
}

// NewTicket opens a ticket in status received. The number is assigned when stored.
func NewTicket(in Intake) (*Ticket, error) {
	model := strings.TrimSpace(in.DeviceModel)
	if model == "" {
		return nil, ErrDeviceRequired
	}
	fault := strings.TrimSpace(in.Fault)
	if fault == "" {
		return nil, ErrFaultRequired
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	now := time.Now().UTC()
	return &Ticket{
		ID:            uuid.NewString(),
		CustomerID:    in.CustomerID,
		DeviceBrand:   strings.TrimSpace(in.DeviceBrand),
		DeviceModel:   model,
		Fault:         fault,
		Status:        StatusReceived,
		Priority:      priority,
		IntakePhotos:  compact(in.IntakePhotos),
		RepairPhotos:  []string{},
		StatusHistory: map[Status]time.Time{StatusReceived: now},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetStatus moves the ticket to status if policy allows it. Reaching a status
// for the first time records it in StatusHistory. It reports whether the
// status changed.
func (t *Ticket) SetStatus(to Status, policy TransitionPolicy) (bool, error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if err := policy.Allow(t.Status, to); err != nil {
		return false, err
	}
	if to == t.Status {
		return false, nil
	}

	now := time.Now().UTC()
	t.Status = to
	if t.StatusHistory == nil {
		t.StatusHistory = map[Status]time.Time{}
	}
	if _, seen := t.StatusHistory[to]; !seen {
		t.StatusHistory[to] = now
	}
	t.UpdatedAt = now
	return true, nil
}

// SetDiagnosis records the technician's findings and an optional quote.
func (t *Ticket) SetDiagnosis(diagnosis string, quote *decimal.Decimal) error {
	if quote != nil && quote.IsNegative() {
		return ErrNegativeQuote
	}
	t.Diagnosis = strings.TrimSpace(diagnosis)
	t.QuotedPrice = quote
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// AddPhotos appends photo references of the given kind.
func (t *Ticket) AddPhotos(kind PhotoKind, refs []string) error {
	refs = compact(refs)
	if len(refs) == 0 {
		return ErrNoPhotos
	}
	switch kind {
	case PhotoIntake:
		t.IntakePhotos = append(t.IntakePhotos, refs...)
	case PhotoRepair:
		t.RepairPhotos = append(t.RepairPhotos, refs...)
	default:
		return ErrInvalidPhotoKind
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Sign stores the customer's signature image reference.
func (t *Ticket) Sign(signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrSignatureRequired
	}
	t.Signature = signature
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsOpen reports whether the ticket still needs work.
func (t *Ticket) IsOpen() bool {
	return !t.Status.IsTerminal()
}

// Tracking returns the customer-facing view of the ticket.
func (t *Ticket) Tracking() TrackingHistory {
	events := make([]TrackingEvent, 0, len(t.StatusHistory))
	for s, at := range t.StatusHistory {
		info := s.Info()
		events = append(events, TrackingEvent{Date: at, Status: s, Label: info.Label, Description: info.Description})
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].Status.Info().Step < events[j].Status.Info().Step
		}
		return events[i].Date.Before(events[j].Date)
	})

	return TrackingHistory{
		Number:       t.Number,
		DeviceBrand:  t.DeviceBrand,
		DeviceModel:  t.DeviceModel,
		GlobalStatus: t.Status.Info(),
		Diagnosis:    t.Diagnosis,
		QuotedPrice:  t.QuotedPrice,
		History:      events,
		UpdatedAt:    t.UpdatedAt,
	}
}

// TicketFilter narrows a ticket listing.
type TicketFilter struct {
	Status     Status
	Priority   Priority
	CustomerID string
	// OpenOnly excludes delivered and rejected tickets.
	OpenOnly bool
	Limit    int
}

func compact(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
