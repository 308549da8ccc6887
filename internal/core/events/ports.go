package events

import (
	"context"
	"time"
)

// Event names published by the application.
const (
	TicketCreated       = "ticket.created"
	TicketStatusChanged = "ticket.status_changed"
	OrderPlaced         = "order.placed"
)

// Event is a notification emitted after a state change.
type Event struct {
	// Name identifies the kind of event (e.g., ticket.status_changed).
	Name string `json:"name"`
	// Key is the identifier of the entity the event is about.
	Key string `json:"key"`
	// OccurredAt is when the change happened.
	OccurredAt time.Time `json:"occurred_at"`
	// Payload carries event specific data.
	Payload any `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time.
func NewEvent(name, key string, payload any) Event {
	return Event{
		Name:       name,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events to interested consumers (notification workers, dashboards).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
