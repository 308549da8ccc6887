package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackingHistory is what a customer sees when looking up a ticket number.
// It leaves out contact data, photos and the signature.
type TrackingHistory struct {
	// Number is the ticket number.
	Number string `json:"ticket_number"`
	// DeviceBrand is the brand of the device under repair.
	DeviceBrand string `json:"device_brand"`
	// DeviceModel is the model of the device under repair.
	DeviceModel string `json:"device_model"`
	// GlobalStatus is the current status with its display metadata.
	GlobalStatus StatusInfo `json:"global_status"`
	// Diagnosis is the technician's finding, once available.
	Diagnosis string `json:"diagnosis,omitempty"`
	// QuotedPrice is the repair quote, once available.
	QuotedPrice *decimal.Decimal `json:"quoted_price,omitempty" swaggertype:"string"`
	// History contains the statuses reached so far in chronological order.
	History []TrackingEvent `json:"history"`
	// UpdatedAt is the last time the ticket changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackingEvent is one status reached by the ticket.
type TrackingEvent struct {
	// Date is when the status was first reached.
	Date time.Time `json:"date"`
	// Status is the status reached.
	Status Status `json:"status"`
	// Label is the display label of the status.
	Label string `json:"label"`
	// Description is the customer-facing explanation of the status.
	Description string `json:"description"`
}
