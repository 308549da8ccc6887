package ports

import (
	"context"
	"errors"

	customers "repair-shop/internal/features/customers/domain"
	orders "repair-shop/internal/features/orders/domain"
)

// ErrSlotEmpty is returned by Slot.Read when nothing has been stored yet.
var ErrSlotEmpty = errors.New("storage slot is empty")

// Slot is a single durable value holding serialized cart state.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Remove(ctx context.Context) error
}

// CartStorage hands out the slots of a storefront session.
type CartStorage interface {
	// Items is the slot holding the JSON array of line items.
	Items(session string) Slot
	// Visibility is the slot holding the open/closed flag.
	Visibility(session string) Slot
}

// OrderPlacer records a checked out cart.
type OrderPlacer interface {
	Place(ctx context.Context, order *orders.Order) error
}

// CustomerRegistrar creates or updates the customer giving contact data at checkout.
type CustomerRegistrar interface {
	Upsert(ctx context.Context, contact customers.Contact) (*customers.Customer, bool, error)
}
