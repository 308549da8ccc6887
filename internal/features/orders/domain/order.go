package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNoLines is returned when building an order without lines.
	ErrNoLines = errors.New("order has no lines")
)

// OrderStatus represents the current state of an order.
type OrderStatus string

const (
	// OrderStatusPlaced indicates the customer checked out the cart. Payment happens at the counter.
	OrderStatusPlaced OrderStatus = "PLACED"
)

// Order is a checked out cart.
type Order struct {
	// ID is the unique identifier for the order.
	ID string `json:"order_id"`
	// Status represents the current state of the order.
	Status OrderStatus `json:"status"`
	// SessionID is the storefront session whose cart produced the order.
	SessionID string `json:"session_id"`
	// CustomerID links the order to a customer record when contact data was given.
	CustomerID string `json:"customer_id,omitempty"`
	// CustomerName is the name given at checkout.
	CustomerName string `json:"customer_name,omitempty"`
	// CustomerPhone is the phone given at checkout.
	CustomerPhone string `json:"customer_phone,omitempty"`
	// Lines contains the products included in the order.
	Lines []OrderLine `json:"lines"`
	// Total is the sum of the line totals.
	Total decimal.Decimal `json:"total" swaggertype:"string"`
	// CreatedAt is the timestamp when the order was created.
	CreatedAt time.Time `json:"create_date"`
}

// OrderLine is a product snapshot within an order.
type OrderLine struct {
	// ProductID is the catalog id of the product.
	ProductID string `json:"product_id"`
	// SKU is the Stock Keeping Unit identifier for the product.
	SKU string `json:"sku"`
	// Name is the descriptive name of the product.
	Name string `json:"name"`
	// UnitPrice is the sale price at checkout time.
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string"`
	// Quantity is the number of units purchased.
	Quantity int `json:"quantity"`
}

// Total returns unit price times quantity.
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewOrder builds a placed order for the session and computes its total.
func NewOrder(sessionID string, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}

	return &Order{
		ID:        uuid.NewString(),
		Status:    OrderStatusPlaced,
		SessionID: sessionID,
		Lines:     append([]OrderLine(nil), lines...),
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Totals aggregates orders for the admin dashboard.
type Totals struct {
	// Count is the number of orders.
	Count int `json:"count"`
	// Revenue is the sum of order totals.
	Revenue decimal.Decimal `json:"revenue" swaggertype:"string"`
}
