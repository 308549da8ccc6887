package domain

import (
	"errors"

	catalog "repair-shop/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned when adding a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrEmptyCart is returned when checking out a cart without line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProductInactive is returned when adding a delisted product.
	ErrProductInactive = errors.New("product is not available for sale")
)

// LineItem pairs a product with the quantity selected. Quantity is always >= 1.
type LineItem struct {
	// Product is the snapshot of the product taken when it was added.
	Product catalog.Product `json:"product"`
	// Quantity is the number of units.
	Quantity int `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered set of line items, at most one per product id, plus a
// visibility flag used by the storefront drawer. Totals are never stored.
type Cart struct {
	items []LineItem
	open  bool
}

// NewCart returns a cart holding items in the given order.
func NewCart(items []LineItem) *Cart {
	c := &Cart{items: make([]LineItem, 0, len(items))}
	c.items = append(c.items, items...)
	return c
}

// AddItem merges quantity into the product's line item, appending a new one
// at the end when the product is not in the cart yet. It opens the cart.
func (c *Cart) AddItem(product catalog.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.index(product.ID); i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, LineItem{Product: product, Quantity: quantity})
	}
	c.open = true
	return nil
}

// RemoveItem drops the product's line item. Unknown ids are ignored.
func (c *Cart) RemoveItem(productID string) {
	if i := c.index(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// UpdateQuantity sets the product's quantity to exactly quantity, removing the
// line item when quantity <= 0. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.items[i].Quantity = quantity
	}
}

// Clear empties the cart and closes it.
func (c *Cart) Clear() {
	c.items = c.items[:0]
	c.open = false
}

// Open shows the cart.
func (c *Cart) Open() { c.open = true }

// Close hides the cart.
func (c *Cart) Close() { c.open = false }

// IsOpen reports the visibility flag.
func (c *Cart) IsOpen() bool { return c.open }

// SetOpen restores the visibility flag, typically after hydration.
func (c *Cart) SetOpen(open bool) { c.open = open }

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the line item for productID.
func (c *Cart) Item(productID string) (LineItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity, before shipping or discounts.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (c *Cart) index(productID string) int {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// View is the read model of a cart with its derived totals.
type View struct {
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal" swaggertype:"string"`
	IsOpen    bool            `json:"is_open"`
}

// View computes the cart's read model.
func (c *Cart) View() View {
	return View{
		Items:     c.Items(),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		IsOpen:    c.open,
	}
}
