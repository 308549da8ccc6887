package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedCart is returned when stored cart data cannot be used.
var ErrMalformedCart = errors.New("malformed stored cart")

// EncodeItems serializes line items as the stored JSON array of {product, quantity}.
func EncodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}
	return data, nil
}

// DecodeItems parses a stored array. Data that is not JSON, or that breaks the
// line item invariants (missing product id, quantity < 1, negative price or
// duplicate product), yields ErrMalformedCart.
func DecodeItems(data []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}

	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Product.ID == "" {
			return nil, fmt.Errorf("%w: line item without product id", ErrMalformedCart)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %s has quantity %d", ErrMalformedCart, it.Product.ID, it.Quantity)
		}
		if it.Product.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %s has negative price %s", ErrMalformedCart, it.Product.ID, it.Product.Price)
		}
		if _, dup := seen[it.Product.ID]; dup {
			return nil, fmt.Errorf("%w: product %s appears twice", ErrMalformedCart, it.Product.ID)
		}
		seen[it.Product.ID] = struct{}{}
	}
	return items, nil
}
