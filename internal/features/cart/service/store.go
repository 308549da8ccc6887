package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	catalog "repair-shop/internal/features/catalog/domain"
	"repair-shop/internal/features/cart/domain"
	"repair-shop/internal/features/cart/ports"

	"go.uber.org/zap"
)

// ErrNotHydrated is returned by mutations attempted before Hydrate succeeded.
var ErrNotHydrated = errors.New("cart store is not hydrated")

var (
	openFlag   = []byte("1")
	closedFlag = []byte("0")
)

// Store is a Cart bound to its durable slots. Until Hydrate has read the
// stored value, the store refuses to write so it can never clobber it.
type Store struct {
	mu         sync.Mutex
	items      ports.Slot
	visibility ports.Slot
	cart       *domain.Cart
	hydrated   bool
	log        *zap.Logger
}

// NewStore creates an empty, not yet hydrated store.
func NewStore(items, visibility ports.Slot, log *zap.Logger) *Store {
	return &Store{
		items:      items,
		visibility: visibility,
		cart:       domain.NewCart(nil),
		log:        log,
	}
}

// Hydrate loads the stored cart. A missing value yields an empty cart; a
// value that cannot be decoded is removed and the cart starts empty. Only
// storage failures are returned. Calling Hydrate again is a no-op.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	var items []domain.LineItem
	data, err := s.items.Read(ctx)
	switch {
	case errors.Is(err, ports.ErrSlotEmpty):
	case err != nil:
		return fmt.Errorf("failed to read stored cart: %w", err)
	default:
		items, err = domain.DecodeItems(data)
		if err != nil {
			s.log.Warn("Discarding malformed stored cart", zap.Error(err))
			items = nil
			if err := s.items.Remove(ctx); err != nil {
				return fmt.Errorf("failed to remove malformed cart: %w", err)
			}
		}
	}

	open := false
	flag, err := s.visibility.Read(ctx)
	switch {
	case errors.Is(err, ports.ErrSlotEmpty):
	case err != nil:
		return fmt.Errorf("failed to read cart visibility: %w", err)
	default:
		open = string(flag) == string(openFlag)
	}

	s.cart = domain.NewCart(items)
	s.cart.SetOpen(open)
	s.hydrated = true
	return nil
}

// Hydrated reports whether Hydrate has completed.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// View returns the current cart with derived totals. Before hydration it is empty.
func (s *Store) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.View()
}

// IsEmpty reports whether the cart has no line items.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// Items returns a copy of the line items.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// AddItem merges quantity units of product into the cart and opens it.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int) error {
	return s.mutate(ctx, true, func(c *domain.Cart) error {
		return c.AddItem(product, quantity)
	})
}

// RemoveItem drops the product's line item.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	return s.mutate(ctx, false, func(c *domain.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// UpdateQuantity sets the product's quantity; quantity <= 0 removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, false, func(c *domain.Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
}

// Clear empties and closes the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, true, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

// ClearItems empties the cart and leaves its visibility untouched.
func (s *Store) ClearItems(ctx context.Context) error {
	return s.mutate(ctx, false, func(c *domain.Cart) error {
		open := c.IsOpen()
		c.Clear()
		c.SetOpen(open)
		return nil
	})
}

// Restore puts line items back into the cart without changing its visibility.
func (s *Store) Restore(ctx context.Context, items []domain.LineItem) error {
	return s.mutate(ctx, false, func(c *domain.Cart) error {
		open := c.IsOpen()
		for _, it := range items {
			if err := c.AddItem(it.Product, it.Quantity); err != nil {
				return err
			}
		}
		c.SetOpen(open)
		return nil
	})
}

// Open shows the cart.
func (s *Store) Open(ctx context.Context) error {
	return s.setVisibility(ctx, true)
}

// Close hides the cart.
func (s *Store) Close(ctx context.Context) error {
	return s.setVisibility(ctx, false)
}

func (s *Store) mutate(ctx context.Context, withVisibility bool, fn func(*domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}
	if err := fn(s.cart); err != nil {
		return err
	}

	data, err := domain.EncodeItems(s.cart.Items())
	if err != nil {
		return err
	}
	if err := s.items.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	if withVisibility {
		return s.writeVisibility(ctx)
	}
	return nil
}

func (s *Store) setVisibility(ctx context.Context, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}
	s.cart.SetOpen(open)
	return s.writeVisibility(ctx)
}

func (s *Store) writeVisibility(ctx context.Context) error {
	flag := closedFlag
	if s.cart.IsOpen() {
		flag = openFlag
	}
	if err := s.visibility.Write(ctx, flag); err != nil {
		return fmt.Errorf("failed to persist cart visibility: %w", err)
	}
	return nil
}
