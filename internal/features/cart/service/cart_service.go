package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"

	"repair-shop/internal/core/logger"
	catalogports "repair-shop/internal/features/catalog/ports"
	"repair-shop/internal/features/cart/domain"
	"repair-shop/internal/features/cart/ports"
	customers "repair-shop/internal/features/customers/domain"
	orders "repair-shop/internal/features/orders/domain"

	"go.uber.org/zap"
)

// ErrInvalidSession is returned for empty or malformed session ids.
var ErrInvalidSession = errors.New("invalid cart session")

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const lockStripes = 64

// CheckoutRequest carries the optional contact data given at checkout.
type CheckoutRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CartService runs cart operations for storefront sessions. Each operation
// hydrates the session's store, applies the change and persists it while
// holding the session's lock, so concurrent requests never interleave.
type CartService struct {
	storage   ports.CartStorage
	products  catalogports.ProductProvider
	orders    ports.OrderPlacer
	customers ports.CustomerRegistrar
	locks     [lockStripes]sync.Mutex
}

// NewCartService creates a new CartService. customers may be nil, in which
// case checkout contact data is only copied onto the order.
func NewCartService(storage ports.CartStorage, products catalogports.ProductProvider, orders ports.OrderPlacer, customers ports.CustomerRegistrar) *CartService {
	return &CartService{
		storage:   storage,
		products:  products,
		orders:    orders,
		customers: customers,
	}
}

// GetCart returns the session's cart.
func (s *CartService) GetCart(ctx context.Context, session string) (domain.View, error) {
	return s.withStore(ctx, session, nil)
}

// AddItem looks the product up in the catalog and merges it into the cart.
func (s *CartService) AddItem(ctx context.Context, session, productID string, quantity int) (domain.View, error) {
	if quantity < 1 {
		return domain.View{}, domain.ErrInvalidQuantity
	}
	if err := validateSession(session); err != nil {
		return domain.View{}, err
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return domain.View{}, fmt.Errorf("service: failed to resolve product: %w", err)
	}
	if !product.Active {
		return domain.View{}, domain.ErrProductInactive
	}

	return s.withStore(ctx, session, func(st *Store) error {
		if err := st.AddItem(ctx, *product, quantity); err != nil {
			return err
		}
		logger.Named("cart").Debug("Item added",
			zap.String("session_id", session),
			zap.String("product_id", product.ID),
			zap.Int("quantity", quantity),
		)
		return nil
	})
}

// RemoveItem drops a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, session, productID string) (domain.View, error) {
	return s.withStore(ctx, session, func(st *Store) error {
		return st.RemoveItem(ctx, productID)
	})
}

// UpdateQuantity sets a product's quantity; quantity <= 0 removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, session, productID string, quantity int) (domain.View, error) {
	return s.withStore(ctx, session, func(st *Store) error {
		return st.UpdateQuantity(ctx, productID, quantity)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, session string) (domain.View, error) {
	return s.withStore(ctx, session, func(st *Store) error {
		return st.Clear(ctx)
	})
}

// Open shows the cart drawer.
func (s *CartService) Open(ctx context.Context, session string) (domain.View, error) {
	return s.withStore(ctx, session, func(st *Store) error {
		return st.Open(ctx)
	})
}

// Close hides the cart drawer.
func (s *CartService) Close(ctx context.Context, session string) (domain.View, error) {
	return s.withStore(ctx, session, func(st *Store) error {
		return st.Close(ctx)
	})
}

// Checkout turns the cart into a placed order and clears the cart. When a
// phone is given the customer record is created or updated first. If the
// order cannot be placed the items are put back.
func (s *CartService) Checkout(ctx context.Context, session string, req CheckoutRequest) (*orders.Order, error) {
	var order *orders.Order
	_, err := s.withStore(ctx, session, func(st *Store) error {
		items := st.Items()
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		lines := make([]orders.OrderLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, orders.OrderLine{
				ProductID: it.Product.ID,
				SKU:       it.Product.SKU,
				Name:      it.Product.Name,
				UnitPrice: it.Product.Price,
				Quantity:  it.Quantity,
			})
		}

		var err error
		order, err = orders.NewOrder(session, lines)
		if err != nil {
			return err
		}
		order.CustomerName = strings.TrimSpace(req.Name)
		order.CustomerPhone = customers.NormalizePhone(req.Phone)

		if s.customers != nil && order.CustomerPhone != "" {
			customer, _, err := s.customers.Upsert(ctx, customers.Contact{Name: req.Name, Phone: req.Phone})
			if err != nil {
				return fmt.Errorf("service: failed to register customer: %w", err)
			}
			order.CustomerID = customer.ID
			order.CustomerName = customer.Name
		}

		// The items leave the slot before the order exists, so a retried
		// checkout finds an empty cart instead of placing a second order.
		if err := st.ClearItems(ctx); err != nil {
			return fmt.Errorf("service: failed to clear cart for checkout: %w", err)
		}

		log := logger.Named("cart").With(zap.String("session_id", session), zap.String("order_id", order.ID))
		if err := s.orders.Place(ctx, order); err != nil {
			if rerr := st.Restore(ctx, items); rerr != nil {
				log.Error("Failed to restore cart after checkout failure", zap.Error(rerr))
			}
			return fmt.Errorf("service: failed to place order: %w", err)
		}
		if err := st.Close(ctx); err != nil {
			log.Warn("Order placed but cart visibility was not persisted", zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CartService) withStore(ctx context.Context, session string, fn func(*Store) error) (domain.View, error) {
	if err := validateSession(session); err != nil {
		return domain.View{}, err
	}

	mu := s.lockFor(session)
	mu.Lock()
	defer mu.Unlock()

	log := logger.Named("cart").With(zap.String("session_id", session))
	store := NewStore(s.storage.Items(session), s.storage.Visibility(session), log)
	if err := store.Hydrate(ctx); err != nil {
		return domain.View{}, fmt.Errorf("service: failed to load cart: %w", err)
	}

	if fn != nil {
		if err := fn(store); err != nil {
			return domain.View{}, err
		}
	}
	return store.View(), nil
}

func (s *CartService) lockFor(session string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(session))
	return &s.locks[h.Sum32()%lockStripes]
}

func validateSession(session string) error {
	if !sessionPattern.MatchString(session) {
		return ErrInvalidSession
	}
	return nil
}
