package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	catalog "repair-shop/internal/features/catalog/domain"
	"repair-shop/internal/features/cart/domain"
	"repair-shop/internal/features/cart/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySlot struct {
	mu      sync.Mutex
	data    []byte
	set     bool
	writes  int
	removes int
	readErr error
}

func (m *memorySlot) Read(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if !m.set {
		return nil, ports.ErrSlotEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memorySlot) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	m.writes++
	return nil
}

func (m *memorySlot) Remove(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data, m.set = nil, false
	m.removes++
	return nil
}

func testProduct(id string, price int64) catalog.Product {
	return catalog.Product{ID: id, SKU: "SKU-" + id, Name: id, Price: decimal.NewFromInt(price), Stock: 5, Active: true}
}

func newHydratedStore(t *testing.T, items, visibility *memorySlot) *Store {
	t.Helper()
	s := NewStore(items, visibility, zap.NewNop())
	require.NoError(t, s.Hydrate(context.Background()))
	return s
}

func TestStore_RefusesWritesBeforeHydration(t *testing.T) {
	items := &memorySlot{data: []byte(`[{"product":{"id":"a","sale_price":"10"},"quantity":3}]`), set: true}
	visibility := &memorySlot{}
	s := NewStore(items, visibility, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, s.AddItem(ctx, testProduct("b", 5), 1), ErrNotHydrated)
	assert.ErrorIs(t, s.Clear(ctx), ErrNotHydrated)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, "a", 1), ErrNotHydrated)
	assert.ErrorIs(t, s.RemoveItem(ctx, "a"), ErrNotHydrated)
	assert.ErrorIs(t, s.Open(ctx), ErrNotHydrated)
	assert.False(t, s.Hydrated())
	assert.Zero(t, items.writes)
	assert.Zero(t, visibility.writes)

	require.NoError(t, s.Hydrate(ctx))
	assert.Equal(t, 3, s.View().ItemCount)
}

func TestStore_RoundTripThroughFreshInstance(t *testing.T) {
	items, visibility := &memorySlot{}, &memorySlot{}
	ctx := context.Background()

	first := newHydratedStore(t, items, visibility)
	require.NoError(t, first.AddItem(ctx, testProduct("b", 390), 2))
	require.NoError(t, first.AddItem(ctx, testProduct("a", 1490), 1))
	require.NoError(t, first.AddItem(ctx, testProduct("b", 390), 1))

	second := newHydratedStore(t, items, visibility)
	want, got := first.View(), second.View()
	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].Product.ID, got.Items[i].Product.ID)
		assert.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity)
		assert.True(t, want.Items[i].Product.Price.Equal(got.Items[i].Product.Price))
	}
	assert.True(t, want.Subtotal.Equal(got.Subtotal))
	assert.True(t, got.IsOpen)
}

func TestStore_MalformedDataIsDiscarded(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     `definitely not json`,
		"truncated":    `[{"product":{"id":"a"`,
		"bad quantity": `[{"product":{"id":"a"},"quantity":-1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			items := &memorySlot{data: []byte(raw), set: true}
			s := NewStore(items, &memorySlot{}, zap.NewNop())

			require.NoError(t, s.Hydrate(context.Background()))
			assert.True(t, s.Hydrated())
			assert.True(t, s.IsEmpty())
			assert.Equal(t, 1, items.removes)
			_, err := items.Read(context.Background())
			assert.ErrorIs(t, err, ports.ErrSlotEmpty)
		})
	}
}

func TestStore_HydrateStorageFailure(t *testing.T) {
	items := &memorySlot{readErr: errors.New("connection refused")}
	s := NewStore(items, &memorySlot{}, zap.NewNop())

	err := s.Hydrate(context.Background())
	require.Error(t, err)
	assert.False(t, s.Hydrated())
	assert.ErrorIs(t, s.AddItem(context.Background(), testProduct("a", 1), 1), ErrNotHydrated)
}

func TestStore_HydrateIsIdempotent(t *testing.T) {
	items := &memorySlot{}
	s := newHydratedStore(t, items, &memorySlot{})
	require.NoError(t, s.AddItem(context.Background(), testProduct("a", 1), 1))

	items.data = []byte(`[]`)
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, 1, s.View().ItemCount)
}

func TestStore_EveryMutationPersists(t *testing.T) {
	items, visibility := &memorySlot{}, &memorySlot{}
	s := newHydratedStore(t, items, visibility)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, testProduct("a", 100), 5))
	require.NoError(t, s.UpdateQuantity(ctx, "a", 2))
	stored, err := domain.DecodeItems(items.data)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Quantity)

	require.NoError(t, s.UpdateQuantity(ctx, "a", 0))
	assert.Equal(t, "[]", string(items.data))
	assert.Equal(t, 3, items.writes)
}

func TestStore_VisibilitySlot(t *testing.T) {
	items, visibility := &memorySlot{}, &memorySlot{}
	s := newHydratedStore(t, items, visibility)
	ctx := context.Background()

	require.NoError(t, s.Open(ctx))
	assert.Equal(t, "1", string(visibility.data))
	assert.Zero(t, items.writes, "visibility changes leave line items alone")

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, "0", string(visibility.data))

	require.NoError(t, s.AddItem(ctx, testProduct("a", 1), 1))
	assert.Equal(t, "1", string(visibility.data))

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, "0", string(visibility.data))
	assert.Equal(t, "[]", string(items.data))
	assert.False(t, s.View().IsOpen)
}

func TestStore_ClearItemsThenRestore(t *testing.T) {
	items, visibility := &memorySlot{}, &memorySlot{}
	ctx := context.Background()
	s := newHydratedStore(t, items, visibility)

	require.NoError(t, s.AddItem(ctx, testProduct("a", 100), 2))
	require.NoError(t, s.AddItem(ctx, testProduct("b", 50), 1))
	saved := s.Items()
	visibilityWrites := visibility.writes

	require.NoError(t, s.ClearItems(ctx))
	assert.True(t, s.IsEmpty())
	assert.True(t, s.View().IsOpen)
	assert.Equal(t, visibilityWrites, visibility.writes)
	assert.Equal(t, "[]", string(items.data))

	require.NoError(t, s.Restore(ctx, saved))
	reloaded := newHydratedStore(t, items, visibility)
	assert.Equal(t, saved, reloaded.Items())
	assert.True(t, reloaded.View().IsOpen)
}
