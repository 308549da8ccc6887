package adapters

import (
	"context"
	"testing"
	"time"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/features/cart/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, ttl time.Duration) (*CacheCartStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return NewCacheCartStorage(adapter, "sat_cart", ttl), mr
}

func TestCacheCartStorage_Keys(t *testing.T) {
	storage, mr := newTestStorage(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, storage.Items("abc").Write(ctx, []byte(`[]`)))
	require.NoError(t, storage.Visibility("abc").Write(ctx, []byte(`1`)))

	items, err := mr.Get("sat_cart:abc")
	require.NoError(t, err)
	assert.Equal(t, "[]", items)

	open, err := mr.Get("sat_cart:abc:open")
	require.NoError(t, err)
	assert.Equal(t, "1", open)

	assert.Equal(t, time.Hour, mr.TTL("sat_cart:abc"))
}

func TestCacheCartStorage_ReadEmptySlot(t *testing.T) {
	storage, _ := newTestStorage(t, 0)

	_, err := storage.Items("nobody").Read(context.Background())
	assert.ErrorIs(t, err, ports.ErrSlotEmpty)
}

func TestCacheCartStorage_RoundTripAndRemove(t *testing.T) {
	storage, mr := newTestStorage(t, 0)
	ctx := context.Background()
	slot := storage.Items("s1")

	require.NoError(t, slot.Write(ctx, []byte(`[{"quantity":1}]`)))
	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"quantity":1}]`, string(data))
	assert.Zero(t, mr.TTL("sat_cart:s1"))

	require.NoError(t, slot.Remove(ctx))
	_, err = slot.Read(ctx)
	assert.ErrorIs(t, err, ports.ErrSlotEmpty)
}

func TestCacheCartStorage_BackendDown(t *testing.T) {
	storage, mr := newTestStorage(t, 0)
	mr.Close()

	_, err := storage.Items("s1").Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSlotEmpty)
}
