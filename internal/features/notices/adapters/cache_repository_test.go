package adapters

import (
	"context"
	"testing"
	"time"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/features/notices/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*CacheNoticeRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return NewCacheNoticeRepository(adapter), mr
}

func TestCacheNoticeRepository_SaveGetDelete(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoNotice)

	n, err := domain.NewNotice("Feriado", "Abrimos el lunes", domain.KindClosed, time.Hour, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, n, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(noticeKey))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Feriado", got.Title)
	assert.Equal(t, domain.KindClosed, got.Kind)

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoNotice)
}

func TestCacheNoticeRepository_Expires(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	n, err := domain.NewNotice("Promo", "", domain.KindInfo, time.Minute, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, n, time.Minute))

	mr.FastForward(2 * time.Minute)
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoNotice)
}

func TestCacheNoticeRepository_CorruptValue(t *testing.T) {
	repo, mr := newTestRepository(t)
	require.NoError(t, mr.Set(noticeKey, "{"))

	_, err := repo.Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoNotice)
}
