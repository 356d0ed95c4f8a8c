package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantrung/equipment-site/internal/observability/metrics"
	"github.com/vantrung/equipment-site/pkg/logging"
)

type countingStore struct {
	Store
	listCalls int
	slugCalls int
	err       error
}

func (s *countingStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.ListProducts(ctx)
}

func (s *countingStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	s.slugCalls++
	return s.Store.GetProductBySlug(ctx, slug)
}

func newCachedFixture(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingStore{Store: fixtureStore()}
	m := metrics.NewSiteMetrics(prometheus.NewRegistry())
	return NewCachedStore(inner, client, time.Minute, m, logging.Discard()), inner, mr
}

func TestCachedStore_ReadThrough(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	first, err := cache.ListProducts(ctx)
	require.NoError(t, err)
	second, err := cache.ListProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.listCalls)
	assert.Equal(t, names(first), names(second))
	assert.True(t, mr.Exists(cacheKeyProducts))
	assert.Equal(t, time.Minute, mr.TTL(cacheKeyProducts))
}

func TestCachedStore_Expiry(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	_, err := cache.ListProducts(ctx)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cache.ListProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.listCalls)
}

func TestCachedStore_ErrorsAreNotCached(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	inner.err = errors.New("db down")

	_, err := cache.ListProducts(context.Background())
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists(cacheKeyProducts))
}

func TestCachedStore_NotFoundPassesThrough(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	_, err := cache.GetProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.False(t, mr.Exists(cacheKeyProduct+"missing"))

	p, err := cache.GetProductBySlug(ctx, "toi-kenbo")
	require.NoError(t, err)
	again, err := cache.GetProductBySlug(ctx, "toi-kenbo")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, 2, inner.slugCalls)
}

func TestCachedStore_CorruptEntryReloads(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	require.NoError(t, mr.Set(cacheKeyProducts, "not json"))

	products, err := cache.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedStore_RedisDownFallsThrough(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	mr.Close()

	products, err := cache.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedStore_Invalidate(t *testing.T) {
	cache, inner, mr := newCachedFixture(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("unrelated", "keep"))

	_, err := cache.ListProducts(ctx)
	require.NoError(t, err)
	_, err = cache.ListCategories(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(cacheKeyProducts))
	assert.False(t, mr.Exists(cacheKeyCategories))
	assert.True(t, mr.Exists("unrelated"))

	_, err = cache.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
}
