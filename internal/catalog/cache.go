package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vantrung/equipment-site/internal/observability/metrics"
	"github.com/vantrung/equipment-site/pkg/logging"
)

const (
	cacheKeyPrefix     = "catalog:"
	cacheKeyProducts   = cacheKeyPrefix + "products"
	cacheKeyCategories = cacheKeyPrefix + "categories"
	cacheKeyFeatured   = cacheKeyPrefix + "featured:"
	cacheKeyProduct    = cacheKeyPrefix + "product:"

	// DefaultCacheTTL applies when no TTL is configured.
	DefaultCacheTTL = 5 * time.Minute
)

// CachedStore keeps catalog reads in Redis. Redis failures fall through to
// the wrapped store.
type CachedStore struct {
	next    Store
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.SiteMetrics
	logger  *logging.Logger
}

// NewCachedStore wraps next with a Redis read-through cache.
func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, m *metrics.SiteMetrics, logger *logging.Logger) *CachedStore {
	if next == nil {
		panic("catalog: store cannot be nil")
	}
	if client == nil {
		panic("catalog: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedStore{next: next, client: client, ttl: ttl, metrics: m, logger: logger}
}

func cached[T any](ctx context.Context, s *CachedStore, key, label string, load func() (T, error)) (T, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var out T
		if uerr := json.Unmarshal(data, &out); uerr == nil {
			s.metrics.ObserveCacheLookup(label, true)
			return out, nil
		}
		s.logger.Warn("catalog: dropping unreadable cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("catalog: cache read failed", "key", key, "error", err)
	}
	s.metrics.ObserveCacheLookup(label, false)

	out, err := load()
	if err != nil {
		return out, err
	}
	if data, merr := json.Marshal(out); merr == nil {
		if serr := s.client.Set(ctx, key, data, s.ttl).Err(); serr != nil {
			s.logger.Warn("catalog: cache write failed", "key", key, "error", serr)
		}
	}
	return out, nil
}

// ListProducts returns every product, newest first.
func (s *CachedStore) ListProducts(ctx context.Context) ([]Product, error) {
	return cached(ctx, s, cacheKeyProducts, "products", func() ([]Product, error) {
		return s.next.ListProducts(ctx)
	})
}

// ListCategories returns categories ordered by name.
func (s *CachedStore) ListCategories(ctx context.Context) ([]Category, error) {
	return cached(ctx, s, cacheKeyCategories, "categories", func() ([]Category, error) {
		return s.next.ListCategories(ctx)
	})
}

// ListFeatured returns up to limit featured products.
func (s *CachedStore) ListFeatured(ctx context.Context, limit int) ([]Product, error) {
	key := fmt.Sprintf("%s%d", cacheKeyFeatured, limit)
	return cached(ctx, s, key, "featured", func() ([]Product, error) {
		return s.next.ListFeatured(ctx, limit)
	})
}

// GetProductBySlug returns one product. Misses are not cached.
func (s *CachedStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return cached(ctx, s, cacheKeyProduct+slug, "product", func() (*Product, error) {
		return s.next.GetProductBySlug(ctx, slug)
	})
}

// ListRelated is not cached.
func (s *CachedStore) ListRelated(ctx context.Context, p *Product, limit int) ([]Product, error) {
	return s.next.ListRelated(ctx, p, limit)
}

// ProductName is not cached; it runs once per lead.
func (s *CachedStore) ProductName(ctx context.Context, id string) (string, error) {
	return s.next.ProductName(ctx, id)
}

// Invalidate drops every cached catalog entry.
func (s *CachedStore) Invalidate(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("catalog: scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("catalog: invalidate cache: %w", err)
	}
	return nil
}

var _ Store = (*CachedStore)(nil)
