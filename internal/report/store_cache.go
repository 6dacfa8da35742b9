package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

const (
	cacheNamespace = "minishop:report"
	generationKey  = cacheNamespace + ":gen"
)

var errCacheMiss = errors.New("cache miss")

// Cache is the key/value surface CachedStore needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{Client: c}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCacheMiss
	}
	return v, err
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.Client.Incr(ctx, key).Result()
}

func (r *RedisCache) Close(context.Context) error { return r.Client.Close() }

// CachedStore serves the aggregate reads from Cache. Every successful
// mutation bumps a generation counter that is part of each cache key, so
// stale entries are never read again and simply expire. Per-customer and
// time-windowed reads pass straight through to the wrapped Store.
type CachedStore struct {
	Store
	cache   Cache
	ttl     time.Duration
	log     *zap.Logger
	lookups *kit.OutcomeCounter
}

func NewCachedStore(next Store, cache Cache, ttl time.Duration, log *zap.Logger, reg prometheus.Registerer) *CachedStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{
		Store: next,
		cache: cache,
		ttl:   ttl,
		log:   log,
		lookups: kit.NewOutcomeCounter(reg, "report_cache_lookups_total",
			"Report cache lookups by query and result", "query", "result"),
	}
}

func (c *CachedStore) CreateCustomer(ctx context.Context, cu Customer) (Customer, error) {
	out, err := c.Store.CreateCustomer(ctx, cu)
	if err == nil {
		c.Invalidate(ctx)
	}
	return out, err
}

func (c *CachedStore) CreateOrder(ctx context.Context, o Order) (Order, error) {
	out, err := c.Store.CreateOrder(ctx, o)
	if err == nil {
		c.Invalidate(ctx)
	}
	return out, err
}

func (c *CachedStore) UpdateOrderStatus(ctx context.Context, orderID string, status Status) (bool, error) {
	ok, err := c.Store.UpdateOrderStatus(ctx, orderID, status)
	if err == nil && ok {
		c.Invalidate(ctx)
	}
	return ok, err
}

func (c *CachedStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	ok, err := c.Store.DeleteOrder(ctx, orderID)
	if err == nil && ok {
		c.Invalidate(ctx)
	}
	return ok, err
}

func (c *CachedStore) SpendByCustomer(ctx context.Context) ([]CustomerSpend, error) {
	return cached(ctx, c, "spend", c.Store.SpendByCustomer)
}

func (c *CachedStore) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	return cached(ctx, c, "status_counts", c.Store.CountByStatus)
}

func (c *CachedStore) MostRecentOrders(ctx context.Context) ([]CustomerOrder, error) {
	return cached(ctx, c, "recent_orders", c.Store.MostRecentOrders)
}

func (c *CachedStore) MostExpensiveOrders(ctx context.Context) ([]CustomerOrder, error) {
	return cached(ctx, c, "expensive_orders", c.Store.MostExpensiveOrders)
}

func (c *CachedStore) CustomersWithoutOrders(ctx context.Context) ([]Customer, error) {
	return cached(ctx, c, "inactive_customers", c.Store.CustomersWithoutOrders)
}

func (c *CachedStore) AverageItemsPerOrder(ctx context.Context) (float64, error) {
	return cached(ctx, c, "average_items", c.Store.AverageItemsPerOrder)
}

func (c *CachedStore) TopCustomersBySpend(ctx context.Context, n int) ([]CustomerSpend, error) {
	if err := checkTopN(n); err != nil {
		return nil, err
	}
	return cached(ctx, c, "top_customers:"+strconv.Itoa(n), func(ctx context.Context) ([]CustomerSpend, error) {
		return c.Store.TopCustomersBySpend(ctx, n)
	})
}

func (c *CachedStore) CustomerOrderLines(ctx context.Context) ([]CustomerOrderLine, error) {
	return cached(ctx, c, "customer_orders", c.Store.CustomerOrderLines)
}

// Invalidate retires every cached entry by bumping the generation counter.
func (c *CachedStore) Invalidate(ctx context.Context) {
	if _, err := c.cache.Incr(ctx, generationKey); err != nil {
		c.log.Warn("report cache invalidate failed", zap.Error(err))
	}
}

func (c *CachedStore) key(ctx context.Context, query string) (string, error) {
	gen, err := c.cache.Get(ctx, generationKey)
	if errors.Is(err, errCacheMiss) {
		gen = "0"
	} else if err != nil {
		return "", err
	}
	return cacheNamespace + ":" + gen + ":" + query, nil
}

// cached reads query from the cache, falling back to load. Cache failures are
// logged and never fail the read.
func cached[T any](ctx context.Context, c *CachedStore, query string, load func(context.Context) (T, error)) (T, error) {
	key, err := c.key(ctx, query)
	if err != nil {
		c.log.Warn("report cache unavailable", zap.String("query", query), zap.Error(err))
		c.lookups.Inc(query, "error")
		return load(ctx)
	}

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			c.lookups.Inc(query, "hit")
			return v, nil
		}
		c.log.Warn("report cache entry corrupt", zap.String("key", key))
	} else if !errors.Is(err, errCacheMiss) {
		c.log.Warn("report cache get failed", zap.String("key", key), zap.Error(err))
	}
	c.lookups.Inc(query, "miss")

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err == nil {
		err = c.cache.Set(ctx, key, string(raw), c.ttl)
	}
	if err != nil {
		c.log.Warn("report cache set failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
