// README: Redis cache for the ordered order listing.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	listCacheKey = "orders:list"
	listGenKey   = "orders:list:gen"
)

// Cache holds the full listing under one key. Any write bumps the generation
// and drops the listing; a listing read under an older generation is never stored.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redis *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redis, ttl: ttl}
}

// GetList returns the cached listing and whether it was present.
func (c *Cache) GetList(ctx context.Context) ([]Order, bool, error) {
	val, err := c.redis.Get(ctx, listCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var orders []Order
	if err := json.Unmarshal(val, &orders); err != nil {
		return nil, false, err
	}
	return orders, true, nil
}

// Generation is the current write generation; 0 before the first write.
func (c *Cache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.redis)
}

// SetList stores orders only while the generation still equals gen. A concurrent
// Invalidate either changes the generation first (the set is skipped) or aborts
// the transaction (redis.TxFailedErr, also skipped).
func (c *Cache) SetList(ctx context.Context, gen int64, orders []Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, listCacheKey, data, c.ttl)
			return nil
		})
		return err
	}, listGenKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *Cache) Invalidate(ctx context.Context) error {
	_, err := c.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, listGenKey)
		p.Del(ctx, listCacheKey)
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, r getter) (int64, error) {
	gen, err := r.Get(ctx, listGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
