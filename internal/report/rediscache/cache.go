package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores report results under a generation number. Invalidate bumps the generation, so
// every older entry becomes unreachable at once and simply ages out. A result computed while an
// invalidation lands can be stored under the new generation; the ttl bounds how long it lives.
type Cache struct {
	rdb    Client
	prefix string
}

// Client is the part of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

func NewCache(rdb Client, prefix string) *Cache {
	if prefix == "" {
		prefix = "custody:report"
	}
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) generationKey() string {
	return c.prefix + ":gen"
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Cache) key(gen int64, name string) string {
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, name)
}

func (c *Cache) Get(ctx context.Context, name string, dst interface{}) (bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return false, err
	}

	b, err := c.rdb.Get(ctx, c.key(gen, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, name string, value interface{}, ttl time.Duration) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(gen, name), b, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.generationKey()).Err()
}

// Connect builds a client and checks it answers within timeout.
func Connect(ctx context.Context, addr, password string, db int, timeout time.Duration) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
