package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Debouncer gates how often one user's risk evaluation may run. Acquire
// returns true when the caller won the slot for the interval.
type Debouncer interface {
	Acquire(ctx context.Context, key string) (bool, error)
}

type redisDebouncer struct {
	client   *redis.Client
	interval time.Duration
}

// NewRedisDebouncer debounces across instances with SET NX and a TTL.
func NewRedisDebouncer(client *redis.Client, interval time.Duration) Debouncer {
	return &redisDebouncer{client: client, interval: interval}
}

func (d *redisDebouncer) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, fmt.Sprintf("risk:debounce:%s", key), 1, d.interval).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

type memoryDebouncer struct {
	cache    *cache.Cache
	interval time.Duration
}

// NewMemoryDebouncer is the single-instance fallback used when Redis is
// not reachable at startup.
func NewMemoryDebouncer(interval time.Duration) Debouncer {
	return &memoryDebouncer{
		cache:    cache.New(interval, interval),
		interval: interval,
	}
}

func (d *memoryDebouncer) Acquire(ctx context.Context, key string) (bool, error) {
	// Add fails when the key is already present and unexpired.
	if err := d.cache.Add(key, struct{}{}, d.interval); err != nil {
		return false, nil
	}
	return true, nil
}
