// Package rediscache caches rendered courier profiles in Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courierdispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "courier:profile:"

// ProfileCache implements ports.CourierProfileCache on a Redis client. Entries
// expire after ttl.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a cache over an existing client.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile or ports.ErrCacheMiss.
func (c *ProfileCache) Get(ctx context.Context, courierID int64) ([]byte, error) {
	data, err := c.client.Get(ctx, key(courierID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile of courier %d: %w", courierID, err)
	}
	return data, nil
}

func (c *ProfileCache) Set(ctx context.Context, courierID int64, profile []byte) error {
	return c.client.Set(ctx, key(courierID), profile, c.ttl).Err()
}

func (c *ProfileCache) Invalidate(ctx context.Context, courierID int64) error {
	return c.client.Del(ctx, key(courierID)).Err()
}

func key(courierID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, courierID)
}
