package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ResultCache stores serialized screening results by fingerprint.
// Implementations must be safe for concurrent use.
type ResultCache interface {
	// Get returns found=false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set overwrites unconditionally.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisResultCache struct {
	client redis.UniversalClient
}

func NewRedisResultCache(client redis.UniversalClient) ResultCache {
	return &redisResultCache{client: client}
}

// Get implements ResultCache.
func (c *redisResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(ErrCacheUnavailable, "get %s: %v", key, err)
	}
	return data, true, nil
}

// Set implements ResultCache.
func (c *redisResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrapf(ErrCacheUnavailable, "set %s: %v", key, err)
	}
	return nil
}

type nopResultCache struct{}

// NewNopResultCache returns a cache that never hits and drops every write.
func NewNopResultCache() ResultCache {
	return nopResultCache{}
}

// Get implements ResultCache.
func (nopResultCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set implements ResultCache.
func (nopResultCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
