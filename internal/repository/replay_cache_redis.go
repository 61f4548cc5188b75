package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReplayCache is a ReplayCache that persists responses in Redis so
// replay state survives a restart and can be shared between instances.
// Racing callers within one process are serialized by an embedded
// MemoryReplayCache; across processes the SET NX on fill guarantees a
// single stored response, and the loser of that race returns the
// winner's bytes.
type RedisReplayCache struct {
	rdb    *redis.Client
	local  *MemoryReplayCache
	prefix string
	ttl    time.Duration
}

// NewRedisReplayCache returns a replay cache backed by the given Redis
// client. Entries expire after ttl; 24h is a sensible default for
// client retry windows.
func NewRedisReplayCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisReplayCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisReplayCache{
		rdb:    rdb,
		local:  NewMemoryReplayCache(),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisReplayCache) key(k string) string { return c.prefix + ":" + k }

// Do implements ReplayCache.
func (c *RedisReplayCache) Do(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, bool, error) {
	if body, err := c.rdb.Get(ctx, c.key(key)).Bytes(); err == nil {
		return body, true, nil
	}
	body, replayed, err := c.local.Do(ctx, key, func() ([]byte, error) {
		out, ferr := fn()
		if ferr != nil {
			return nil, ferr
		}
		ok, serr := c.rdb.SetNX(ctx, c.key(key), out, c.ttl).Result()
		if serr == nil && !ok {
			// Another instance filled the key first; serve its response
			// so every caller of this key sees the same bytes.
			if stored, gerr := c.rdb.Get(ctx, c.key(key)).Bytes(); gerr == nil {
				return stored, nil
			}
		}
		return out, nil
	})
	return body, replayed, err
}
