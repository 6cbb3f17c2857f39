package cache

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key RedisCache writes.
const DefaultKeyPrefix = "lojgloss:"

const (
	opTimeout   = 2 * time.Second
	scanTimeout = 20 * time.Second
	scanCount   = 256
)

// RedisCache shares decisions between processes through Redis. Redis
// failures on Get are logged and treated as misses.
type RedisCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// RedisConfig describes a Redis-backed cache.
type RedisConfig struct {
	URL       string // redis://[user:pass@]host:port/db
	TTL       int    // seconds, 0 keeps decisions forever
	KeyPrefix string // defaults to DefaultKeyPrefix
}

// NewRedisCache connects to cfg.URL and checks the server answers.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewRedisCacheFromClient(rdb, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing client, e.g. a cluster client
// or a mock.
func NewRedisCacheFromClient(rdb redis.UniversalClient, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: keyPrefix, logger: slog.New(slog.DiscardHandler)}
}

// WithLogger reports Redis failures that would otherwise be silent misses.
func (c *RedisCache) WithLogger(logger *slog.Logger) *RedisCache {
	c.logger = logger
	return c
}

func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := c.rdb.Get(ctx, c.prefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false
	case err != nil:
		c.logger.Warn("redis get failed; treating as miss", "key", key, "error", err)
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return c.rdb.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

// SetMany writes decisions in one pipeline round trip.
func (c *RedisCache) SetMany(decisions []Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, d := range decisions {
			p.Set(ctx, c.prefix+d.Key, d.Value, c.ttl)
		}
		return nil
	})
	return err
}

// Keys scans this cache's prefix and returns the unprefixed keys, sorted
// and without the duplicates SCAN may yield.
func (c *RedisCache) Keys() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	var keys []string
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), c.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	slices.Sort(keys)
	return slices.Compact(keys), nil
}

func (c *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

var (
	_ ExportableCache = (*RedisCache)(nil)
	_ batchSetter     = (*RedisCache)(nil)
)
