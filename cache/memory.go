package cache

import (
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// InMemoryCache keeps decisions in a bounded LRU inside the process. Use
// RedisCache to share decisions between processes.
type InMemoryCache struct {
	lru *expirable.LRU[string, string]
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxEntries int
}

// WithMaxEntries bounds the cache; the least recently used decision is
// evicted first. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// NewInMemoryCache returns a cache whose entries expire after ttlSeconds.
// Zero or negative disables expiry.
func NewInMemoryCache(ttlSeconds int, opts ...MemoryOption) *InMemoryCache {
	var o memoryOptions
	for _, opt := range opts {
		opt(&o)
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{lru: expirable.NewLRU[string, string](o.maxEntries, nil, ttl)}
}

// Get returns the value stored under key if it has not expired.
func (c *InMemoryCache) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, evicting the least recently used entry when full.
func (c *InMemoryCache) Set(key string, value string) error {
	c.lru.Add(key, value)
	return nil
}

// Len counts stored entries, possibly including expired ones not yet reaped.
func (c *InMemoryCache) Len() int {
	return c.lru.Len()
}

// Clear removes every entry.
func (c *InMemoryCache) Clear() {
	c.lru.Purge()
}

// Keys returns the live keys in sorted order.
func (c *InMemoryCache) Keys() ([]string, error) {
	keys := c.lru.Keys()
	slices.Sort(keys)
	return keys, nil
}

var _ ExportableCache = (*InMemoryCache)(nil)
