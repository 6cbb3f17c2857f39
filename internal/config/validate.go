package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	similarityProviders = []string{"none", "openai"}
	cacheBackends       = []string{"none", "memory", "redis"}
	spanPolicies        = []string{"table", "legacy"}
	logFormats          = []string{"text", "json"}
)

// Validate checks the loaded configuration and normalizes enum values to
// lower case. Load calls it automatically.
func (c *Config) Validate() error {
	c.Dictionary.SpanPolicy = normalize(c.Dictionary.SpanPolicy)
	if !slices.Contains(spanPolicies, c.Dictionary.SpanPolicy) {
		return fmt.Errorf("dictionary.span_policy must be one of %v (got %q)", spanPolicies, c.Dictionary.SpanPolicy)
	}

	if err := c.Similarity.validate(); err != nil {
		return fmt.Errorf("similarity: %w", err)
	}

	c.Cache.Backend = normalize(c.Cache.Backend)
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend must be one of %v (got %q)", cacheBackends, c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required for the redis backend")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0 (got %d)", c.Cache.MaxEntries)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0 (got %d)", c.Cache.TTL)
	}

	c.Log.Format = normalize(c.Log.Format)
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	if c.Server.MaxBatch <= 0 {
		return fmt.Errorf("server.max_batch must be > 0 (got %d)", c.Server.MaxBatch)
	}

	return nil
}

func (s *SimilarityConfig) validate() error {
	s.Provider = normalize(s.Provider)
	if !slices.Contains(similarityProviders, s.Provider) {
		return fmt.Errorf("provider must be one of %v (got %q)", similarityProviders, s.Provider)
	}
	if s.Threshold <= 0 || s.Threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1] (got %v)", s.Threshold)
	}
	if s.Provider == "openai" && s.APIKey == "" {
		return fmt.Errorf("api_key is required for the openai provider")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", s.MaxRetries)
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
