package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "lojgloss.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
dictionary:
  path: "/srv/lojgloss/glosswords.json"
  span_policy: "Legacy"

similarity:
  provider: "openai"
  threshold: 0.8
  api_key: "sk-test"
  model: "text-embedding-3-large"
  max_retries: 5
  requests_per_minute: 100

synonyms:
  wordnet: "/srv/lojgloss/english-wordnet.json"
  thesaurus: "/srv/lojgloss/thesaurus.yaml"

cache:
  backend: "redis"
  ttl: 3600
  redis_url: "redis://cache:6379/1"
  key_prefix: "jbo:"

log:
  level: "debug"
  format: "JSON"

server:
  addr: "127.0.0.1:9090"
  allowed_origins: ["https://example.org"]
  read_timeout: "5s"
  max_batch: 10
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("LOJGLOSS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/lojgloss/glosswords.json", cfg.Dictionary.Path)
	assert.Equal(t, "legacy", cfg.Dictionary.SpanPolicy)

	assert.Equal(t, "openai", cfg.Similarity.Provider)
	assert.InDelta(t, 0.8, cfg.Similarity.Threshold, 1e-9)
	assert.Equal(t, "sk-test", cfg.Similarity.APIKey)
	assert.Equal(t, "text-embedding-3-large", cfg.Similarity.Model)
	assert.Equal(t, 5, cfg.Similarity.MaxRetries)
	assert.Equal(t, 100, cfg.Similarity.RequestsPerMinute)
	assert.Equal(t, 256, cfg.Similarity.BatchSize, "unset fields keep defaults")

	assert.Equal(t, "/srv/lojgloss/english-wordnet.json", cfg.Synonyms.WordNet)
	assert.Equal(t, "/srv/lojgloss/thesaurus.yaml", cfg.Synonyms.Thesaurus)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 3600, cfg.Cache.TTL)
	assert.Equal(t, "redis://cache:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, "jbo:", cfg.Cache.KeyPrefix)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10, cfg.Server.MaxBatch)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOJGLOSS_CONFIG", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/glosswords.json", cfg.Dictionary.Path)
	assert.Equal(t, "table", cfg.Dictionary.SpanPolicy)
	assert.Equal(t, "none", cfg.Similarity.Provider)
	assert.InDelta(t, 0.70, cfg.Similarity.Threshold, 1e-9)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 86400, cfg.Cache.TTL)
	assert.Equal(t, 100000, cfg.Cache.MaxEntries)
	assert.Empty(t, cfg.Cache.Snapshot)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("LOJGLOSS_CONFIG", path)
	t.Setenv("LOJGLOSS_THRESHOLD", "0.9")
	t.Setenv("LOJGLOSS_CACHE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Similarity.Threshold, 1e-9)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("LOJGLOSS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadFile_OptionalMissing(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Dictionary: DictionaryConfig{SpanPolicy: "table"},
			Similarity: SimilarityConfig{Provider: "none", Threshold: 0.7},
			Cache:      CacheConfig{Backend: "memory"},
			Log:        LogConfig{Format: "text"},
			Server:     ServerConfig{MaxBatch: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"span policy", func(c *Config) { c.Dictionary.SpanPolicy = "longest" }, "dictionary.span_policy"},
		{"provider", func(c *Config) { c.Similarity.Provider = "word2vec" }, "similarity: provider"},
		{"threshold zero", func(c *Config) { c.Similarity.Threshold = 0 }, "threshold"},
		{"threshold above one", func(c *Config) { c.Similarity.Threshold = 1.5 }, "threshold"},
		{"openai without key", func(c *Config) { c.Similarity.Provider = "openai" }, "api_key"},
		{"negative retries", func(c *Config) { c.Similarity.MaxRetries = -1 }, "max_retries"},
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, "redis_url"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -1 }, "cache.ttl"},
		{"negative max entries", func(c *Config) { c.Cache.MaxEntries = -1 }, "cache.max_entries"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"max batch", func(c *Config) { c.Server.MaxBatch = 0 }, "server.max_batch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
