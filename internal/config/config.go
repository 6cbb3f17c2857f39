// Package config loads lojgloss configuration from YAML and the environment.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Synonyms   SynonymsConfig   `yaml:"synonyms"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

// DictionaryConfig selects the gloss dictionary and segmentation policy.
type DictionaryConfig struct {
	Path       string `yaml:"path"        env:"LOJGLOSS_DICTIONARY"  env-default:"data/glosswords.json"`
	SpanPolicy string `yaml:"span_policy" env:"LOJGLOSS_SPAN_POLICY" env-default:"table"`
}

// SimilarityConfig configures the similarity fallback.
type SimilarityConfig struct {
	Provider          string  `yaml:"provider"            env:"LOJGLOSS_SIMILARITY"           env-default:"none"`
	Threshold         float64 `yaml:"threshold"           env:"LOJGLOSS_THRESHOLD"            env-default:"0.70"`
	APIKey            string  `yaml:"api_key"             env:"OPENAI_API_KEY"`
	Model             string  `yaml:"model"               env:"LOJGLOSS_EMBEDDING_MODEL"      env-default:"text-embedding-3-small"`
	BaseURL           string  `yaml:"base_url"            env:"OPENAI_BASE_URL"`
	BatchSize         int     `yaml:"batch_size"          env:"LOJGLOSS_EMBEDDING_BATCH"      env-default:"256"`
	MaxCandidates     int     `yaml:"max_candidates"      env:"LOJGLOSS_MAX_CANDIDATES"       env-default:"5"`
	MaxRetries        int     `yaml:"max_retries"         env:"LOJGLOSS_MAX_RETRIES"          env-default:"3"`
	RequestsPerMinute int     `yaml:"requests_per_minute" env:"LOJGLOSS_REQUESTS_PER_MINUTE"  env-default:"500"`
}

// SynonymsConfig points at optional synonym sources. WordNet is consulted
// before the thesaurus when both are set.
type SynonymsConfig struct {
	WordNet   string `yaml:"wordnet"   env:"LOJGLOSS_WORDNET"`
	Thesaurus string `yaml:"thesaurus" env:"LOJGLOSS_THESAURUS"`
}

// CacheConfig configures the fallback decision cache.
type CacheConfig struct {
	Backend    string `yaml:"backend"     env:"LOJGLOSS_CACHE"             env-default:"memory"`
	TTL        int    `yaml:"ttl"         env:"LOJGLOSS_CACHE_TTL"         env-default:"86400"`
	MaxEntries int    `yaml:"max_entries" env:"LOJGLOSS_CACHE_MAX_ENTRIES" env-default:"100000"`
	RedisURL   string `yaml:"redis_url"   env:"LOJGLOSS_REDIS_URL"         env-default:"redis://localhost:6379/0"`
	KeyPrefix  string `yaml:"key_prefix"  env:"LOJGLOSS_CACHE_PREFIX"      env-default:"lojgloss:"`
	Snapshot   string `yaml:"snapshot"    env:"LOJGLOSS_CACHE_SNAPSHOT"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOJGLOSS_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"LOJGLOSS_LOG_FORMAT" env-default:"text"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"LOJGLOSS_ADDR"             env-default:":8080"`
	AllowedOrigins  []string      `yaml:"allowed_origins"  env:"LOJGLOSS_ALLOWED_ORIGINS"  env-default:"*"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"LOJGLOSS_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"LOJGLOSS_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"LOJGLOSS_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBatch        int           `yaml:"max_batch"        env:"LOJGLOSS_MAX_BATCH"        env-default:"100"`
}
