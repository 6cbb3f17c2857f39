// Package app assembles a configured lojgloss translator and its backing
// services from a config.Config.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ZaguanLabs/lojgloss"
	"github.com/ZaguanLabs/lojgloss/cache"
	"github.com/ZaguanLabs/lojgloss/internal/config"
	"github.com/ZaguanLabs/lojgloss/provider"
)

// App owns a translator together with the cache and connections it uses.
// Call Close when done so the cache snapshot is written and connections
// are released.
type App struct {
	Translator *lojgloss.Translator
	Cache      cache.ExportableCache // nil when caching is disabled

	cfg     *config.Config
	logger  *slog.Logger
	closers []func() error
}

// Build wires a translator from cfg. Extra options are applied last, so
// callers can override anything the configuration selects.
func Build(cfg *config.Config, logger *slog.Logger, extra ...lojgloss.TranslatorOption) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	spans, err := lojgloss.ParseSpanPolicy(cfg.Dictionary.SpanPolicy)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	opts := []lojgloss.TranslatorOption{
		lojgloss.WithDictionary(lojgloss.FileSource(cfg.Dictionary.Path)),
		lojgloss.WithSpanPolicy(spans),
		lojgloss.WithLogger(logger),
	}

	synonyms, err := buildSynonyms(cfg.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if synonyms != nil {
		opts = append(opts, lojgloss.WithSynonyms(synonyms))
	}

	if similarity := buildSimilarity(cfg.Similarity); similarity != nil {
		opts = append(opts, lojgloss.WithSimilarity(similarity, cfg.Similarity.Threshold))
	}

	if err := a.buildCache(); err != nil {
		_ = a.release()
		return nil, err
	}
	if a.Cache != nil {
		opts = append(opts, lojgloss.WithCache(a.Cache))
	}

	a.Translator = lojgloss.NewTranslator(append(opts, extra...)...)

	// restored after the translator exists so the snapshot can be checked
	// against the active dictionary
	if err := a.restoreSnapshot(); err != nil {
		_ = a.release()
		return nil, err
	}
	return a, nil
}

func buildSynonyms(cfg config.SynonymsConfig) (lojgloss.SynonymProvider, error) {
	var chain provider.SynonymChain
	if cfg.WordNet != "" {
		wn, err := provider.LoadWordNet(cfg.WordNet)
		if err != nil {
			return nil, err
		}
		chain = append(chain, wn)
	}
	if cfg.Thesaurus != "" {
		th, err := provider.LoadThesaurus(cfg.Thesaurus)
		if err != nil {
			return nil, err
		}
		chain = append(chain, th)
	}

	switch len(chain) {
	case 0:
		return nil, nil
	case 1:
		return chain[0], nil
	}
	return chain, nil
}

// buildSimilarity returns the configured provider wrapped with rate limiting
// and retries, or nil when similarity is disabled.
func buildSimilarity(cfg config.SimilarityConfig) lojgloss.SimilarityProvider {
	if cfg.Provider != "openai" {
		return nil
	}

	embeddings := provider.NewOpenAIEmbeddingProvider(provider.OpenAIConfig{
		APIKey:        cfg.APIKey,
		Model:         cfg.Model,
		BaseURL:       cfg.BaseURL,
		BatchSize:     cfg.BatchSize,
		MaxCandidates: cfg.MaxCandidates,
	})

	limited := lojgloss.NewRateLimitedSimilarity(embeddings, lojgloss.RateLimitConfig{
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	retry := lojgloss.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	return lojgloss.NewRetryableSimilarity(limited, retry)
}

func (a *App) buildCache() error {
	cfg := a.cfg.Cache

	switch cfg.Backend {
	case "none":
		return nil
	case "memory":
		a.Cache = cache.NewInMemoryCache(cfg.TTL, cache.WithMaxEntries(cfg.MaxEntries))
	case "redis":
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:       cfg.RedisURL,
			TTL:       cfg.TTL,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return &lojgloss.CacheError{Message: "connecting to redis", Cause: err}
		}
		a.Cache = rc.WithLogger(a.logger)
		a.closers = append(a.closers, rc.Close)
	default:
		return &lojgloss.CacheError{Message: fmt.Sprintf("unknown cache backend %q", cfg.Backend)}
	}
	return nil
}

// restoreSnapshot loads the configured snapshot into the cache. A missing
// snapshot file is not an error.
func (a *App) restoreSnapshot() error {
	path := a.cfg.Cache.Snapshot
	if path == "" || a.Cache == nil {
		return nil
	}

	snap, res, err := cache.RestoreFile(path, a.Cache)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &lojgloss.CacheError{Message: "restoring snapshot " + path, Cause: err}
	}

	log := a.logger.With("path", path)
	if table, _ := a.Translator.Table(); table != nil && snap.Metadata["fingerprint"] != table.Fingerprint() {
		log.Warn("cache snapshot was taken with another dictionary; its decisions will not be reused",
			"snapshot_fingerprint", snap.Metadata["fingerprint"])
	}
	log.Info("cache snapshot restored", "decisions", res.Restored, "failed", res.Failed, "skipped", res.Skipped)
	return nil
}

// SaveSnapshot writes the cache to the configured snapshot file.
func (a *App) SaveSnapshot() error {
	path := a.cfg.Cache.Snapshot
	if path == "" || a.Cache == nil {
		return nil
	}

	table, _ := a.Translator.Table()
	metadata := map[string]string{"fingerprint": table.Fingerprint()}
	if err := cache.SaveFile(path, a.Cache, metadata); err != nil {
		return &lojgloss.CacheError{Message: "saving snapshot " + path, Cause: err}
	}

	a.logger.Info("cache snapshot saved", "path", path)
	return nil
}

// Close saves the cache snapshot and releases connections.
func (a *App) Close() error {
	var err error
	if a.Translator != nil {
		err = a.SaveSnapshot()
	}
	return errors.Join(err, a.release())
}

func (a *App) release() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
