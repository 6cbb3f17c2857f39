package lojgloss

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig bounds how often a similarity provider is consulted.
type RateLimitConfig struct {
	RequestsPerMinute int // <= 0 means 60
	BurstSize         int // <= 0 means RequestsPerMinute
}

// RateLimiter paces provider lookups with a token bucket.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter returns a limiter that starts with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return &RateLimiter{lim: rate.NewLimiter(rate.Limit(float64(rpm)/60), burst)}
}

// Wait blocks until a lookup may proceed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.lim.Wait(ctx)
}

// TryAcquire takes a token if one is available right now.
func (r *RateLimiter) TryAcquire() bool {
	return r.lim.Allow()
}

// Available reports the tokens currently in the bucket.
func (r *RateLimiter) Available() float64 {
	return r.lim.Tokens()
}

// RateLimitedSimilarity paces calls to another SimilarityProvider.
type RateLimitedSimilarity struct {
	provider SimilarityProvider
	limiter  *RateLimiter
}

// NewRateLimitedSimilarity wraps provider with a limiter built from cfg.
func NewRateLimitedSimilarity(provider SimilarityProvider, cfg RateLimitConfig) *RateLimitedSimilarity {
	return &RateLimitedSimilarity{provider: provider, limiter: NewRateLimiter(cfg)}
}

// Similar waits for a token, then delegates. A wait that ends with ctx is
// reported as a non-retryable ProviderError.
func (p *RateLimitedSimilarity) Similar(ctx context.Context, req SimilarityRequest) ([]Candidate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Message: "waiting for similarity quota for " + req.Lemma, Cause: err}
	}
	return p.provider.Similar(ctx, req)
}

// Model reports the wrapped provider's name for cache keys.
func (p *RateLimitedSimilarity) Model() string { return providerName(p.provider) }

// Limiter returns the underlying token bucket.
func (p *RateLimitedSimilarity) Limiter() *RateLimiter { return p.limiter }
