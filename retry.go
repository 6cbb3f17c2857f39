package lojgloss

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig controls how transient provider failures are retried.
// Delays double from BaseDelay up to MaxDelay.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig retries three times, starting at one second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.BaseDelay
	exp.MaxInterval = c.MaxDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// WithRetry runs fn until it succeeds, returns an error IsRetryable rejects,
// runs out of retries, or ctx ends.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}
		v, err := fn()
		if err != nil && !IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, cfg.backOff(ctx))
}

// IsRetryable reports whether err is a ProviderError marked Retryable.
// Context cancellation never is.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}

// RetryableSimilarity retries transient failures of another provider.
type RetryableSimilarity struct {
	provider SimilarityProvider
	config   RetryConfig
}

// NewRetryableSimilarity wraps provider with cfg.
func NewRetryableSimilarity(provider SimilarityProvider, cfg RetryConfig) *RetryableSimilarity {
	return &RetryableSimilarity{provider: provider, config: cfg}
}

// Similar implements SimilarityProvider.
func (p *RetryableSimilarity) Similar(ctx context.Context, req SimilarityRequest) ([]Candidate, error) {
	return WithRetry(ctx, p.config, func() ([]Candidate, error) {
		return p.provider.Similar(ctx, req)
	})
}

// Model reports the wrapped provider's name so cache keys do not depend on
// whether retries are enabled.
func (p *RetryableSimilarity) Model() string {
	return providerName(p.provider)
}
