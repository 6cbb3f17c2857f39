package provider

import (
	"cmp"
	"context"
	"errors"
	"math"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/ZaguanLabs/lojgloss"
	"github.com/sashabaranov/go-openai"
)

// OpenAIEmbeddingProvider scores glosses by cosine similarity of OpenAI
// embeddings. Gloss vectors are memoized per provider, so each distinct
// gloss is embedded once; the provider is safe for concurrent use.
type OpenAIEmbeddingProvider struct {
	client        *openai.Client
	model         openai.EmbeddingModel
	batchSize     int
	maxCandidates int

	mu      sync.RWMutex
	vectors map[string][]float32
}

// OpenAIConfig holds configuration for the OpenAI embedding provider.
type OpenAIConfig struct {
	APIKey        string // OpenAI API key
	Model         string // Embedding model (default: "text-embedding-3-small")
	BaseURL       string // Custom base URL (optional)
	BatchSize     int    // Inputs per embeddings request (default: 256)
	MaxCandidates int    // Candidates returned per lemma (default: 5)
}

// NewOpenAIEmbeddingProvider creates a new OpenAI embedding provider.
func NewOpenAIEmbeddingProvider(cfg OpenAIConfig) *OpenAIEmbeddingProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = openai.SmallEmbedding3
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 256
	}

	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 5
	}

	return &OpenAIEmbeddingProvider{
		client:        openai.NewClientWithConfig(config),
		model:         model,
		batchSize:     batchSize,
		maxCandidates: maxCandidates,
		vectors:       make(map[string][]float32),
	}
}

// Model returns the embedding model name.
func (p *OpenAIEmbeddingProvider) Model() string {
	return string(p.model)
}

// Similar embeds the lemma and any glosses not seen before, then returns the
// best-scoring glosses in descending order of cosine similarity.
func (p *OpenAIEmbeddingProvider) Similar(ctx context.Context, req SimilarityRequest) ([]Candidate, error) {
	if req.Lemma == "" || len(req.Glosses) == 0 {
		return nil, nil
	}

	if err := p.ensureVectors(ctx, append([]string{req.Lemma}, req.Glosses...)); err != nil {
		return nil, err
	}

	p.mu.RLock()
	lemmaVec := p.vectors[req.Lemma]
	candidates := make([]Candidate, 0, len(req.Glosses))
	for _, gloss := range req.Glosses {
		if gloss == req.Lemma {
			continue
		}
		candidates = append(candidates, Candidate{
			Text:  gloss,
			Score: cosine(lemmaVec, p.vectors[gloss]),
		})
	}
	p.mu.RUnlock()

	// stable: equal scores keep table order
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(candidates) > p.maxCandidates {
		candidates = candidates[:p.maxCandidates]
	}
	return candidates, nil
}

// ensureVectors embeds every text that has no memoized vector yet.
func (p *OpenAIEmbeddingProvider) ensureVectors(ctx context.Context, texts []string) error {
	p.mu.RLock()
	var missing []string
	seen := make(map[string]bool)
	for _, text := range texts {
		if _, ok := p.vectors[text]; !ok && !seen[text] {
			missing = append(missing, text)
			seen[text] = true
		}
	}
	p.mu.RUnlock()

	for batch := range slices.Chunk(missing, p.batchSize) {
		vectors, err := p.embed(ctx, batch)
		if err != nil {
			return err
		}

		p.mu.Lock()
		for i, text := range batch {
			p.vectors[text] = vectors[i]
		}
		p.mu.Unlock()
	}
	return nil
}

func (p *OpenAIEmbeddingProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, &lojgloss.ProviderError{
			Message:   "OpenAI embeddings call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Data) != len(texts) {
		return nil, &lojgloss.CountMismatchError{
			Expected: len(texts),
			Got:      len(resp.Data),
		}
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vectors[d.Index] != nil {
			return nil, &lojgloss.ProviderError{
				Message:   "invalid embedding index in OpenAI response",
				Retryable: false,
			}
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector or their lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return isRetryableStatus(reqErr.HTTPStatusCode)
	}

	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Verify OpenAIEmbeddingProvider implements SimilarityProvider
var _ SimilarityProvider = (*OpenAIEmbeddingProvider)(nil)
