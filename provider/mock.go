package provider

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MockSimilarity is a deterministic similarity provider for tests and demos.
// Scores are looked up by lemma; glosses without a score are not returned.
type MockSimilarity struct {
	Scores map[string]map[string]float64 // lemma -> gloss -> score
	Err    error                         // returned by every call when set

	mu          sync.Mutex
	callCount   int
	lastRequest *SimilarityRequest
}

// NewMockSimilarity creates a mock with a few default scores.
func NewMockSimilarity() *MockSimilarity {
	return &MockSimilarity{
		Scores: map[string]map[string]float64{
			"puppy":  {"dog": 0.86, "cat": 0.55},
			"kitten": {"cat": 0.88, "dog": 0.54},
			"adore":  {"love": 0.81},
			"human":  {"man": 0.74, "dog": 0.31},
		},
	}
}

// Similar returns the glosses of req that have a mock score, best first.
// The resolver applies the acceptance threshold.
func (m *MockSimilarity) Similar(ctx context.Context, req SimilarityRequest) ([]Candidate, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = &req
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	scores := m.Scores[req.Lemma]
	var candidates []Candidate
	for _, gloss := range req.Glosses {
		if score, ok := scores[gloss]; ok {
			candidates = append(candidates, Candidate{Text: gloss, Score: score})
		}
	}
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return candidates, nil
}

// Model identifies the mock in cache keys.
func (m *MockSimilarity) Model() string {
	return "mock"
}

// CallCount returns the number of Similar calls.
func (m *MockSimilarity) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the last request received, or nil.
func (m *MockSimilarity) LastRequest() *SimilarityRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockSimilarity) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockSimilarity implements SimilarityProvider
var _ SimilarityProvider = (*MockSimilarity)(nil)
