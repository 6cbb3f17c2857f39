// Package provider implements the fallback collaborators of the translator:
// synonym sources (WordNet, thesaurus files) and similarity scorers
// (OpenAI embeddings, a deterministic mock).
package provider

import "github.com/ZaguanLabs/lojgloss"

// SynonymProvider is an alias to the main package interface for convenience.
type SynonymProvider = lojgloss.SynonymProvider

// SimilarityProvider is an alias to the main package interface.
type SimilarityProvider = lojgloss.SimilarityProvider

// SimilarityRequest is an alias to the main package type.
type SimilarityRequest = lojgloss.SimilarityRequest

// Candidate is an alias to the main package type.
type Candidate = lojgloss.Candidate
