package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Thesaurus is a synonym provider backed by a fixed word list, usually read
// from a YAML mapping of words to synonym lists:
//
//	puppy: [dog, hound]
//	feline: [cat]
type Thesaurus struct {
	entries map[string][]string
}

// NewThesaurus creates a thesaurus from a word -> synonyms map. Keys are
// lowercased; synonym order is kept.
func NewThesaurus(entries map[string][]string) *Thesaurus {
	t := &Thesaurus{entries: make(map[string][]string, len(entries))}
	for word, synonyms := range entries {
		key := strings.ToLower(strings.TrimSpace(word))
		t.entries[key] = append(t.entries[key], synonyms...)
	}
	return t
}

// ParseThesaurus decodes a YAML thesaurus from r.
func ParseThesaurus(r io.Reader) (*Thesaurus, error) {
	var entries map[string][]string
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding thesaurus YAML: %w", err)
	}
	return NewThesaurus(entries), nil
}

// LoadThesaurus reads a YAML thesaurus file.
func LoadThesaurus(path string) (*Thesaurus, error) {
	f, err := os.Open(path) // #nosec G304 - path is user configuration
	if err != nil {
		return nil, fmt.Errorf("opening thesaurus: %w", err)
	}
	defer f.Close()

	return ParseThesaurus(f)
}

// Synonyms returns the listed synonyms of lemma.
func (t *Thesaurus) Synonyms(ctx context.Context, lemma string) ([]string, error) {
	synonyms := t.entries[strings.ToLower(lemma)]
	out := make([]string, len(synonyms))
	copy(out, synonyms)
	return out, nil
}

// Len returns the number of words with synonyms.
func (t *Thesaurus) Len() int {
	return len(t.entries)
}

// Name identifies the thesaurus by a digest of its entries, so two
// thesauri with the same contents share cached decisions.
func (t *Thesaurus) Name() string {
	words := make([]string, 0, len(t.entries))
	for word := range t.entries {
		words = append(words, word)
	}
	slices.Sort(words)

	h := sha256.New()
	for _, word := range words {
		fmt.Fprintf(h, "%s=%s\n", word, strings.Join(t.entries[word], "\x1f"))
	}
	return "thesaurus-" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Verify Thesaurus implements SynonymProvider
var _ SynonymProvider = (*Thesaurus)(nil)
