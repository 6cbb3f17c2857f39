package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// WordNet is a synonym provider over a WordNet lexicon in the Global
// WordNet LMF JSON format (as published by Open English WordNet). Synonyms
// of a lemma are the other lemmas of its synsets, in sense order and then
// file order, without duplicates.
type WordNet struct {
	senses  map[string][]string // lemma -> synset IDs
	members map[string][]string // synset ID -> lemmas
	digest  string
}

type lmfDocument struct {
	Lexicons []struct {
		ID      string `json:"id"`
		Entries []struct {
			Lemma struct {
				WrittenForm  string `json:"writtenForm"`
				PartOfSpeech string `json:"partOfSpeech"`
			} `json:"lemma"`
			Sense []struct {
				ID     string `json:"id"`
				Synset string `json:"synset"`
			} `json:"sense"`
		} `json:"entries"`
	} `json:"lexicons"`
}

// ParseWordNet decodes a GWN-LMF JSON document from r.
func ParseWordNet(r io.Reader) (*WordNet, error) {
	h := sha256.New()
	var doc lmfDocument
	if err := json.NewDecoder(io.TeeReader(r, h)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding WordNet JSON: %w", err)
	}

	wn := &WordNet{
		senses:  make(map[string][]string),
		members: make(map[string][]string),
		digest:  hex.EncodeToString(h.Sum(nil))[:16],
	}
	for _, lex := range doc.Lexicons {
		for _, entry := range lex.Entries {
			lemma := normalizeLemma(entry.Lemma.WrittenForm)
			if lemma == "" {
				continue
			}
			for _, sense := range entry.Sense {
				if sense.Synset == "" {
					continue
				}
				wn.senses[lemma] = append(wn.senses[lemma], sense.Synset)
				wn.members[sense.Synset] = append(wn.members[sense.Synset], lemma)
			}
		}
	}
	return wn, nil
}

// LoadWordNet reads a GWN-LMF JSON file.
func LoadWordNet(path string) (*WordNet, error) {
	f, err := os.Open(path) // #nosec G304 - path is user configuration
	if err != nil {
		return nil, fmt.Errorf("opening WordNet: %w", err)
	}
	defer f.Close()

	return ParseWordNet(f)
}

// Synonyms returns the lemmas sharing a synset with lemma.
func (w *WordNet) Synonyms(ctx context.Context, lemma string) ([]string, error) {
	lemma = normalizeLemma(lemma)

	var out []string
	seen := map[string]bool{lemma: true}
	for _, synset := range w.senses[lemma] {
		for _, member := range w.members[synset] {
			if seen[member] {
				continue
			}
			seen[member] = true
			out = append(out, member)
		}
	}
	return out, nil
}

// Len returns the number of lemmas in the lexicon.
func (w *WordNet) Len() int {
	return len(w.senses)
}

// Name identifies the lexicon by a digest of the JSON it was parsed from.
func (w *WordNet) Name() string {
	return "wordnet-" + w.digest
}

// normalizeLemma lowercases and turns WordNet's multiword separator into spaces.
func normalizeLemma(s string) string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Verify WordNet implements SynonymProvider
var _ SynonymProvider = (*WordNet)(nil)
