// Package nlp provides the default English pipeline: sentence splitting
// (Punkt, via neurosnap/sentences), tokenization (prose), dictionary
// lemmatization (golem), numeral detection and contraction expansion.
package nlp

import (
	"fmt"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"
	"github.com/neurosnap/sentences/english"
)

// English is the default pipeline used by lojgloss translators.
// The zero value is not usable; call NewEnglish.
type English struct {
	abbreviations []string
	overrides     map[string]string
	segmenter     *sentences.DefaultSentenceTokenizer
	lemmas        *golem.Lemmatizer
}

// Option configures an English pipeline.
type Option func(*English)

// WithAbbreviations adds words whose trailing period does not end a
// sentence, written lowercase without the final period ("fig", "e.g").
func WithAbbreviations(words ...string) Option {
	return func(e *English) {
		e.abbreviations = append(e.abbreviations, words...)
	}
}

// WithIrregular maps inflected forms to base forms ahead of the dictionary.
func WithIrregular(forms map[string]string) Option {
	return func(e *English) {
		for form, base := range forms {
			e.overrides[form] = base
		}
	}
}

// lemmaDictionary decodes the embedded English lemma list once; the
// lemmatizer is read-only and shared by every pipeline.
var lemmaDictionary = sync.OnceValues(func() (*golem.Lemmatizer, error) {
	return golem.New(en.New())
})

// NewEnglish creates an English pipeline backed by the embedded Punkt
// training data and lemma dictionary.
func NewEnglish(opts ...Option) (*English, error) {
	e := &English{overrides: make(map[string]string)}
	for _, opt := range opts {
		opt(e)
	}

	lemmas, err := lemmaDictionary()
	if err != nil {
		return nil, fmt.Errorf("loading lemma dictionary: %w", err)
	}
	e.lemmas = lemmas

	training, err := data.Asset("data/english.json")
	if err != nil {
		return nil, fmt.Errorf("loading sentence training data: %w", err)
	}
	storage, err := sentences.LoadTraining(training)
	if err != nil {
		return nil, fmt.Errorf("decoding sentence training data: %w", err)
	}
	for _, w := range e.abbreviations {
		storage.AbbrevTypes.Add(w)
	}

	e.segmenter, err = english.NewSentenceTokenizer(storage)
	if err != nil {
		return nil, fmt.Errorf("creating sentence tokenizer: %w", err)
	}
	return e, nil
}

// MustEnglish is like NewEnglish but panics on error. The embedded data
// only fails to load in a broken build.
func MustEnglish(opts ...Option) *English {
	e, err := NewEnglish(opts...)
	if err != nil {
		panic("nlp: " + err.Error())
	}
	return e
}
