package lojgloss

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ZaguanLabs/lojgloss/nlp"
	"github.com/google/uuid"
)

// Translator is the main translation engine. The gloss table is rebuilt from
// the dictionary source on every call, so a Translator never serves stale
// dictionary contents and holds no per-call state.
type Translator struct {
	source     DictionarySource
	pipeline   Pipeline
	synonyms   SynonymProvider
	similarity SimilarityProvider
	threshold  float64
	spans      SpanPolicy
	cache      LookupCache
	logger     *slog.Logger
	trace      io.Writer
	processors map[string]ContentProcessor
}

// SynonymProvider returns lexical synonyms of a lemma, best first.
type SynonymProvider interface {
	Synonyms(ctx context.Context, lemma string) ([]string, error)
}

// SimilarityRequest asks for glosses similar to Lemma.
type SimilarityRequest struct {
	Lemma   string
	Glosses []string // Table keys in insertion order
}

// Candidate is a scored alternate form returned by a SimilarityProvider.
type Candidate struct {
	Text  string
	Score float64
}

// SimilarityProvider scores glosses against a lemma. Candidates are returned
// in the order they should be tried, usually by descending score.
type SimilarityProvider interface {
	Similar(ctx context.Context, req SimilarityRequest) ([]Candidate, error)
}

// LookupCache is the interface for caching fallback decisions.
type LookupCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error)
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithDictionary sets the dictionary source.
func WithDictionary(src DictionarySource) TranslatorOption {
	return func(t *Translator) {
		t.source = src
	}
}

// WithPipeline replaces the NLP collaborators.
func WithPipeline(p Pipeline) TranslatorOption {
	return func(t *Translator) {
		t.pipeline = p
	}
}

// WithSynonyms enables the synonym fallback.
func WithSynonyms(p SynonymProvider) TranslatorOption {
	return func(t *Translator) {
		t.synonyms = p
	}
}

// WithSimilarity enables the similarity fallback with an acceptance threshold.
// A threshold <= 0 selects DefaultThreshold.
func WithSimilarity(p SimilarityProvider, threshold float64) TranslatorOption {
	return func(t *Translator) {
		t.similarity = p
		if threshold > 0 {
			t.threshold = threshold
		}
	}
}

// WithSpanPolicy sets the phrase lengths tried during segmentation.
func WithSpanPolicy(p SpanPolicy) TranslatorOption {
	return func(t *Translator) {
		t.spans = p
	}
}

// WithCache sets the fallback decision cache.
func WithCache(cache LookupCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithTrace writes one "token → result" line per resolved token to w.
func WithTrace(w io.Writer) TranslatorOption {
	return func(t *Translator) {
		t.trace = w
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[processor.ContentType()] = processor
	}
}

// NewTranslator creates a new Translator. Without WithDictionary it uses the
// built-in table; without WithPipeline it uses nlp.English.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{
		threshold:  DefaultThreshold,
		logger:     slog.New(slog.DiscardHandler),
		processors: make(map[string]ContentProcessor),
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.pipeline == nil {
		t.pipeline = nlp.MustEnglish()
	}

	return t
}

// Translate translates text in the given direction, producing one line per
// sentence. Unresolved tokens and dictionary failures never fail the call;
// the only error is a cancelled context.
func (t *Translator) Translate(ctx context.Context, text string, dir Direction) (*Result, error) {
	runID := uuid.NewString()
	logger := t.logger.With("run_id", runID, "direction", dir.String())

	table := t.loadTable(logger)
	result, err := t.translate(ctx, text, dir, table, logger)
	if err != nil {
		return nil, err
	}
	result.RunID = runID

	logger.Info("translation finished",
		"sentences", result.Stats.Sentences,
		"tokens", result.Stats.Tokens,
		"unresolved", result.Stats.Unresolved,
		"builtin_table", result.Stats.BuiltinTable,
	)
	return result, nil
}

// Process translates content of the specified type, node by node.
func (t *Translator) Process(ctx context.Context, content string, contentType string, dir Direction) (*ProcessedContent, error) {
	processor, ok := t.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return &ProcessedContent{Content: content}, nil
	}

	logger := t.logger.With("run_id", uuid.NewString(), "direction", dir.String(), "content_type", contentType)
	table := t.loadTable(logger)

	var stats Stats
	translations := make(map[string]string, len(nodes))
	for _, node := range nodes {
		if _, done := translations[node.Hash]; done {
			continue
		}
		result, err := t.translate(ctx, node.Text, dir, table, logger)
		if err != nil {
			return nil, err
		}
		translations[node.Hash] = result.Text()
		stats = addStats(stats, result.Stats)
	}

	out, err := processor.Apply(parsed, nodes, translations)
	if err != nil {
		return nil, err
	}

	return &ProcessedContent{
		Content:    out,
		TotalNodes: len(nodes),
		Stats:      stats,
	}, nil
}

// ProcessHTML is a convenience method for processing HTML content.
func (t *Translator) ProcessHTML(ctx context.Context, html string, dir Direction) (*ProcessedContent, error) {
	return t.Process(ctx, html, "html", dir)
}

// Table loads the gloss table a translation call would use. The error, if
// any, describes why the built-in table was substituted.
func (t *Translator) Table() (*GlossTable, error) {
	return LoadGlossTable(t.source)
}

func (t *Translator) loadTable(logger *slog.Logger) *GlossTable {
	table, err := LoadGlossTable(t.source)
	if err != nil {
		logger.Warn("dictionary unavailable, using built-in table", "error", err)
	}
	return table
}

func (t *Translator) translate(ctx context.Context, text string, dir Direction, table *GlossTable, logger *slog.Logger) (*Result, error) {
	if dir == Reverse {
		return t.translateReverse(ctx, text, table, logger)
	}
	return t.translateForward(ctx, text, table, logger)
}

func (t *Translator) translateForward(ctx context.Context, text string, table *GlossTable, logger *slog.Logger) (*Result, error) {
	resolver := NewResolver(table, ResolverConfig{
		Spans:      t.spans,
		Synonyms:   t.synonyms,
		Similarity: t.similarity,
		Threshold:  t.threshold,
		Cache:      t.cache,
		Logger:     logger,
		Trace:      t.trace,
	})

	result := &Result{Direction: Forward}
	for _, sentence := range t.pipeline.SplitSentences(t.pipeline.Expand(text)) {
		if err := ctx.Err(); err != nil {
			return nil, &TranslationError{Message: "translation cancelled", Cause: err}
		}

		raw := t.pipeline.Tokenize(strings.ToLower(sentence))
		tokens := make([]Token, len(raw))
		for i, tok := range raw {
			tokens[i] = Token{Text: tok}
			if t.pipeline.LooksLikeNumber(tok) {
				tokens[i].Number = true
				continue
			}
			tokens[i].Lemma = strings.ToLower(t.pipeline.Lemmatize(tok))
		}

		resolved := resolver.ResolveSentence(ctx, tokens)
		result.Sentences = append(result.Sentences, SentenceResult{
			Source: sentence,
			Tokens: resolved,
			Line:   ForwardLine(resolved),
		})
	}

	result.Stats = resolver.Stats()
	result.Stats.Sentences = len(result.Sentences)
	result.Stats.BuiltinTable = table.Builtin()
	return result, nil
}

func (t *Translator) translateReverse(ctx context.Context, text string, table *GlossTable, logger *slog.Logger) (*Result, error) {
	resolver := NewReverseResolver(table, logger, t.trace)

	result := &Result{Direction: Reverse}
	for _, sentence := range t.pipeline.SplitSentences(text) {
		if err := ctx.Err(); err != nil {
			return nil, &TranslationError{Message: "translation cancelled", Cause: err}
		}

		resolved := resolver.ResolveSentence(t.pipeline.Tokenize(strings.ToLower(sentence)))
		result.Sentences = append(result.Sentences, SentenceResult{
			Source: sentence,
			Tokens: resolved,
			Line:   AssembleReverse(resolved),
		})
	}

	result.Stats = resolver.Stats()
	result.Stats.Sentences = len(result.Sentences)
	result.Stats.BuiltinTable = table.Builtin()
	return result, nil
}

// Threshold returns the similarity acceptance threshold.
func (t *Translator) Threshold() float64 {
	return t.threshold
}

// SpanPolicy returns the phrase segmentation policy.
func (t *Translator) SpanPolicy() SpanPolicy {
	return t.spans
}

func addStats(a, b Stats) Stats {
	return Stats{
		Sentences:    a.Sentences + b.Sentences,
		Tokens:       a.Tokens + b.Tokens,
		Resolved:     a.Resolved + b.Resolved,
		Unresolved:   a.Unresolved + b.Unresolved,
		Phrases:      a.Phrases + b.Phrases,
		Fallbacks:    a.Fallbacks + b.Fallbacks,
		CacheHits:    a.CacheHits + b.CacheHits,
		BuiltinTable: a.BuiltinTable || b.BuiltinTable,
	}
}
