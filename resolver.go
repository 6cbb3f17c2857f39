package lojgloss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum similarity score accepted by the
// similarity fallback.
const DefaultThreshold = 0.70

// SpanPolicy selects the phrase lengths tried at each position.
type SpanPolicy int

const (
	// SpansTable tries every length from the longest table key down to 2.
	SpansTable SpanPolicy = iota
	// SpansLegacy tries only 3-word and 2-word phrases.
	SpansLegacy
)

// String returns the policy name used in configuration.
func (p SpanPolicy) String() string {
	if p == SpansLegacy {
		return "legacy"
	}
	return "table"
}

// ParseSpanPolicy parses "table" or "legacy".
func ParseSpanPolicy(s string) (SpanPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return SpansTable, nil
	case "legacy":
		return SpansLegacy, nil
	default:
		return SpansTable, fmt.Errorf("unknown span policy %q", s)
	}
}

// ResolverConfig configures a forward Resolver.
type ResolverConfig struct {
	Spans      SpanPolicy
	Synonyms   SynonymProvider    // optional
	Similarity SimilarityProvider // optional
	Threshold  float64            // similarity acceptance; <= 0 means DefaultThreshold
	Cache      LookupCache        // optional; caches fallback decisions
	Logger     *slog.Logger
	Trace      io.Writer // optional per-token trace
}

// Resolver resolves English tokens against a GlossTable.
// A Resolver accumulates statistics and is not safe for concurrent use;
// build one per translation call.
type Resolver struct {
	table *GlossTable
	cfg   ResolverConfig
	stats Stats
}

// NewResolver creates a forward resolver over table.
func NewResolver(table *GlossTable, cfg ResolverConfig) *Resolver {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{table: table, cfg: cfg}
}

// Stats returns the counters accumulated so far.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// ResolveSentence resolves the tokens of one sentence. Ignored words and bare
// punctuation are dropped first; the rest is segmented greedily, preferring
// the longest phrase at each position without backtracking.
func (r *Resolver) ResolveSentence(ctx context.Context, tokens []Token) []ResolvedToken {
	kept := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if forwardIgnored[tok.Text] || isPunctuation(tok.Text) {
			continue
		}
		if tok.Lemma == "" {
			tok.Lemma = tok.Text
		}
		kept = append(kept, tok)
	}

	out := make([]ResolvedToken, 0, len(kept))
	for i := 0; i < len(kept); {
		var rt ResolvedToken
		if kept[i].Number {
			rt = r.resolveNumber(kept[i])
		} else if phrase, ok := r.matchPhrase(kept, i); ok {
			rt = phrase
		} else {
			rt = r.resolveWord(ctx, kept[i])
		}

		r.record(rt)
		out = append(out, rt)
		i += rt.Span
	}
	return out
}

func (r *Resolver) resolveNumber(tok Token) ResolvedToken {
	rt := ResolvedToken{Source: tok.Text, Lemma: tok.Text, Span: 1}
	if digits := EncodeDigits(tok.Text); digits != "" {
		rt.Text = digits
		rt.Strategy = StrategyDigits
	} else {
		rt.Strategy = StrategyUnresolved
	}
	return rt
}

// spanLengths returns the phrase lengths to try with remaining tokens left.
func (r *Resolver) spanLengths(remaining int) []int {
	var lengths []int
	if r.cfg.Spans == SpansLegacy {
		for _, n := range []int{3, 2} {
			if n <= remaining {
				lengths = append(lengths, n)
			}
		}
		return lengths
	}

	longest := min(r.table.MaxPhraseLen(), remaining)
	for n := longest; n >= 2; n-- {
		lengths = append(lengths, n)
	}
	return lengths
}

func (r *Resolver) matchPhrase(tokens []Token, start int) (ResolvedToken, bool) {
	for _, n := range r.spanLengths(len(tokens) - start) {
		span := tokens[start : start+n]
		lemmas := make([]string, n)
		texts := make([]string, n)
		for i, tok := range span {
			lemmas[i] = NormalizeGloss(tok.Lemma)
			texts[i] = tok.Text
		}

		key := strings.Join(lemmas, " ")
		if word, ok := r.table.lookupKey(key); ok {
			return ResolvedToken{
				Source:   strings.Join(texts, " "),
				Lemma:    key,
				Text:     word,
				Strategy: StrategyPhrase,
				Span:     n,
			}, true
		}
	}
	return ResolvedToken{}, false
}

func (r *Resolver) resolveWord(ctx context.Context, tok Token) ResolvedToken {
	lemma := NormalizeGloss(tok.Lemma)
	rt := ResolvedToken{Source: tok.Text, Lemma: lemma, Span: 1}

	if word, ok := r.table.lookupKey(lemma); ok {
		rt.Text = word
		rt.Strategy = StrategyExact
		return rt
	}

	if lemma == "" {
		rt.Strategy = StrategyUnresolved
		return rt
	}

	var key string
	if r.cfg.Cache != nil {
		key = r.cacheKey(lemma)
		if cached, ok := r.cfg.Cache.Get(key); ok {
			if d, ok := decodeDecision(cached); ok {
				r.stats.CacheHits++
				rt.Text, rt.Strategy, rt.Score = d.word, d.strategy, d.score
				return rt
			}
		}
	}

	d, complete := r.fallback(ctx, lemma)
	rt.Text, rt.Strategy, rt.Score = d.word, d.strategy, d.score

	// A provider failure may hide the real answer; retry it next time.
	if r.cfg.Cache != nil && complete && ctx.Err() == nil {
		if err := r.cfg.Cache.Set(key, d.encode()); err != nil {
			r.cfg.Logger.Warn("caching fallback decision failed", "lemma", lemma, "error", err)
		}
	}
	return rt
}

// fallback consults the synonym provider, then the similarity provider.
// complete is false when a provider failed along the way, in which case the
// decision must not be cached.
func (r *Resolver) fallback(ctx context.Context, lemma string) (d decision, complete bool) {
	complete = true

	if r.cfg.Synonyms != nil {
		synonyms, err := r.cfg.Synonyms.Synonyms(ctx, lemma)
		if err != nil {
			r.cfg.Logger.Warn("synonym lookup failed", "lemma", lemma, "error", err)
			complete = false
		}
		for _, syn := range synonyms {
			if word, ok := r.table.lookupKey(NormalizeGloss(syn)); ok {
				return decision{strategy: StrategySynonym, word: word}, complete
			}
		}
	}

	if r.cfg.Similarity != nil {
		candidates, err := r.cfg.Similarity.Similar(ctx, SimilarityRequest{
			Lemma:   lemma,
			Glosses: r.table.Glosses(),
		})
		if err != nil {
			r.cfg.Logger.Warn("similarity lookup failed", "lemma", lemma, "error", err)
			complete = false
		}
		for _, c := range candidates {
			if c.Score < r.cfg.Threshold {
				continue
			}
			if word, ok := r.table.lookupKey(NormalizeGloss(c.Text)); ok {
				return decision{strategy: StrategySimilarity, word: word, score: c.Score}, complete
			}
		}
	}

	return decision{strategy: StrategyUnresolved}, complete
}

func (r *Resolver) cacheKey(lemma string) string {
	return DecisionKey(lemma, r.table.Fingerprint(), r.cfg.Threshold,
		synonymSourceName(r.cfg.Synonyms), providerName(r.cfg.Similarity))
}

func (r *Resolver) record(rt ResolvedToken) {
	r.stats.Tokens++
	switch rt.Strategy {
	case StrategyUnresolved:
		r.stats.Unresolved++
	case StrategyPhrase:
		r.stats.Phrases++
		r.stats.Resolved++
	case StrategySynonym, StrategySimilarity:
		r.stats.Fallbacks++
		r.stats.Resolved++
	default:
		r.stats.Resolved++
	}

	r.cfg.Logger.Debug("token resolved",
		"token", rt.Source, "lemma", rt.Lemma, "strategy", string(rt.Strategy), "result", rt.Text)
	writeTrace(r.cfg.Trace, rt)
}

// ReverseResolver resolves Lojban tokens token by token.
type ReverseResolver struct {
	table  *GlossTable
	logger *slog.Logger
	trace  io.Writer
	stats  Stats
}

// NewReverseResolver creates a reverse resolver over table.
func NewReverseResolver(table *GlossTable, logger *slog.Logger, trace io.Writer) *ReverseResolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReverseResolver{table: table, logger: logger, trace: trace}
}

// Stats returns the counters accumulated so far.
func (r *ReverseResolver) Stats() Stats {
	return r.stats
}

// ResolveSentence drops template particles and punctuation, then maps digit
// words to digits and other words through the reverse table.
func (r *ReverseResolver) ResolveSentence(tokens []string) []ResolvedToken {
	out := make([]ResolvedToken, 0, len(tokens))
	for _, tok := range tokens {
		if reverseIgnored[tok] || isPunctuation(tok) {
			continue
		}

		rt := ResolvedToken{Source: tok, Lemma: tok, Span: 1}
		if digit, ok := DecodeToken(tok); ok {
			rt.Text, rt.Strategy = digit, StrategyDigits
		} else if gloss, ok := r.table.Reverse(tok); ok {
			rt.Text, rt.Strategy = gloss, StrategyReverse
		} else {
			rt.Strategy = StrategyUnresolved
		}

		r.stats.Tokens++
		if rt.Resolved() {
			r.stats.Resolved++
		} else {
			r.stats.Unresolved++
		}
		r.logger.Debug("token resolved", "token", tok, "strategy", string(rt.Strategy), "result", rt.Text)
		writeTrace(r.trace, rt)

		out = append(out, rt)
	}
	return out
}

// decision is a cached fallback outcome, encoded as "strategy|word|score".
type decision struct {
	strategy Strategy
	word     string
	score    float64
}

func (d decision) encode() string {
	return string(d.strategy) + "|" + d.word + "|" + strconv.FormatFloat(d.score, 'f', -1, 64)
}

func decodeDecision(s string) (decision, bool) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return decision{}, false
	}
	score, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return decision{}, false
	}

	d := decision{strategy: Strategy(parts[0]), word: parts[1], score: score}
	switch d.strategy {
	case StrategySynonym, StrategySimilarity:
		return d, d.word != ""
	case StrategyUnresolved:
		return d, d.word == ""
	default:
		return decision{}, false
	}
}

func writeTrace(w io.Writer, rt ResolvedToken) {
	if w == nil {
		return
	}
	result := rt.Text
	if !rt.Resolved() {
		result = "❌ not found"
	}
	fmt.Fprintf(w, "%s → %s\n", rt.Source, result)
}

// isPunctuation reports whether s consists only of punctuation or symbols.
// The empty string counts as punctuation.
func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// providerName identifies a similarity provider in cache keys.
func providerName(p SimilarityProvider) string {
	if p == nil {
		return "none"
	}
	if m, ok := p.(interface{ Model() string }); ok {
		return m.Model()
	}
	return fmt.Sprintf("%T", p)
}

// synonymSourceName identifies a synonym provider in cache keys. Providers
// with a Name method should derive it from their contents.
func synonymSourceName(p SynonymProvider) string {
	if p == nil {
		return "none"
	}
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}
