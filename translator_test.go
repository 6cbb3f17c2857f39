package lojgloss

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testEntries = []GlossEntry{
	{Word: "gerku", Glosswords: []string{"dog", "hound"}},
	{Word: "nanmu", Glosswords: []string{"man"}},
	{Word: "prami", Glosswords: []string{"love", "adore"}},
	{Word: "bisyladru", Glosswords: []string{"ice cream"}},
	{Word: "coi", Glosswords: []string{"hello"}},
	{Word: "mlatu", Glosswords: []string{"cat"}},
	{Word: "tavla", Glosswords: []string{"talk", "speak"}},
}

// mockSynonyms is a fixed synonym dictionary for testing
type mockSynonyms struct {
	synonyms  map[string][]string
	callCount int
}

func (m *mockSynonyms) Synonyms(ctx context.Context, lemma string) ([]string, error) {
	m.callCount++
	return m.synonyms[lemma], nil
}

// mockSimilarity returns canned candidates for testing
type mockSimilarity struct {
	candidates map[string][]Candidate
	err        error
	callCount  int
}

func (m *mockSimilarity) Similar(ctx context.Context, req SimilarityRequest) ([]Candidate, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates[req.Lemma], nil
}

// mockCache is a simple mock cache for testing
type mockCache struct {
	data map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (c *mockCache) Get(key string) (string, bool) {
	val, ok := c.data[key]
	return val, ok
}

func (c *mockCache) Set(key string, value string) error {
	c.data[key] = value
	return nil
}

// mockHTMLProcessor is a simple HTML processor for testing
type mockHTMLProcessor struct{}

func (p *mockHTMLProcessor) Extract(content string) (interface{}, []TextNode, error) {
	// Simple extraction: find text between > and <
	var nodes []TextNode
	seenHashes := make(map[string]bool)

	parts := strings.Split(content, ">")
	for _, part := range parts {
		idx := strings.Index(part, "<")
		if idx > 0 {
			text := strings.TrimSpace(part[:idx])
			if text != "" {
				hash := HashText(text)
				if !seenHashes[hash] {
					seenHashes[hash] = true
					nodes = append(nodes, TextNode{
						ID:       hash[:8],
						Text:     text,
						Hash:     hash,
						NodeType: "html_text",
					})
				}
			}
		}
	}

	return content, nodes, nil
}

func (p *mockHTMLProcessor) Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error) {
	result := parsed.(string)
	for _, node := range nodes {
		if translated, ok := translations[node.Hash]; ok {
			result = strings.ReplaceAll(result, ">"+node.Text+"<", ">"+translated+"<")
		}
	}
	return result, nil
}

func (p *mockHTMLProcessor) ContentType() string {
	return "html"
}

func newTestTranslator(opts ...TranslatorOption) *Translator {
	return NewTranslator(append([]TranslatorOption{WithDictionary(StaticSource(testEntries))}, opts...)...)
}

func TestTranslator_Forward(t *testing.T) {
	translator := newTestTranslator()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"single token", "Dog.", "u'i gerku"},
		{"subject and predicate", "The man loves.", "u'i lo nanmu cu prami"},
		{"phrase", "I like ice cream.", "u'i lo [i] [like] cu bisyladru"},
		{"plural lemma", "Dogs!", "u'i gerku"},
		{"numeral", "I have 42 dogs.", "u'i lo [i] [have] vo re cu gerku"},
		{"contraction", "Don't talk", "u'i lo [do] [not] cu tavla"},
		{"possessive clitic", "The dog's bone.", "u'i lo gerku ['s] cu [bone]"},
		{"only ignored words", "The.", "u'i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := translator.Translate(context.Background(), tt.text, Forward)
			if err != nil {
				t.Fatalf("Translate failed: %v", err)
			}
			if got := result.Text(); got != tt.want {
				t.Errorf("Translate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTranslator_OneLinePerSentence(t *testing.T) {
	translator := newTestTranslator()

	result, err := translator.Translate(context.Background(), "The man loves. Dog! Hello cat.", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := []string{"u'i lo nanmu cu prami", "u'i gerku", "u'i lo coi cu mlatu"}
	lines := result.Lines()
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: got %q, want %q", i, lines[i], want[i])
		}
	}

	if result.Stats.Sentences != 3 {
		t.Errorf("Expected 3 sentences, got %d", result.Stats.Sentences)
	}
	if result.Stats.Tokens != 5 || result.Stats.Resolved != 5 {
		t.Errorf("Unexpected stats: %+v", result.Stats)
	}
	if result.RunID == "" {
		t.Error("Expected a run ID")
	}
}

func TestTranslator_EmptyInput(t *testing.T) {
	translator := newTestTranslator()

	result, err := translator.Translate(context.Background(), "   ", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(result.Sentences) != 0 || result.Text() != "" {
		t.Errorf("Expected no output for blank input, got %q", result.Text())
	}
}

func TestTranslator_SpanPolicy(t *testing.T) {
	entries := []GlossEntry{
		{Word: "fagykarce", Glosswords: []string{"big red fire truck", "fire truck"}},
		{Word: "barda", Glosswords: []string{"big"}},
		{Word: "xunre", Glosswords: []string{"red"}},
	}

	table := NewTranslator(WithDictionary(StaticSource(entries)))
	result, err := table.Translate(context.Background(), "big red fire truck", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i fagykarce" {
		t.Errorf("Table spans: got %q", got)
	}

	legacy := NewTranslator(WithDictionary(StaticSource(entries)), WithSpanPolicy(SpansLegacy))
	result, err = legacy.Translate(context.Background(), "big red fire truck", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i lo barda xunre cu fagykarce" {
		t.Errorf("Legacy spans: got %q", got)
	}
}

func TestTranslator_SynonymFallback(t *testing.T) {
	synonyms := &mockSynonyms{synonyms: map[string][]string{
		"puppy": {"pup", "dog"},
	}}
	translator := newTestTranslator(WithSynonyms(synonyms))

	result, err := translator.Translate(context.Background(), "Puppy.", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i gerku" {
		t.Errorf("Expected synonym fallback to gerku, got %q", got)
	}
	if tok := result.Sentences[0].Tokens[0]; tok.Strategy != StrategySynonym {
		t.Errorf("Expected synonym strategy, got %s", tok.Strategy)
	}
	if result.Stats.Fallbacks != 1 {
		t.Errorf("Expected 1 fallback, got %d", result.Stats.Fallbacks)
	}
}

func TestTranslator_SimilarityThreshold(t *testing.T) {
	similarity := &mockSimilarity{candidates: map[string][]Candidate{
		"chat":   {{Text: "cat", Score: 0.6}, {Text: "talk", Score: 0.82}},
		"kitten": {{Text: "cat", Score: 0.69}},
		"puppy":  {{Text: "dog", Score: 0.70}},
	}}
	translator := newTestTranslator(WithSimilarity(similarity, 0))

	result, err := translator.Translate(context.Background(), "chat", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	tok := result.Sentences[0].Tokens[0]
	if tok.Text != "tavla" || tok.Strategy != StrategySimilarity || tok.Score != 0.82 {
		t.Errorf("Expected similarity match tavla@0.82, got %+v", tok)
	}

	result, err = translator.Translate(context.Background(), "kitten", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i [kitten]" {
		t.Errorf("Expected below-threshold candidate to be rejected, got %q", got)
	}

	result, err = translator.Translate(context.Background(), "puppy", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if tok := result.Sentences[0].Tokens[0]; tok.Text != "gerku" || tok.Score != DefaultThreshold {
		t.Errorf("Expected a score equal to the threshold to be accepted, got %+v", tok)
	}
}

func TestTranslator_SimilarityErrorIsUnresolved(t *testing.T) {
	similarity := &mockSimilarity{err: errors.New("provider down")}
	translator := newTestTranslator(WithSimilarity(similarity, 0.5))

	result, err := translator.Translate(context.Background(), "The man sings.", Forward)
	if err != nil {
		t.Fatalf("Translate should not fail on provider errors: %v", err)
	}
	if got := result.Text(); got != "u'i lo nanmu cu [sings]" {
		t.Errorf("Got %q", got)
	}
}

func TestTranslator_ProviderErrorNotCached(t *testing.T) {
	similarity := &mockSimilarity{
		err:        errors.New("provider down"),
		candidates: map[string][]Candidate{"puppy": {{Text: "dog", Score: 0.9}}},
	}
	cache := newMockCache()
	translator := newTestTranslator(WithSimilarity(similarity, 0), WithCache(cache))

	result, err := translator.Translate(context.Background(), "puppy", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i [puppy]" {
		t.Errorf("During outage: got %q", got)
	}
	if len(cache.data) != 0 {
		t.Errorf("A failed lookup must not be cached, cache has %d entries", len(cache.data))
	}

	similarity.err = nil
	result, err = translator.Translate(context.Background(), "puppy", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i gerku" {
		t.Errorf("After recovery: got %q", got)
	}
	if similarity.callCount != 2 {
		t.Errorf("Expected the provider to be asked again, got %d calls", similarity.callCount)
	}
}

func TestTranslator_CacheKeyedBySynonymSource(t *testing.T) {
	cache := newMockCache()

	bare := newTestTranslator(WithCache(cache))
	result, err := bare.Translate(context.Background(), "puppy", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i [puppy]" {
		t.Errorf("Without synonyms: got %q", got)
	}

	synonyms := &mockSynonyms{synonyms: map[string][]string{"puppy": {"dog"}}}
	withSynonyms := newTestTranslator(WithSynonyms(synonyms), WithCache(cache))
	result, err = withSynonyms.Translate(context.Background(), "puppy", Forward)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got := result.Text(); got != "u'i gerku" {
		t.Errorf("With synonyms on a shared cache: got %q", got)
	}
	if result.Stats.CacheHits != 0 {
		t.Errorf("Decision cached without synonyms was reused: %d hits", result.Stats.CacheHits)
	}
}

func TestTranslator_CacheHit(t *testing.T) {
	similarity := &mockSimilarity{candidates: map[string][]Candidate{
		"chat": {{Text: "talk", Score: 0.9}},
	}}
	cache := newMockCache()
	translator := newTestTranslator(WithSimilarity(similarity, 0), WithCache(cache))

	result1, err := translator.Translate(context.Background(), "chat", Forward)
	if err != nil {
		t.Fatalf("First Translate failed: %v", err)
	}
	if result1.Stats.CacheHits != 0 {
		t.Errorf("First call: expected 0 cache hits, got %d", result1.Stats.CacheHits)
	}

	result2, err := translator.Translate(context.Background(), "chat", Forward)
	if err != nil {
		t.Fatalf("Second Translate failed: %v", err)
	}
	if result2.Stats.CacheHits != 1 {
		t.Errorf("Second call: expected 1 cache hit, got %d", result2.Stats.CacheHits)
	}
	if result2.Text() != result1.Text() {
		t.Errorf("Cached result differs: %q vs %q", result2.Text(), result1.Text())
	}

	// Provider should only be called once
	if similarity.callCount != 1 {
		t.Errorf("Provider should be called once, was called %d times", similarity.callCount)
	}
}

func TestTranslator_ExactMatchSkipsFallback(t *testing.T) {
	synonyms := &mockSynonyms{}
	similarity := &mockSimilarity{}
	translator := newTestTranslator(WithSynonyms(synonyms), WithSimilarity(similarity, 0))

	if _, err := translator.Translate(context.Background(), "The man loves ice cream.", Forward); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if synonyms.callCount != 0 || similarity.callCount != 0 {
		t.Errorf("Fallbacks should not run for known glosses: synonyms=%d similarity=%d",
			synonyms.callCount, similarity.callCount)
	}
}

func TestTranslator_Reverse(t *testing.T) {
	translator := newTestTranslator()

	tests := []struct {
		text string
		want string
	}{
		{"u'i lo nanmu cu prami", "man love"},
		{"u'i gerku", "dog"},
		{"pa re ci", "1 2 3"},
		{"lo zarci cu barda", "[zarci] [barda]"},
		{"bisyladru", "ice cream"},
	}

	for _, tt := range tests {
		result, err := translator.Translate(context.Background(), tt.text, Reverse)
		if err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
		if got := result.Text(); got != tt.want {
			t.Errorf("Reverse(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTranslator_RoundTrip(t *testing.T) {
	translator := newTestTranslator()
	ctx := context.Background()

	forward, err := translator.Translate(ctx, "The man loves. Hello!", Forward)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	reverse, err := translator.Translate(ctx, forward.Text(), Reverse)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	if got := reverse.Lines(); len(got) != 2 || got[0] != "man love" || got[1] != "hello" {
		t.Errorf("Round trip lines: %q", got)
	}
}

func TestTranslator_BuiltinFallback(t *testing.T) {
	translator := NewTranslator(WithDictionary(FileSource(filepath.Join(t.TempDir(), "missing.json"))))

	result, err := translator.Translate(context.Background(), "The man loves the dog.", Forward)
	if err != nil {
		t.Fatalf("Translate should not fail on a missing dictionary: %v", err)
	}
	if got := result.Text(); got != "u'i lo nanmu prami cu gerku" {
		t.Errorf("Got %q", got)
	}
	if !result.Stats.BuiltinTable {
		t.Error("Expected the built-in table to be reported")
	}
}

func TestTranslator_DictionaryReadPerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	if err := os.WriteFile(path, []byte(`[{"word":"gerku","glosswords":["dog"]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	translator := NewTranslator(WithDictionary(FileSource(path)))

	result, _ := translator.Translate(context.Background(), "cat", Forward)
	if got := result.Text(); got != "u'i [cat]" {
		t.Errorf("Before update: got %q", got)
	}

	if err := os.WriteFile(path, []byte(`[{"word":"mlatu","glosswords":["cat"]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	result, _ = translator.Translate(context.Background(), "cat", Forward)
	if got := result.Text(); got != "u'i mlatu" {
		t.Errorf("After update: got %q", got)
	}
}

func TestTranslator_Cancelled(t *testing.T) {
	translator := newTestTranslator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := translator.Translate(ctx, "The man loves.", Forward)
	var transErr *TranslationError
	if !errors.As(err, &transErr) {
		t.Fatalf("Expected TranslationError, got %T", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain")
	}
}

func TestTranslator_Trace(t *testing.T) {
	var trace bytes.Buffer
	translator := newTestTranslator(WithTrace(&trace))

	if _, err := translator.Translate(context.Background(), "The man sings.", Forward); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := "man → nanmu\nsings → ❌ not found\n"
	if trace.String() != want {
		t.Errorf("Trace = %q, want %q", trace.String(), want)
	}
}

func TestTranslator_Process(t *testing.T) {
	translator := newTestTranslator(WithProcessor(&mockHTMLProcessor{}))

	result, err := translator.Process(context.Background(), "<p>The man loves.</p><p>Dog</p>", "html", Forward)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	want := "<p>u'i lo nanmu cu prami</p><p>u'i gerku</p>"
	if result.Content != want {
		t.Errorf("Got %q, want %q", result.Content, want)
	}
	if result.TotalNodes != 2 {
		t.Errorf("Expected TotalNodes 2, got %d", result.TotalNodes)
	}
	if result.Stats.Sentences != 2 {
		t.Errorf("Expected aggregated sentences 2, got %d", result.Stats.Sentences)
	}
}

func TestTranslator_EmptyContent(t *testing.T) {
	translator := newTestTranslator(WithProcessor(&mockHTMLProcessor{}))

	result, err := translator.ProcessHTML(context.Background(), "<div></div>", Forward)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.TotalNodes != 0 || result.Content != "<div></div>" {
		t.Errorf("Expected unchanged content, got %+v", result)
	}
}

func TestTranslator_NoProcessor(t *testing.T) {
	translator := newTestTranslator()

	_, err := translator.Process(context.Background(), "<p>Dog</p>", "html", Forward)
	if err == nil {
		t.Fatal("Expected error when no processor registered")
	}

	var procErr *ProcessorError
	if !errors.As(err, &procErr) {
		t.Errorf("Expected ProcessorError, got %T", err)
	}
}

func TestTranslator_Options(t *testing.T) {
	translator := NewTranslator()
	if translator.Threshold() != DefaultThreshold {
		t.Errorf("Expected default threshold %v, got %v", DefaultThreshold, translator.Threshold())
	}
	if translator.SpanPolicy() != SpansTable {
		t.Errorf("Expected table spans by default")
	}

	table, err := translator.Table()
	if err != nil {
		t.Fatalf("Table without a source should not fail: %v", err)
	}
	if !table.Builtin() {
		t.Error("Expected the built-in table without a dictionary")
	}

	translator = NewTranslator(WithSimilarity(&mockSimilarity{}, 0.85), WithSpanPolicy(SpansLegacy))
	if translator.Threshold() != 0.85 || translator.SpanPolicy() != SpansLegacy {
		t.Errorf("Options not applied: threshold=%v spans=%v", translator.Threshold(), translator.SpanPolicy())
	}
}
