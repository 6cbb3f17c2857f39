package lojgloss

import (
	"context"
	"reflect"
	"testing"
)

func words(texts ...string) []Token {
	out := make([]Token, len(texts))
	for i, text := range texts {
		out[i] = Token{Text: text, Lemma: text}
	}
	return out
}

func renderAll(tokens []ResolvedToken) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Render()
	}
	return out
}

func TestResolver_GreedyNoBacktracking(t *testing.T) {
	table := BuildGlossTable([]GlossEntry{
		{Word: "nuiork", Glosswords: []string{"new york"}},
		{Word: "tcadu", Glosswords: []string{"york city hall"}},
		{Word: "tcadu", Glosswords: []string{"city"}},
		{Word: "zdani", Glosswords: []string{"hall"}},
	})
	r := NewResolver(table, ResolverConfig{})

	got := renderAll(r.ResolveSentence(context.Background(), words("new", "york", "city", "hall")))
	want := []string{"nuiork", "tcadu", "zdani"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Got %v, want %v", got, want)
	}

	stats := r.Stats()
	if stats.Tokens != 3 || stats.Phrases != 1 || stats.Resolved != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestResolver_IgnoredAndPunctuation(t *testing.T) {
	r := NewResolver(BuildGlossTable(testEntries), ResolverConfig{})

	tokens := words("the", "dog", ",", "is", "a", "hound", "!", "—", "of", "an")
	got := renderAll(r.ResolveSentence(context.Background(), tokens))
	if !reflect.DeepEqual(got, []string{"gerku", "gerku"}) {
		t.Errorf("Got %v", got)
	}
}

func TestResolver_PhraseUsesLemmas(t *testing.T) {
	r := NewResolver(BuildGlossTable(testEntries), ResolverConfig{})

	tokens := []Token{{Text: "ices", Lemma: "ice"}, {Text: "creams", Lemma: "cream"}}
	got := r.ResolveSentence(context.Background(), tokens)
	if len(got) != 1 || got[0].Text != "bisyladru" || got[0].Source != "ices creams" || got[0].Span != 2 {
		t.Errorf("Unexpected phrase resolution: %+v", got)
	}
}

func TestResolver_Numbers(t *testing.T) {
	r := NewResolver(BuildGlossTable(testEntries), ResolverConfig{})

	got := r.ResolveSentence(context.Background(), []Token{
		{Text: "2024", Number: true},
		{Text: "+", Number: true},
	})
	if got[0].Text != "re no re vo" || got[0].Strategy != StrategyDigits {
		t.Errorf("Unexpected numeral: %+v", got[0])
	}
	// "+" alone is punctuation and dropped before resolution
	if len(got) != 1 {
		t.Errorf("Expected 1 token, got %d", len(got))
	}
}

func TestResolver_SpanLengths(t *testing.T) {
	table := BuildGlossTable([]GlossEntry{{Word: "x", Glosswords: []string{"a b c d e"}}})

	tests := []struct {
		spans     SpanPolicy
		remaining int
		want      []int
	}{
		{SpansTable, 10, []int{5, 4, 3, 2}},
		{SpansTable, 3, []int{3, 2}},
		{SpansTable, 1, nil},
		{SpansLegacy, 10, []int{3, 2}},
		{SpansLegacy, 2, []int{2}},
	}

	for _, tt := range tests {
		r := NewResolver(table, ResolverConfig{Spans: tt.spans})
		if got := r.spanLengths(tt.remaining); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("spanLengths(%v, %d) = %v, want %v", tt.spans, tt.remaining, got, tt.want)
		}
	}
}

func TestReverseResolver(t *testing.T) {
	r := NewReverseResolver(BuildGlossTable(testEntries), nil, nil)

	got := r.ResolveSentence([]string{"u'i", "lo", "nanmu", "cu", "prami", ".", "vo", "zarci"})
	want := []string{"man", "love", "4", "[zarci]"}
	if !reflect.DeepEqual(renderAll(got), want) {
		t.Errorf("Got %v, want %v", renderAll(got), want)
	}

	stats := r.Stats()
	if stats.Tokens != 4 || stats.Resolved != 3 || stats.Unresolved != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestDecision_Codec(t *testing.T) {
	tests := []decision{
		{strategy: StrategySimilarity, word: "tavla", score: 0.82},
		{strategy: StrategySynonym, word: "gerku"},
		{strategy: StrategyUnresolved},
	}
	for _, d := range tests {
		got, ok := decodeDecision(d.encode())
		if !ok || got != d {
			t.Errorf("decodeDecision(%q) = %+v, %v", d.encode(), got, ok)
		}
	}

	for _, bad := range []string{"", "exact|gerku|0", "similarity||0.9", "unresolved|x|0", "synonym|gerku|abc"} {
		if _, ok := decodeDecision(bad); ok {
			t.Errorf("decodeDecision(%q) should fail", bad)
		}
	}
}

func TestParseSpanPolicy(t *testing.T) {
	for in, want := range map[string]SpanPolicy{"": SpansTable, "table": SpansTable, "Legacy": SpansLegacy} {
		got, err := ParseSpanPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseSpanPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSpanPolicy("fuzzy"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestIsPunctuation(t *testing.T) {
	for _, s := range []string{"", ".", "!?", "—", "$", "..."} {
		if !isPunctuation(s) {
			t.Errorf("isPunctuation(%q) should be true", s)
		}
	}
	for _, s := range []string{"a", "u'i", "3", "-1"} {
		if isPunctuation(s) {
			t.Errorf("isPunctuation(%q) should be false", s)
		}
	}
}

type namedSimilarity struct{ mockSimilarity }

func (namedSimilarity) Model() string { return "text-embedding-3-small" }

func TestProviderName(t *testing.T) {
	if got := providerName(nil); got != "none" {
		t.Errorf("nil provider: got %q", got)
	}
	if got := providerName(&namedSimilarity{}); got != "text-embedding-3-small" {
		t.Errorf("named provider: got %q", got)
	}
	if got := providerName(&mockSimilarity{}); got != "*lojgloss.mockSimilarity" {
		t.Errorf("unnamed provider: got %q", got)
	}
}
