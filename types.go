package lojgloss

import "strings"

// Fixed marker strings of the output template.
const (
	// ExclamationMarker prefixes every forward-direction line.
	ExclamationMarker = "u'i"
	// SubjectMarker introduces the subject of a multi-token sentence.
	SubjectMarker = "lo"
	// PredicateMarker separates subject and predicate.
	PredicateMarker = "cu"
)

// Strategy names the step of the fallback chain that produced a token.
type Strategy string

const (
	StrategyPhrase     Strategy = "phrase"
	StrategyExact      Strategy = "exact"
	StrategySynonym    Strategy = "synonym"
	StrategySimilarity Strategy = "similarity"
	StrategyDigits     Strategy = "digits"
	StrategyReverse    Strategy = "reverse"
	StrategyUnresolved Strategy = "unresolved"
)

// GlossEntry is one record of the dictionary source: a Lojban word and the
// English glosses (words or phrases) that map to it.
type GlossEntry struct {
	Word       string   `json:"word"`
	Glosswords []string `json:"glosswords"`
}

// Token is one tokenizer output, annotated by the pipeline.
type Token struct {
	Text   string // Token text (lowercased)
	Lemma  string // Normalized base form
	Number bool   // Numeral, translated through the digit table
}

// ResolvedToken is the outcome of resolving one token or phrase.
type ResolvedToken struct {
	Source   string   // Original token text (space-joined tokens for phrases)
	Lemma    string   // Lemma or phrase key used for lookup
	Text     string   // Translation; empty when unresolved
	Strategy Strategy // Step that produced the translation
	Span     int      // Number of source tokens consumed
	Score    float64  // Similarity score, when Strategy is StrategySimilarity
}

// Resolved reports whether a translation was found.
func (r ResolvedToken) Resolved() bool {
	return r.Strategy != StrategyUnresolved
}

// Render returns the translation, or the bracketed source token when unresolved.
func (r ResolvedToken) Render() string {
	if !r.Resolved() {
		return "[" + r.Source + "]"
	}
	return r.Text
}

// SentenceResult is the translation of a single sentence.
type SentenceResult struct {
	Source string          // Sentence text as produced by the splitter
	Tokens []ResolvedToken // Resolved tokens in output order
	Line   string          // Assembled output line
}

// Stats summarizes one translation call.
type Stats struct {
	Sentences    int  `json:"sentences"`
	Tokens       int  `json:"tokens"`
	Resolved     int  `json:"resolved"`
	Unresolved   int  `json:"unresolved"`
	Phrases      int  `json:"phrases"`
	Fallbacks    int  `json:"fallbacks"`
	CacheHits    int  `json:"cache_hits"`
	BuiltinTable bool `json:"builtin_table"`
}

// Result is the outcome of a translation call.
type Result struct {
	RunID     string
	Direction Direction
	Sentences []SentenceResult
	Stats     Stats
}

// Lines returns one output line per input sentence.
func (r *Result) Lines() []string {
	lines := make([]string, len(r.Sentences))
	for i, s := range r.Sentences {
		lines[i] = s.Line
	}
	return lines
}

// Text returns the output lines joined by newlines.
func (r *Result) Text() string {
	return strings.Join(r.Lines(), "\n")
}

// TextNode represents a translatable unit of content.
type TextNode struct {
	ID       string            // Unique identifier within the document
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // Content type: "text", "html_text"
	Metadata map[string]string // Additional info (parent tag, etc.)
}

// ProcessedContent is the result of translating structured content.
type ProcessedContent struct {
	Content    string // Translated content
	TotalNodes int    // Total translatable nodes found
	Stats      Stats  // Aggregated statistics over all nodes
}

// forwardIgnored holds tokens dropped before forward resolution.
var forwardIgnored = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "am": true,
	"the": true, "a": true, "an": true, "of": true,
	",": true, ".": true,
}

// reverseIgnored holds the grammatical particles the forward template adds.
var reverseIgnored = map[string]bool{
	SubjectMarker:     true,
	PredicateMarker:   true,
	ExclamationMarker: true,
}
