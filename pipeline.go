package lojgloss

// SentenceSplitter splits raw text into sentences.
type SentenceSplitter interface {
	SplitSentences(text string) []string
}

// Tokenizer splits one sentence into tokens.
type Tokenizer interface {
	Tokenize(sentence string) []string
}

// Lemmatizer returns the base form of a token.
type Lemmatizer interface {
	Lemmatize(token string) string
}

// NumberDetector reports whether a token is a numeral.
type NumberDetector interface {
	LooksLikeNumber(token string) bool
}

// ContractionExpander rewrites contractions ("don't" -> "do not").
type ContractionExpander interface {
	Expand(text string) string
}

// Pipeline bundles the NLP collaborators a Translator needs.
// nlp.English is the default implementation.
type Pipeline interface {
	SentenceSplitter
	Tokenizer
	Lemmatizer
	NumberDetector
	ContractionExpander
}
