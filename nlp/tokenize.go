package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Tokenize splits a sentence into word, numeral and punctuation tokens.
// Clitics are split off ("dog's" -> "dog", "'s"); hyphenated words and
// numerals such as "1,000.50" stay whole.
func (e *English) Tokenize(sentence string) []string {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return strings.Fields(sentence)
	}

	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out
}

// LooksLikeNumber reports whether token is a digit numeral, optionally signed
// and with '.', ',' or '_' separators.
func (e *English) LooksLikeNumber(token string) bool {
	digits := 0
	for i, r := range token {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',' || r == '_':
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}
