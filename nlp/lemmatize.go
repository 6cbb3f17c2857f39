package nlp

import "strings"

// Lemmatize returns the lowercase base form of token from the lemma
// dictionary, after any WithIrregular overrides. Unknown words come back
// lowercased and otherwise unchanged.
func (e *English) Lemmatize(token string) string {
	w := strings.ToLower(strings.ReplaceAll(token, "’", "'"))
	if base, ok := e.overrides[w]; ok {
		return base
	}
	return strings.ToLower(e.lemmas.Lemma(w))
}
