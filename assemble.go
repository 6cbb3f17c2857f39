package lojgloss

import "strings"

// AssembleForward applies the forward template to one sentence: a single
// token stands alone, otherwise the last token is the predicate and the rest
// the subject ("lo <subject> cu <predicate>").
func AssembleForward(tokens []ResolvedToken) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0].Render()
	}

	subject := make([]string, len(tokens)-1)
	for i, tok := range tokens[:len(tokens)-1] {
		subject[i] = tok.Render()
	}
	predicate := tokens[len(tokens)-1].Render()

	return SubjectMarker + " " + strings.Join(subject, " ") + " " + PredicateMarker + " " + predicate
}

// ForwardLine prefixes an assembled sentence with the exclamation marker.
// An empty sentence yields the bare marker "u'i" with no trailing space.
func ForwardLine(tokens []ResolvedToken) string {
	return strings.TrimRight(ExclamationMarker+" "+AssembleForward(tokens), " ")
}

// AssembleReverse joins the rendered tokens in their original order.
func AssembleReverse(tokens []ResolvedToken) string {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Render()
	}
	return strings.Join(words, " ")
}
