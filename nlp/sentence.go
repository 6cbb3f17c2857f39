package nlp

import "strings"

// SplitSentences splits text into sentences with the Punkt segmenter.
// Line breaks always end a sentence. Returned sentences are trimmed and
// non-empty.
func (e *English) SplitSentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, s := range e.segmenter.Tokenize(line) {
			if t := strings.TrimSpace(s.Text); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
