package lojgloss

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// HashText returns the hex SHA-256 of text with surrounding whitespace
// removed, so "dog" and " dog\n" hash alike.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// DecisionKey identifies a cached fallback decision. Besides the lemma it
// pins everything the fallback chain consults: the gloss table, the
// acceptance threshold, the synonym source and the similarity model.
func DecisionKey(lemma, fingerprint string, threshold float64, synonyms, model string) string {
	return strings.Join([]string{
		HashText(lemma),
		fingerprint,
		strconv.FormatFloat(threshold, 'f', 2, 64),
		synonyms,
		model,
	}, ":")
}
