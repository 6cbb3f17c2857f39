package lojgloss

import "strings"

// digitWords holds the Lojban word for each decimal digit, indexed by value.
var digitWords = [10]string{"no", "pa", "re", "ci", "vo", "mu", "xa", "ze", "bi", "so"}

var digitsByToken = func() map[string]string {
	m := make(map[string]string, len(digitWords))
	for d, tok := range digitWords {
		m[tok] = string(rune('0' + d))
	}
	return m
}()

// DigitWords returns the ten digit words in order, "no" (0) through "so" (9).
// The result is a copy.
func DigitWords() [10]string {
	return digitWords
}

// EncodeDigits translates every decimal digit of s into its digit word.
// Other characters (separators, signs) are skipped.
func EncodeDigits(s string) string {
	words := make([]string, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			words = append(words, digitWords[r-'0'])
		}
	}
	return strings.Join(words, " ")
}

// DecodeToken returns the digit character for a digit word.
func DecodeToken(tok string) (string, bool) {
	d, ok := digitsByToken[tok]
	return d, ok
}
