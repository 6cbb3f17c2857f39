package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var contractionPattern = regexp.MustCompile(`(?i)\b[a-z]+['’][a-z]+\b`)

// irregularContractions cannot be expanded by suffix rules.
var irregularContractions = map[string]string{
	"won't":  "will not",
	"can't":  "cannot",
	"shan't": "shall not",
	"ain't":  "is not",
	"let's":  "let us",
	"y'all":  "you all",
	"ma'am":  "madam",
}

// isContracted lists words whose "'s" means "is" rather than a possessive.
var isContracted = map[string]bool{
	"it": true, "that": true, "what": true, "he": true, "she": true,
	"there": true, "here": true, "who": true, "where": true, "how": true,
	"when": true, "why": true,
}

// Expand rewrites English contractions into their full forms, keeping the
// capitalization of the first letter ("Don't" -> "Do not"). Possessives
// ("dog's") are left untouched.
func (e *English) Expand(text string) string {
	return contractionPattern.ReplaceAllStringFunc(text, expandContraction)
}

func expandContraction(word string) string {
	normalized := strings.ReplaceAll(word, "’", "'")
	lower := strings.ToLower(normalized)

	if full, ok := irregularContractions[lower]; ok {
		return matchCase(word, full)
	}

	i := strings.LastIndexByte(normalized, '\'')
	base, suffix := normalized[:i], lower[i+1:]
	lowerBase := lower[:i]

	switch suffix {
	case "t":
		if strings.HasSuffix(lowerBase, "n") && len(base) > 1 {
			return base[:len(base)-1] + " not"
		}
	case "re":
		return base + " are"
	case "ll":
		return base + " will"
	case "ve":
		return base + " have"
	case "m":
		return base + " am"
	case "d":
		return base + " would"
	case "s":
		if isContracted[lowerBase] {
			return base + " is"
		}
	}
	return word
}

// matchCase capitalizes replacement when original starts with an upper-case letter.
func matchCase(original, replacement string) string {
	r, _ := utf8.DecodeRuneInString(original)
	if !unicode.IsUpper(r) {
		return replacement
	}
	first, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(first)) + replacement[size:]
}
