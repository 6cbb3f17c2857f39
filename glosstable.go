package lojgloss

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// builtinEntries is substituted when the dictionary source is unavailable.
var builtinEntries = []GlossEntry{
	{Word: "gerku", Glosswords: []string{"dog"}},
	{Word: "nanmu", Glosswords: []string{"man"}},
	{Word: "prami", Glosswords: []string{"love"}},
	{Word: "coi", Glosswords: []string{"hello"}},
}

// GlossPair is one forward mapping of a GlossTable.
type GlossPair struct {
	Gloss string `json:"gloss"`
	Word  string `json:"word"`
}

// GlossTable maps normalized English glosses to Lojban words and back.
// It is immutable after construction and safe for concurrent reads.
type GlossTable struct {
	forward     map[string]string
	keys        []string // forward keys in insertion order
	reverse     map[string]string
	maxPhrase   int
	builtin     bool
	fingerprint string
}

// NormalizeGloss case-folds s, applies NFC and collapses inner whitespace.
// Phrase keys are the normalized words joined by single spaces.
func NormalizeGloss(s string) string {
	folded := cases.Fold().String(norm.NFC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}

// BuildGlossTable flattens entries into a table. When two entries share a
// gloss, the first one wins; the reverse mapping keeps the first gloss seen
// for each word in forward insertion order.
func BuildGlossTable(entries []GlossEntry) *GlossTable {
	t := &GlossTable{
		forward: make(map[string]string),
		reverse: make(map[string]string),
	}

	for _, entry := range entries {
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			continue
		}
		for _, gloss := range entry.Glosswords {
			key := NormalizeGloss(gloss)
			if key == "" {
				continue
			}
			if _, exists := t.forward[key]; exists {
				continue
			}
			t.forward[key] = word
			t.keys = append(t.keys, key)
			if n := phraseLen(key); n > t.maxPhrase {
				t.maxPhrase = n
			}
		}
	}

	h := sha256.New()
	for _, key := range t.keys {
		word := t.forward[key]
		reverseKey := NormalizeGloss(word)
		if _, exists := t.reverse[reverseKey]; !exists {
			t.reverse[reverseKey] = key
		}
		h.Write([]byte(key))
		h.Write([]byte{0})
		h.Write([]byte(word))
		h.Write([]byte{'\n'})
	}
	t.fingerprint = hex.EncodeToString(h.Sum(nil))

	return t
}

// BuiltinTable returns the minimal table used when no dictionary is available.
func BuiltinTable() *GlossTable {
	t := BuildGlossTable(builtinEntries)
	t.builtin = true
	return t
}

// LoadGlossTable loads entries from src and builds a table. It never leaves
// the caller without a table: if src is nil, fails, or yields no glosses,
// the built-in table is returned together with the load error, which is
// informational only.
func LoadGlossTable(src DictionarySource) (*GlossTable, error) {
	if src == nil {
		return BuiltinTable(), nil
	}

	entries, err := src.Load()
	if err != nil {
		return BuiltinTable(), err
	}

	t := BuildGlossTable(entries)
	if t.Len() == 0 {
		return BuiltinTable(), &DictionaryError{Source: sourceName(src), Cause: ErrEmptyDictionary}
	}
	return t, nil
}

// Lookup returns the word for a gloss or phrase key.
func (t *GlossTable) Lookup(gloss string) (string, bool) {
	word, ok := t.forward[NormalizeGloss(gloss)]
	return word, ok
}

// Reverse returns the representative gloss for a Lojban word.
func (t *GlossTable) Reverse(word string) (string, bool) {
	gloss, ok := t.reverse[NormalizeGloss(word)]
	return gloss, ok
}

// lookupKey looks up an already normalized key.
func (t *GlossTable) lookupKey(key string) (string, bool) {
	word, ok := t.forward[key]
	return word, ok
}

// Glosses returns the forward keys in insertion order.
func (t *GlossTable) Glosses() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Entries returns the forward mappings in insertion order.
func (t *GlossTable) Entries() []GlossPair {
	out := make([]GlossPair, len(t.keys))
	for i, key := range t.keys {
		out[i] = GlossPair{Gloss: key, Word: t.forward[key]}
	}
	return out
}

// ReverseEntries returns the reverse mappings ordered by first appearance.
func (t *GlossTable) ReverseEntries() []GlossPair {
	out := make([]GlossPair, 0, len(t.reverse))
	seen := make(map[string]bool, len(t.reverse))
	for _, key := range t.keys {
		word := NormalizeGloss(t.forward[key])
		if seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, GlossPair{Gloss: t.reverse[word], Word: word})
	}
	return out
}

// Len returns the number of forward keys.
func (t *GlossTable) Len() int {
	return len(t.keys)
}

// MaxPhraseLen returns the length in words of the longest key.
func (t *GlossTable) MaxPhraseLen() int {
	return t.maxPhrase
}

// Builtin reports whether this is the built-in fallback table.
func (t *GlossTable) Builtin() bool {
	return t.builtin
}

// Fingerprint identifies the table contents, including their order.
func (t *GlossTable) Fingerprint() string {
	return t.fingerprint
}

func phraseLen(key string) int {
	if key == "" {
		return 0
	}
	return strings.Count(key, " ") + 1
}
