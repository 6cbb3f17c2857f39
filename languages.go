package lojgloss

import (
	"fmt"
	"strings"
)

// Direction selects which way a translation runs.
type Direction int

const (
	// Forward translates English into Lojban.
	Forward Direction = iota
	// Reverse translates Lojban into English.
	Reverse
)

// Language codes of the two sides.
const (
	LangEnglish = "en"
	LangLojban  = "jbo"
)

// LanguageNames maps language codes to human-readable names.
var LanguageNames = map[string]string{
	LangEnglish: "English",
	LangLojban:  "Lojban",
}

// directionAliases maps accepted spellings to a Direction.
var directionAliases = map[string]Direction{
	"forward": Forward,
	"en-jbo":  Forward,
	"en_jbo":  Forward,
	"reverse": Reverse,
	"jbo-en":  Reverse,
	"jbo_en":  Reverse,
}

// ParseDirection parses "forward"/"reverse" or a "src-dst" language pair.
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Forward, nil
	}
	if d, ok := directionAliases[key]; ok {
		return d, nil
	}
	return Forward, fmt.Errorf("unknown direction %q", s)
}

// String returns "forward" or "reverse".
func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// SourceLang returns the language code translated from.
func (d Direction) SourceLang() string {
	if d == Reverse {
		return LangLojban
	}
	return LangEnglish
}

// TargetLang returns the language code translated into.
func (d Direction) TargetLang() string {
	if d == Reverse {
		return LangEnglish
	}
	return LangLojban
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[strings.ToLower(langCode)]; ok {
		return name
	}
	return langCode
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
