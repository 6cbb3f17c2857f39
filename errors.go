package lojgloss

import (
	"fmt"
	"strings"
)

// describe renders "<kind>[ (<subject>)]: <msg>[: <cause>]", skipping
// empty parts.
func describe(kind, subject, msg string, cause error) string {
	var b strings.Builder
	b.WriteString(kind)
	if subject != "" {
		fmt.Fprintf(&b, " (%s)", subject)
	}
	if msg != "" {
		b.WriteString(": " + msg)
	}
	if cause != nil {
		b.WriteString(": " + cause.Error())
	}
	return b.String()
}

// TranslationError aborts a whole Translate call. It only happens when the
// context ends; lookup failures degrade to bracketed tokens instead.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *TranslationError) Unwrap() error { return e.Cause }

// DictionaryError reports a gloss source that could not be loaded. The
// translator keeps working on the built-in table when it sees one.
type DictionaryError struct {
	Source string // path, "reader", ...
	Cause  error
}

func (e *DictionaryError) Error() string {
	return describe("dictionary error", e.Source, "", e.Cause)
}

func (e *DictionaryError) Unwrap() error { return e.Cause }

// ProviderError reports a failed synonym or similarity lookup. Retryable
// marks transient failures (rate limits, timeouts, 5xx).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return describe("provider error", "", e.Message, e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// CacheError reports a decision cache that could not be opened, restored
// or saved. Individual Get/Set failures are not surfaced this way.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	return describe("cache error", "", e.Message, e.Cause)
}

func (e *CacheError) Unwrap() error { return e.Cause }

// ProcessorError reports content a ContentProcessor could not parse or
// render.
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string
}

func (e *ProcessorError) Error() string {
	return describe("processor error", e.ContentType, e.Message, e.Cause)
}

func (e *ProcessorError) Unwrap() error { return e.Cause }

// CountMismatchError is returned when a provider answers a batch with the
// wrong number of results, e.g. fewer embeddings than inputs.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("result count mismatch: expected %d, got %d", e.Expected, e.Got)
}
