package lojgloss

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ErrEmptyDictionary is reported when a source holds no usable glosses.
var ErrEmptyDictionary = errors.New("dictionary has no glosses")

// DictionarySource supplies the ordered dictionary records.
type DictionarySource interface {
	Load() ([]GlossEntry, error)
}

// FileSource reads a JSON array of {"word", "glosswords"} records from path.
// The file is memory-mapped and read fresh on every Load.
func FileSource(path string) DictionarySource {
	return fileSource{path: path}
}

type fileSource struct {
	path string
}

func (s fileSource) Load() ([]GlossEntry, error) {
	f, err := os.Open(s.path) // #nosec G304 - dictionary path is user configuration
	if err != nil {
		return nil, &DictionaryError{Source: s.path, Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &DictionaryError{Source: s.path, Cause: err}
	}
	// mmap rejects zero-length mappings
	if info.Size() == 0 {
		return nil, &DictionaryError{Source: s.path, Cause: ErrEmptyDictionary}
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &DictionaryError{Source: s.path, Cause: fmt.Errorf("mmap: %w", err)}
	}
	defer data.Unmap()

	var entries []GlossEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &DictionaryError{Source: s.path, Cause: fmt.Errorf("decoding JSON: %w", err)}
	}
	return entries, nil
}

func (s fileSource) String() string {
	return s.path
}

// ReaderSource decodes the JSON records from r. The reader is consumed by the
// first Load; later loads fail and fall back to the built-in table.
func ReaderSource(r io.Reader) DictionarySource {
	return &readerSource{r: r}
}

type readerSource struct {
	r    io.Reader
	used bool
}

func (s *readerSource) Load() ([]GlossEntry, error) {
	if s.used {
		return nil, &DictionaryError{Source: s.String(), Cause: errors.New("reader already consumed")}
	}
	s.used = true

	var entries []GlossEntry
	if err := json.NewDecoder(s.r).Decode(&entries); err != nil {
		return nil, &DictionaryError{Source: s.String(), Cause: fmt.Errorf("decoding JSON: %w", err)}
	}
	return entries, nil
}

func (s *readerSource) String() string {
	return "reader"
}

// StaticSource serves a fixed list of entries.
func StaticSource(entries []GlossEntry) DictionarySource {
	return staticSource(entries)
}

type staticSource []GlossEntry

func (s staticSource) Load() ([]GlossEntry, error) {
	return s, nil
}

func (s staticSource) String() string {
	return "static"
}

func sourceName(src DictionarySource) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
