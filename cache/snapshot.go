package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// SnapshotVersion identifies the on-disk snapshot layout.
const SnapshotVersion = "1"

// Snapshot is a point-in-time copy of the decisions in a cache.
type Snapshot struct {
	Version   string            `json:"version"`
	SavedAt   time.Time         `json:"saved_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Decisions []Decision        `json:"decisions"`
}

// Decision is one cached key and its encoded value.
type Decision struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RestoreResult reports what Restore did with a snapshot's decisions.
type RestoreResult struct {
	Restored int
	Failed   int // rejected by the cache
	Skipped  int // empty key or value
}

// TakeSnapshot copies the live decisions of c in key order. Keys that
// expire while the copy is taken are left out.
func TakeSnapshot(c ExportableCache, metadata map[string]string) (*Snapshot, error) {
	keys, err := c.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	s := &Snapshot{
		Version:   SnapshotVersion,
		SavedAt:   time.Now().UTC().Truncate(time.Second),
		Metadata:  metadata,
		Decisions: make([]Decision, 0, len(keys)),
	}
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			s.Decisions = append(s.Decisions, Decision{Key: k, Value: v})
		}
	}
	return s, nil
}

// WriteTo encodes the snapshot as indented JSON.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// ReadSnapshot decodes a snapshot written by WriteTo.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %q not supported (want %q)", s.Version, SnapshotVersion)
	}
	return &s, nil
}

// batchSetter is implemented by caches that can store many decisions in
// one round trip.
type batchSetter interface {
	SetMany(decisions []Decision) error
}

// Restore loads the snapshot's decisions into c.
func (s *Snapshot) Restore(c LookupCache) RestoreResult {
	var res RestoreResult
	valid := make([]Decision, 0, len(s.Decisions))
	for _, d := range s.Decisions {
		if d.Key == "" || d.Value == "" {
			res.Skipped++
			continue
		}
		valid = append(valid, d)
	}

	if bs, ok := c.(batchSetter); ok && bs.SetMany(valid) == nil {
		res.Restored = len(valid)
		return res
	}
	for _, d := range valid {
		if c.Set(d.Key, d.Value) != nil {
			res.Failed++
			continue
		}
		res.Restored++
	}
	return res
}

// SaveFile snapshots c into path. The file is replaced atomically so a
// crash never leaves a truncated snapshot behind.
func SaveFile(path string, c ExportableCache, metadata map[string]string) (err error) {
	s, err := TakeSnapshot(c, metadata)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = s.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// RestoreFile loads the snapshot at path into c. The error wraps
// os.ErrNotExist when there is no snapshot yet.
func RestoreFile(path string, c LookupCache) (*Snapshot, RestoreResult, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-configured path
	if err != nil {
		return nil, RestoreResult{}, err
	}
	defer f.Close()

	s, err := ReadSnapshot(f)
	if err != nil {
		return nil, RestoreResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return s, s.Restore(c), nil
}
