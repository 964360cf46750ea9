// Package cache persists whole cache maps as JSON snapshot files. Callers
// load a snapshot at the start of an operation, mutate it in memory, and
// persist it at the end; concurrent writers are last-writer-wins.
package cache

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/rohanthewiz/serr"
)

// Store is one snapshot file under the data directory.
type Store struct {
	path string
}

// NewStore returns a store backed by the named file inside dir.
func NewStore(dir, name string) Store {
	return Store{path: filepath.Join(dir, name)}
}

// Path returns the snapshot file location.
func (s Store) Path() string {
	return s.path
}

// Clear removes the snapshot file. A missing file is not an error.
func (s Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return serr.Wrap(err, "failed to clear cache snapshot")
	}
	return nil
}

// LoadMap reads a snapshot into a fresh map keyed by path. Any failure
// (missing file, unreadable file, corrupt JSON) yields an empty map so
// callers always start from a valid view.
func LoadMap[V any](s Store) map[string]V {
	m := make(map[string]V)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return make(map[string]V) // discard a partial decode
	}
	return m
}

// SaveMap persists the whole map as pretty-printed JSON via an atomic
// rename, creating the data directory if needed.
func SaveMap[V any](s Store, m map[string]V) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return serr.Wrap(err, "failed to create cache dir")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return serr.Wrap(err, "failed to encode cache snapshot")
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return serr.Wrap(err, "failed to write cache snapshot")
	}
	return nil
}

// Fresh reports whether a cache entry can still be trusted: the directory
// has not been modified since the entry was recorded and the entry is
// younger than ttl. An entry exactly at the ttl boundary is stale.
func Fresh(lastModified, cachedAt, dirModTime int64, now time.Time, ttl time.Duration) bool {
	return lastModified >= dirModTime && now.Unix()-cachedAt < int64(ttl/time.Second)
}
