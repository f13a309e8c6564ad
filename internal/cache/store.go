// Package cache persists immutable snapshots of closed pull requests
// so repeated runs do not refetch history that can no longer change.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tobikm/gh-review-balance/internal/models"
)

// Entry is a cached snapshot of one closed PR together with its
// reviews and comments. Once written it is never revised or expired.
type Entry struct {
	PR         models.PullRequest   `json:"pull_request"`
	Events     []models.ReviewEvent `json:"reviews"`
	Comments   []models.Comment     `json:"comments"`
	CapturedAt time.Time            `json:"captured_at"`
}

// Key builds the persisted mapping key for a PR.
func Key(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

// Store is the cache contract the analyzer depends on. Lookups are
// safe from concurrent fetch workers; writes are serialized.
type Store interface {
	Lookup(repo string, number int) (Entry, bool)
	Put(entry Entry)
	Flush() error
}

// FileStore keeps the mapping in memory and persists it as a single
// JSON file, loaded once at construction and flushed at process end.
type FileStore struct {
	path     string
	disabled bool
	log      *logrus.Logger

	mu      sync.Mutex
	entries map[string]Entry
	dirty   bool
}

// NewFileStore loads the cache file if it exists. A disabled store
// never touches disk: every lookup misses and writes are no-ops.
func NewFileStore(path string, enabled bool, log *logrus.Logger) *FileStore {
	s := &FileStore{
		path:     path,
		disabled: !enabled,
		log:      log,
		entries:  make(map[string]Entry),
	}
	if s.disabled {
		return s
	}
	s.load()
	return s
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.WithError(err).Warnf("failed to read cache file %s, starting empty", s.path)
		}
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.WithError(err).Warnf("cache file %s is corrupt, starting empty", s.path)
		return
	}

	for key, payload := range raw {
		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			s.log.WithError(err).Warnf("dropping corrupt cache entry %s", key)
			continue
		}
		s.entries[key] = entry
	}
	s.log.Debugf("loaded cache from %s with %d entries", s.path, len(s.entries))
}

// Lookup returns the cached entry for a PR, if present.
func (s *FileStore) Lookup(repo string, number int) (Entry, bool) {
	if s.disabled {
		return Entry{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[Key(repo, number)]
	return entry, ok
}

// Put stores a snapshot. Open PRs are never persisted, and an existing
// entry is never overwritten: closed-PR history is immutable ground
// truth, so a prior entry is always trusted over a fresh capture.
func (s *FileStore) Put(entry Entry) {
	if s.disabled || entry.PR.State != models.StateClosed {
		return
	}
	key := Key(entry.PR.Repo, entry.PR.Number)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; exists {
		return
	}
	s.entries[key] = entry
	s.dirty = true
}

// Flush persists the mapping atomically: the file is written to a
// temporary path and renamed into place, so a crash can lose unwritten
// entries but never corrupt existing ones.
func (s *FileStore) Flush() error {
	if s.disabled {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	s.dirty = false
	s.log.Debugf("saved cache to %s with %d entries", s.path, len(s.entries))
	return nil
}

// Len reports the number of cached entries.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Ensure FileStore implements Store interface
var _ Store = (*FileStore)(nil)
