package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Expirable is implemented by entry types so differently-shaped entries share
// the same eviction sweep.
type Expirable interface {
	StampedAt() time.Time
}

// Stats summarizes the persisted state of a store.
type Stats struct {
	Entries   int   `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
}

// Store is a JSON-file-backed mapping of string keys to entries, with an
// optional TTL applied during Load. It assumes a single writer per file for
// the lifetime of one run; the last Save wins.
type Store[V Expirable] struct {
	path   string
	ttl    time.Duration
	logger *zap.Logger

	now func() time.Time
}

// NewStore creates a store persisting to path. A non-positive ttl disables
// expiry entirely.
func NewStore[V Expirable](path string, ttl time.Duration, logger *zap.Logger) *Store[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store[V]{
		path:   path,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Store[V]) Path() string {
	return s.path
}

// Load reads the persisted mapping. A missing file yields an empty mapping;
// so does a corrupt or unreadable one, with a warning, since a broken cache
// must never stop the run. For TTL-bearing stores expired entries are dropped
// and, if any were, the cleaned mapping is persisted before being returned.
func (s *Store[V]) Load() map[string]V {
	entries := make(map[string]V)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("cache unreadable, starting empty",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("cache corrupted, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return make(map[string]V)
	}

	if s.ttl <= 0 {
		return entries
	}

	now := s.now()
	cleaned := make(map[string]V, len(entries))
	for key, entry := range entries {
		if now.Sub(entry.StampedAt()) < s.ttl {
			cleaned[key] = entry
			continue
		}
		s.logger.Debug("evicting expired cache entry", zap.String("key", key))
	}

	if len(cleaned) != len(entries) {
		s.logger.Info("evicted expired cache entries",
			zap.String("path", s.path),
			zap.Int("evicted", len(entries)-len(cleaned)),
		)
		if err := s.Save(cleaned); err != nil {
			s.logger.Warn("persisting swept cache failed", zap.Error(err))
		}
	}

	return cleaned
}

// Save serializes the whole mapping, replacing prior contents. The write goes
// to a temp file in the same directory followed by a rename, so a failure
// mid-write cannot corrupt previously valid entries.
func (s *Store[V]) Save(entries map[string]V) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cache: %w", err)
	}

	return nil
}

// Clear deletes the persisted file. A missing file is not an error.
func (s *Store[V]) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Stats reports the persisted entry count and file size. Unreadable state
// counts as empty.
func (s *Store[V]) Stats() Stats {
	info, err := os.Stat(s.path)
	if err != nil {
		return Stats{}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Stats{SizeBytes: info.Size()}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return Stats{SizeBytes: info.Size()}
	}

	return Stats{Entries: len(entries), SizeBytes: info.Size()}
}
