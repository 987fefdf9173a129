package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/ai"
)

// FileMetadata identifies a file's content at analysis time. A cached resume
// analysis is valid only while all three fields still match the file.
type FileMetadata struct {
	Size  int64  `json:"size"`
	MTime int64  `json:"mtime"`
	Hash  string `json:"hash"`
}

// FileFingerprint captures the file's current metadata and content hash.
// Any read or stat failure yields empty metadata rather than an error; a
// missing hash is treated by callers as "changed".
func FileFingerprint(path string) FileMetadata {
	info, err := os.Stat(path)
	if err != nil {
		return FileMetadata{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileMetadata{}
	}

	sum := sha256.Sum256(data)

	return FileMetadata{
		Size:  info.Size(),
		MTime: info.ModTime().UnixNano(),
		Hash:  hex.EncodeToString(sum[:]),
	}
}

// ResumeEntry is one cached resume analysis, keyed by file path. Entries never
// expire by age; they are invalidated when the file changes.
type ResumeEntry struct {
	Analysis *ai.ResumeAnalysis `json:"analysis"`
	Metadata FileMetadata       `json:"metadata"`
	CachedAt time.Time          `json:"cached_at"`
}

func (e ResumeEntry) StampedAt() time.Time {
	return e.CachedAt
}

// ResumeStore holds resume analyses keyed by file path.
type ResumeStore struct {
	*Store[ResumeEntry]
}

func NewResumeStore(path string, logger *zap.Logger) *ResumeStore {
	return &ResumeStore{NewStore[ResumeEntry](path, 0, logger)}
}

// Lookup returns the cached analysis for the file only if the file's current
// metadata exactly matches what was recorded at analysis time.
func (s *ResumeStore) Lookup(path string, entries map[string]ResumeEntry) (*ai.ResumeAnalysis, bool) {
	entry, ok := entries[path]
	if !ok || entry.Analysis == nil {
		return nil, false
	}

	current := FileFingerprint(path)
	if current.Hash == "" || current != entry.Metadata {
		return nil, false
	}

	return entry.Analysis, true
}

// Put inserts or replaces the entry for the file with its current metadata.
func (s *ResumeStore) Put(path string, analysis *ai.ResumeAnalysis, entries map[string]ResumeEntry) {
	entries[path] = ResumeEntry{
		Analysis: analysis,
		Metadata: FileFingerprint(path),
		CachedAt: time.Now(),
	}
}
