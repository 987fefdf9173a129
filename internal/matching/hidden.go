package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/leads"
)

// HiddenSet is the persistent set of job fingerprints the user never wants to
// see again. Stored as a flat JSON array of fingerprint strings.
type HiddenSet struct {
	path   string
	keys   map[string]struct{}
	logger *zap.Logger
}

// LoadHiddenSet reads the set from path. A missing file means an empty set;
// an unreadable or corrupt file is logged and treated as empty too, so a bad
// file never blocks a run.
func LoadHiddenSet(path string, logger *zap.Logger) *HiddenSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	set := &HiddenSet{
		path:   path,
		keys:   make(map[string]struct{}),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("reading hidden jobs file failed, starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return set
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		logger.Warn("hidden jobs file is corrupt, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
		return set
	}

	for _, k := range keys {
		set.keys[k] = struct{}{}
	}
	return set
}

// Hide adds the job's fingerprint and persists the set immediately. Hiding an
// already hidden job is a no-op that still succeeds.
func (h *HiddenSet) Hide(job *leads.Job) error {
	key := job.Fingerprint()
	if _, ok := h.keys[key]; ok {
		return nil
	}
	h.keys[key] = struct{}{}

	if err := h.save(); err != nil {
		return fmt.Errorf("persist hidden jobs: %w", err)
	}

	h.logger.Info("job hidden",
		zap.String("title", job.Title),
		zap.String("company", job.Company),
	)
	return nil
}

// Contains reports whether the job is hidden.
func (h *HiddenSet) Contains(job *leads.Job) bool {
	_, ok := h.keys[job.Fingerprint()]
	return ok
}

// Len returns the number of hidden fingerprints.
func (h *HiddenSet) Len() int {
	return len(h.keys)
}

// Filter returns the jobs that are not hidden, preserving order, plus the
// count of jobs removed.
func (h *HiddenSet) Filter(jobs []*AnnotatedJob) ([]*AnnotatedJob, int) {
	visible := make([]*AnnotatedJob, 0, len(jobs))
	for _, job := range jobs {
		if h.Contains(job.Job) {
			continue
		}
		visible = append(visible, job)
	}
	return visible, len(jobs) - len(visible)
}

func (h *HiddenSet) save() error {
	keys := make([]string, 0, len(h.keys))
	for k := range h.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(h.path)
	tmp, err := os.CreateTemp(dir, ".hidden-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
