package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/ai"
	"github.com/jobhuntd/leads/internal/leads"
)

// JobTTL is how long a job analysis stays valid. Reposts inside this window
// reuse the cached result.
const JobTTL = 7 * 24 * time.Hour

// JobEntry is one cached job-match analysis. The identifying fields are kept
// alongside the analysis so the cache file is inspectable on its own.
type JobEntry struct {
	JobTitle  string            `json:"job_title"`
	Company   string            `json:"company"`
	URL       string            `json:"url"`
	Analysis  *ai.MatchAnalysis `json:"analysis"`
	Timestamp time.Time         `json:"timestamp"`
}

func (e JobEntry) StampedAt() time.Time {
	return e.Timestamp
}

// JobStore holds job-match analyses keyed by job fingerprint.
type JobStore struct {
	*Store[JobEntry]
}

func NewJobStore(path string, logger *zap.Logger) *JobStore {
	return &JobStore{NewStore[JobEntry](path, JobTTL, logger)}
}

// Get returns the cached analysis for the job, if present.
func (s *JobStore) Get(job *leads.Job, entries map[string]JobEntry) (*ai.MatchAnalysis, bool) {
	entry, ok := entries[job.Fingerprint()]
	if !ok || entry.Analysis == nil {
		return nil, false
	}
	return entry.Analysis, true
}

// Put inserts or replaces the entry for the job, stamping the current time.
// The caller persists the mapping with Save once the batch is done.
func (s *JobStore) Put(job *leads.Job, analysis *ai.MatchAnalysis, entries map[string]JobEntry) {
	entries[job.Fingerprint()] = JobEntry{
		JobTitle:  job.Title,
		Company:   job.Company,
		URL:       job.URL,
		Analysis:  analysis,
		Timestamp: time.Now(),
	}
}
