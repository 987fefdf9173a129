// Package matching scores scraped jobs against a candidate profile, filters
// hidden postings and ranks the survivors by match quality.
package matching

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/ai"
	"github.com/jobhuntd/leads/internal/cache"
	"github.com/jobhuntd/leads/internal/leads"
)

// AnnotatedJob pairs a scraped job with its match analysis. Number is the
// 1-based position assigned by Rank; zero until then.
type AnnotatedJob struct {
	Job       *leads.Job
	Analysis  *ai.MatchAnalysis
	FromCache bool
	Number    int
}

// Stats summarizes one analysis batch.
type Stats struct {
	Total         int
	FromCache     int
	NewlyAnalyzed int
	HitRate       float64
}

// Orchestrator runs match analysis cache-first: cached verdicts are reused
// verbatim, misses go to the analyzer, and analyzer failures degrade to a
// keyword-overlap fallback so a batch always produces a verdict per job.
type Orchestrator struct {
	analyzer ai.Analyzer
	store    *cache.JobStore
	logger   *zap.Logger
}

func NewOrchestrator(analyzer ai.Analyzer, store *cache.JobStore, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		analyzer: analyzer,
		store:    store,
		logger:   logger,
	}
}

// AnalyzeBatch scores every job, reading the cache once up front and writing
// it back once at the end. Fallback verdicts are not cached; the job gets a
// fresh attempt next run.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, jobs []*leads.Job, resume *ai.ResumeAnalysis, role *ai.RoleAnalysis) ([]*AnnotatedJob, Stats) {
	entries := o.store.Load()

	annotated := make([]*AnnotatedJob, 0, len(jobs))
	stats := Stats{Total: len(jobs)}
	dirty := false

	for _, job := range jobs {
		if analysis, ok := o.store.Get(job, entries); ok {
			o.logger.Debug("match analysis cache hit",
				zap.String("title", job.Title),
				zap.String("company", job.Company),
			)
			annotated = append(annotated, &AnnotatedJob{Job: job, Analysis: analysis, FromCache: true})
			stats.FromCache++
			continue
		}

		analysis, err := o.analyzer.MatchJob(ctx, job, resume, role)
		if err != nil {
			o.logger.Warn("match analysis failed, using fallback scoring",
				zap.String("title", job.Title),
				zap.String("company", job.Company),
				zap.Bool("transient", ai.IsTransient(err)),
				zap.Error(err),
			)
			analysis = fallbackAnalysis(job, resume)
		} else {
			o.store.Put(job, analysis, entries)
			dirty = true
		}

		annotated = append(annotated, &AnnotatedJob{Job: job, Analysis: analysis})
		stats.NewlyAnalyzed++
	}

	if dirty {
		if err := o.store.Save(entries); err != nil {
			o.logger.Warn("saving job analysis cache failed", zap.Error(err))
		}
	}

	if stats.Total > 0 {
		stats.HitRate = float64(stats.FromCache) / float64(stats.Total)
	}

	o.logger.Info("analysis batch complete",
		zap.Int("total", stats.Total),
		zap.Int("from_cache", stats.FromCache),
		zap.Int("newly_analyzed", stats.NewlyAnalyzed),
		zap.Float64("hit_rate", stats.HitRate),
	)

	return annotated, stats
}

// fallbackAnalysis scores a job by counting resume skills that appear as
// substrings of the posting's title, company and location. Crude, but keeps
// the pipeline producing ranked output when the analysis service is down.
func fallbackAnalysis(job *leads.Job, resume *ai.ResumeAnalysis) *ai.MatchAnalysis {
	haystack := strings.ToLower(job.Title + " " + job.Company + " " + job.Location)

	count := 0
	var matched []string
	if resume != nil {
		for _, skill := range resume.Skills {
			s := strings.ToLower(strings.TrimSpace(skill))
			if s != "" && strings.Contains(haystack, s) {
				count++
				matched = append(matched, skill)
			}
		}
	}

	level := ai.MatchLow
	switch {
	case count >= 3:
		level = ai.MatchHigh
	case count >= 1:
		level = ai.MatchMedium
	}

	return &ai.MatchAnalysis{
		MatchLevel:      level,
		ConfidenceScore: float64(count),
		KeyReasons:      []string{fmt.Sprintf("Found %d skill matches", count)},
		SkillAlignment:  strings.Join(matched, ", "),
		Fallback:        true,
	}
}
