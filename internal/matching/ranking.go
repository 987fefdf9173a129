package matching

import (
	"sort"

	"github.com/jobhuntd/leads/internal/ai"
)

// tierOrder maps match levels to partition order, best first. Unknown levels
// sink below Low.
var tierOrder = map[string]int{
	ai.MatchHigh:   0,
	ai.MatchMedium: 1,
	ai.MatchLow:    2,
}

func tierOf(a *AnnotatedJob) int {
	if a.Analysis == nil {
		return len(tierOrder)
	}
	if t, ok := tierOrder[a.Analysis.MatchLevel]; ok {
		return t
	}
	return len(tierOrder)
}

// Rank orders jobs by tier (High, Medium, Low, then unknown), and within a
// known tier by confidence score descending. Ties keep their incoming order.
// Unknown or missing levels all sink to the bottom in input order; their
// scores are not comparable and are ignored. The returned slice carries fresh
// 1-based numbers; the input is not modified.
func Rank(jobs []*AnnotatedJob) []*AnnotatedJob {
	ranked := make([]*AnnotatedJob, len(jobs))
	copy(ranked, jobs)

	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := tierOf(ranked[i]), tierOf(ranked[j])
		if ti != tj {
			return ti < tj
		}
		if ti >= len(tierOrder) {
			return false
		}
		var si, sj float64
		if ranked[i].Analysis != nil {
			si = ranked[i].Analysis.ConfidenceScore
		}
		if ranked[j].Analysis != nil {
			sj = ranked[j].Analysis.ConfidenceScore
		}
		return si > sj
	})

	for i, job := range ranked {
		job.Number = i + 1
	}

	return ranked
}
