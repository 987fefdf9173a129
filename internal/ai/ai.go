package ai

import (
	"context"

	"github.com/jobhuntd/leads/internal/leads"
)

// Match tiers, ordered best to worst. The ranking merger partitions on these.
const (
	MatchHigh   = "High Match"
	MatchMedium = "Medium Match"
	MatchLow    = "Low Match"
)

// RoleAnalysis describes what the configured search keywords represent:
// the role, its typical requirements and seniority.
type RoleAnalysis struct {
	RoleTitle           string   `json:"role_title"`
	RoleDescription     string   `json:"role_description"`
	RequiredSkills      []string `json:"required_skills"`
	PreferredSkills     []string `json:"preferred_skills"`
	Technologies        []string `json:"technologies"`
	ExperienceLevel     string   `json:"experience_level"`
	TypicalIndustries   []string `json:"typical_industries"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	Certifications      []string `json:"certifications"`
}

// ResumeAnalysis is the structured profile extracted from a resume document.
type ResumeAnalysis struct {
	Skills                  []string `json:"skills"`
	ExperienceLevel         string   `json:"experience_level"`
	HasRemoteExperience     bool     `json:"has_remote_experience"`
	HasManagementExperience bool     `json:"has_management_experience"`
	YearsOfExperience       float64  `json:"years_of_experience"`
	KeyAchievements         []string `json:"key_achievements"`
	RelevantIndustries      []string `json:"relevant_industries"`
	Strengths               []string `json:"strengths"`
	AreasForGrowth          []string `json:"areas_for_growth"`
	OverallAssessment       string   `json:"overall_assessment"`
}

// MatchAnalysis scores one posting against the candidate profile. Fallback is
// set when the score was computed locally because the analysis service was
// unavailable for the item.
type MatchAnalysis struct {
	MatchLevel           string   `json:"match_level"`
	ConfidenceScore      float64  `json:"confidence_score"`
	KeyReasons           []string `json:"key_reasons"`
	SkillAlignment       string   `json:"skill_alignment"`
	ExperienceFit        string   `json:"experience_fit"`
	IndustryFit          string   `json:"industry_fit"`
	OverallAssessment    string   `json:"overall_assessment"`
	TopCandidateKeywords []string `json:"top_candidate_keywords"`
	Fallback             bool     `json:"fallback,omitempty"`
}

// Analyzer is the external reasoning capability. Implementations wrap every
// call in the bounded retry protocol; callers see either a result or an error
// they must treat as "analysis unavailable for this item".
type Analyzer interface {
	AnalyzeRole(ctx context.Context, keywords []string) (*RoleAnalysis, error)
	AnalyzeResume(ctx context.Context, resumeText string) (*ResumeAnalysis, error)
	MatchJob(ctx context.Context, job *leads.Job, resume *ResumeAnalysis, role *RoleAnalysis) (*MatchAnalysis, error)
	CustomizeResume(ctx context.Context, job *leads.Job, match *MatchAnalysis, resumeText string) (string, error)
}
