package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/ai"
	"github.com/jobhuntd/leads/internal/leads"
	"github.com/jobhuntd/leads/internal/utils"
)

//go:embed prompts/role.md
var rolePrompt string

//go:embed prompts/resume.md
var resumePrompt string

//go:embed prompts/match.md
var matchPrompt string

//go:embed prompts/customize.md
var customizePrompt string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// AnalyzerConfig carries the candidate preferences folded into match prompts.
type AnalyzerConfig struct {
	PreferredIndustries []string
	IndustriesToAvoid   []string
	MaxLogLength        int
}

// Analyzer implements ai.Analyzer on top of a Gemini generator.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int

	preferredIndustries []string
	industriesToAvoid   []string
}

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, cfg *AnalyzerConfig, logger *zap.Logger) *Analyzer {
	if cfg == nil {
		cfg = &AnalyzerConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Analyzer{
		generator:           generator,
		logger:              logger,
		maxLogLen:           maxLogLen,
		preferredIndustries: cfg.PreferredIndustries,
		industriesToAvoid:   cfg.IndustriesToAvoid,
	}
}

// AnalyzeRole determines what role the search keywords represent.
func (a *Analyzer) AnalyzeRole(ctx context.Context, keywords []string) (*ai.RoleAnalysis, error) {
	prompt := strings.ReplaceAll(rolePrompt, "{{KEYWORDS}}", strings.Join(keywords, ", "))

	raw, err := a.generate(ctx, "role", prompt)
	if err != nil {
		return nil, err
	}

	var analysis ai.RoleAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// AnalyzeResume extracts the structured candidate profile from resume text.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText string) (*ai.ResumeAnalysis, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	prompt := strings.ReplaceAll(resumePrompt, "{{RESUME_TEXT}}", resumeText)

	raw, err := a.generate(ctx, "resume", prompt)
	if err != nil {
		return nil, err
	}

	var analysis ai.ResumeAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// MatchJob scores one posting against the candidate profile and role
// requirements.
func (a *Analyzer) MatchJob(ctx context.Context, job *leads.Job, resume *ai.ResumeAnalysis, role *ai.RoleAnalysis) (*ai.MatchAnalysis, error) {
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}
	if resume == nil {
		return nil, fmt.Errorf("resume analysis is required")
	}

	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resume analysis: %w", err)
	}
	roleJSON, err := json.MarshalIndent(role, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal role analysis: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{JOB_JSON}}", string(jobJSON),
		"{{RESUME_ANALYSIS_JSON}}", string(resumeJSON),
		"{{ROLE_ANALYSIS_JSON}}", string(roleJSON),
		"{{PREFERRED_INDUSTRIES}}", joinOrNone(a.preferredIndustries),
		"{{INDUSTRIES_TO_AVOID}}", joinOrNone(a.industriesToAvoid),
	)
	prompt := replacer.Replace(matchPrompt)

	raw, err := a.generate(ctx, "job match", prompt)
	if err != nil {
		return nil, err
	}

	var analysis ai.MatchAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// CustomizeResume produces a resume tailored to the posting. The response is
// free text, not JSON.
func (a *Analyzer) CustomizeResume(ctx context.Context, job *leads.Job, match *ai.MatchAnalysis, resumeText string) (string, error) {
	if job == nil {
		return "", fmt.Errorf("job is required")
	}
	if strings.TrimSpace(resumeText) == "" {
		return "", fmt.Errorf("resume text is empty")
	}

	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	matchJSON := []byte("{}")
	if match != nil {
		if matchJSON, err = json.MarshalIndent(match, "", "  "); err != nil {
			return "", fmt.Errorf("marshal match analysis: %w", err)
		}
	}

	replacer := strings.NewReplacer(
		"{{JOB_JSON}}", string(jobJSON),
		"{{MATCH_ANALYSIS_JSON}}", string(matchJSON),
		"{{RESUME_TEXT}}", resumeText,
	)

	return a.generate(ctx, "resume customization", replacer.Replace(customizePrompt))
}

func (a *Analyzer) generate(ctx context.Context, kind, prompt string) (string, error) {
	a.logger.Debug("generate content request",
		zap.String("kind", kind),
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug("generate content response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
