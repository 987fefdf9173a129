package gemini

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/ai"
	"github.com/jobhuntd/leads/internal/leads"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func TestMatchJobSubstitutesPromptPlaceholders(t *testing.T) {
	gen := &fakeGenerator{response: `{"match_level": "High Match", "confidence_score": 9}`}

	analyzer := NewAnalyzer(gen, &AnalyzerConfig{
		PreferredIndustries: []string{"fintech"},
		IndustriesToAvoid:   []string{"gambling"},
	}, zap.NewNop())

	job := &leads.Job{Title: "Backend Engineer", Company: "Acme"}
	analysis, err := analyzer.MatchJob(context.Background(), job, &ai.ResumeAnalysis{Skills: []string{"go"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.MatchLevel != ai.MatchHigh {
		t.Fatalf("unexpected match level: %q", analysis.MatchLevel)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]

	if strings.Contains(prompt, "{{JOB_JSON}}") || strings.Contains(prompt, "{{RESUME_ANALYSIS_JSON}}") {
		t.Fatal("expected placeholders to be substituted")
	}
	if !strings.Contains(prompt, "Backend Engineer") {
		t.Fatal("expected job payload in prompt")
	}
	if !strings.Contains(prompt, "fintech") || !strings.Contains(prompt, "gambling") {
		t.Fatal("expected industry preferences in prompt")
	}
}

func TestAnalyzeRoleDecodesResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"role_title\": \"Backend Engineer\", \"required_skills\": [\"go\"]}\n```"}

	analyzer := NewAnalyzer(gen, nil, zap.NewNop())

	role, err := analyzer.AnalyzeRole(context.Background(), []string{"golang", "backend"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.RoleTitle != "Backend Engineer" {
		t.Fatalf("unexpected role title: %q", role.RoleTitle)
	}
	if len(role.RequiredSkills) != 1 || role.RequiredSkills[0] != "go" {
		t.Fatalf("unexpected required skills: %v", role.RequiredSkills)
	}

	if !strings.Contains(gen.prompts[0], "golang, backend") {
		t.Fatal("expected keywords in prompt")
	}
}

func TestAnalyzeResumeRejectsEmptyText(t *testing.T) {
	analyzer := NewAnalyzer(&fakeGenerator{}, nil, zap.NewNop())

	if _, err := analyzer.AnalyzeResume(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty resume text")
	}
}

func TestCustomizeResumeReturnsFreeText(t *testing.T) {
	gen := &fakeGenerator{response: "Tailored Resume\n\nSummary: ..."}
	analyzer := NewAnalyzer(gen, nil, zap.NewNop())

	job := &leads.Job{Title: "Backend Engineer", Company: "Acme"}
	out, err := analyzer.CustomizeResume(context.Background(), job, nil, "original resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Tailored Resume") {
		t.Fatalf("unexpected output: %q", out)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "original resume") {
		t.Fatal("expected resume text in prompt")
	}
	if !strings.Contains(prompt, "{}") {
		t.Fatal("expected empty match analysis placeholder value")
	}
}
