package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jobhuntd/leads/internal/ai"
	"github.com/jobhuntd/leads/internal/ai/gemini"
	"github.com/jobhuntd/leads/internal/cache"
	"github.com/jobhuntd/leads/internal/leads"
	"github.com/jobhuntd/leads/internal/logger"
	"github.com/jobhuntd/leads/internal/matching"
	"github.com/jobhuntd/leads/internal/resume"
	"github.com/jobhuntd/leads/internal/secrets"
	"github.com/jobhuntd/leads/internal/selection"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSaveJobs  = "Save selected jobs to a file"
	PromptHideJobs  = "Hide selected jobs from future runs"
	PromptCustomize = "Customize resume for selected jobs"
	PromptShowAgain = "Show the list again"
	PromptExit      = "Exit"

	savedJobsTimeFmt     = "20060102_150405"
	selectionPromptLabel = "Enter job numbers (e.g. 1,3,7-9 or all)"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSaveJobs, PromptHideJobs, PromptCustomize, PromptShowAgain, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the leads main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "print the ranked list and exit without prompting")
}

// session carries everything the interactive actions need after the pipeline
// has produced a ranked list.
type session struct {
	ctx      context.Context
	config   *Config
	logger   *zap.Logger
	analyzer ai.Analyzer
	hidden   *matching.HiddenSet
	ranked   []*matching.AnnotatedJob
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the leads", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if len(config.Search.Keywords) == 0 || len(config.Search.Locations) == 0 {
		logger.Fatal("search keywords and locations are required under the search section")
	}

	if config.Resume.Path == "" {
		logger.Fatal("resume path is required under resume.path to score postings")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	analyzer, err := newAnalyzer(ctx, config, apiKey, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	role, err := analyzer.AnalyzeRole(ctx, config.Search.Keywords)
	if err != nil {
		logger.Warn("role analysis unavailable, matching without role context", zap.Error(err))
	}

	resumeStore := cache.NewResumeStore(config.Cache.ResumeFile, logger)
	resumeAnalysis, err := resume.Analyze(ctx, config.Resume.Path, analyzer, resumeStore, logger)
	if err != nil {
		logger.Fatal("analyzing resume", zap.Error(err))
	}

	logger.Info("starting the search",
		zap.Strings("keywords", config.Search.Keywords),
		zap.Strings("locations", config.Search.Locations),
	)

	jobs, err := getJobs(ctx, config, logger)
	if err != nil {
		logger.Fatal("scraping job postings", zap.Error(err))
	}

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	jobStore := cache.NewJobStore(config.Cache.JobFile, logger)
	orchestrator := matching.NewOrchestrator(analyzer, jobStore, logger)
	annotated, _ := orchestrator.AnalyzeBatch(ctx, jobs.Items, resumeAnalysis, role)

	hidden := matching.LoadHiddenSet(config.HiddenJobsFile, logger)
	visible, hiddenCount := hidden.Filter(annotated)
	if hiddenCount > 0 {
		logger.Info("filtered hidden jobs", zap.Int("count", hiddenCount))
	}

	if len(visible) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after hidden filter"))
		return
	}

	s := &session{
		ctx:      ctx,
		config:   config,
		logger:   logger,
		analyzer: analyzer,
		hidden:   hidden,
		ranked:   matching.Rank(visible),
	}

	display(s.ranked)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, s); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if len(s.ranked) == 0 {
			logger.Info("exiting", zap.String("reason", "no jobs left"))
			return
		}
	}
}

func handleAction(action string, s *session) error {
	switch action {
	case PromptSaveJobs:
		return saveJobs(s)
	case PromptHideJobs:
		return hideJobs(s)
	case PromptCustomize:
		return customizeResume(s)
	case PromptShowAgain:
		display(s.ranked)
		return nil
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func newAnalyzer(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (ai.Analyzer, error) {
	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.AI.Gemini.Model),
		zap.Int("ai_retry_attempts", config.AI.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, &gemini.AnalyzerConfig{
		PreferredIndustries: config.PreferredIndustries,
		IndustriesToAvoid:   config.IndustriesToAvoid,
		MaxLogLength:        config.AI.Gemini.MaxLogLength,
	}, logger), nil
}

// getJobs scrapes every keyword/location combination from the config.
func getJobs(ctx context.Context, config *Config, logger *zap.Logger) (*leads.Jobs, error) {
	scraper := leads.New(logger)

	results, err := scraper.Search(ctx, &leads.SearchParams{
		Keywords:         config.Search.Keywords,
		Locations:        config.Search.Locations,
		TimePeriod:       config.Search.TimePeriod,
		MaxJobsPerSearch: config.Search.MaxJobsPerSearch,
		Delay:            time.Duration(config.Search.DelaySeconds) * time.Second,
		TargetCompanies:  config.TargetCompanies,
		RemoteIndicators: config.RemoteIndicators,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Info("getting jobs", zap.Int("count", results.Len()))
	return results, nil
}

// selectJobs prompts for a selection expression against the current ranked
// list and resolves it to jobs.
func selectJobs(s *session) ([]*matching.AnnotatedJob, error) {
	prompt := promptui.Prompt{Label: selectionPromptLabel}

	input, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	numbers, err := selection.Parse(input, len(s.ranked))
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		s.logger.Info("selection matched no jobs")
		return nil, nil
	}

	selected := make([]*matching.AnnotatedJob, 0, len(numbers))
	for _, n := range numbers {
		selected = append(selected, s.ranked[n-1])
	}
	return selected, nil
}

func saveJobs(s *session) error {
	selected, err := selectJobs(s)
	if err != nil || len(selected) == 0 {
		return err
	}

	if err := os.MkdirAll(s.config.SavedJobsDir, 0o755); err != nil {
		return fmt.Errorf("create saved jobs dir: %w", err)
	}

	filename := filepath.Join(s.config.SavedJobsDir,
		fmt.Sprintf("selected_jobs_%s.txt", time.Now().Format(savedJobsTimeFmt)))

	var builder strings.Builder
	fmt.Fprintf(&builder, "Selected jobs (%s)\n\n", time.Now().Format(time.RFC1123))
	for _, job := range selected {
		fmt.Fprintf(&builder, "%d. %s at %s\n", job.Number, job.Job.Title, job.Job.Company)
		fmt.Fprintf(&builder, "   Location: %s\n", job.Job.Location)
		fmt.Fprintf(&builder, "   Posted:   %s\n", job.Job.Posted)
		fmt.Fprintf(&builder, "   URL:      %s\n", job.Job.URL)
		if job.Analysis != nil {
			fmt.Fprintf(&builder, "   Match:    %s (confidence %.1f)\n", job.Analysis.MatchLevel, job.Analysis.ConfidenceScore)
			for _, reason := range job.Analysis.KeyReasons {
				fmt.Fprintf(&builder, "   - %s\n", reason)
			}
		}
		builder.WriteString("\n")
	}

	if err := os.WriteFile(filename, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("write selected jobs: %w", err)
	}

	s.logger.Info("saved selected jobs",
		zap.Int("count", len(selected)),
		zap.String("filename", filename),
	)
	return nil
}

func hideJobs(s *session) error {
	selected, err := selectJobs(s)
	if err != nil || len(selected) == 0 {
		return err
	}

	for _, job := range selected {
		if err := s.hidden.Hide(job.Job); err != nil {
			return err
		}
	}

	visible, _ := s.hidden.Filter(s.ranked)
	s.ranked = matching.Rank(visible)

	s.logger.Info("hid selected jobs",
		zap.Int("count", len(selected)),
		zap.Int("remaining", len(s.ranked)),
	)

	display(s.ranked)
	return nil
}

func customizeResume(s *session) error {
	selected, err := selectJobs(s)
	if err != nil || len(selected) == 0 {
		return err
	}

	resumeText, err := resume.ReadFile(s.config.Resume.Path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.config.SavedJobsDir, 0o755); err != nil {
		return fmt.Errorf("create saved jobs dir: %w", err)
	}

	for _, job := range selected {
		customized, err := s.analyzer.CustomizeResume(s.ctx, job.Job, job.Analysis, resumeText)
		if err != nil {
			s.logger.Warn("resume customization failed",
				zap.String("title", job.Job.Title),
				zap.String("company", job.Job.Company),
				zap.Error(err),
			)
			continue
		}

		filename := filepath.Join(s.config.SavedJobsDir,
			fmt.Sprintf("customized_resume_%s_%s.md", job.Job.Fingerprint(), time.Now().Format(savedJobsTimeFmt)))

		if err := os.WriteFile(filename, []byte(customized), 0o644); err != nil {
			return fmt.Errorf("write customized resume: %w", err)
		}

		s.logger.Info("customized resume written",
			zap.String("title", job.Job.Title),
			zap.String("company", job.Job.Company),
			zap.String("filename", filename),
		)
	}

	return nil
}

// display prints the ranked list for the user. Plain output, not logging;
// this is the product of the run.
func display(ranked []*matching.AnnotatedJob) {
	fmt.Printf("\nFound %d jobs, best matches first:\n\n", len(ranked))

	for _, job := range ranked {
		marker := ""
		if job.FromCache {
			marker = " (cached)"
		}

		level := "Unrated"
		confidence := 0.0
		if job.Analysis != nil {
			level = job.Analysis.MatchLevel
			confidence = job.Analysis.ConfidenceScore
		}

		fmt.Printf("%d. [%s, %.1f]%s %s at %s\n", job.Number, level, confidence, marker, job.Job.Title, job.Job.Company)
		fmt.Printf("   %s | %s\n", job.Job.Location, job.Job.Posted)
		if job.Job.URL != "" {
			fmt.Printf("   %s\n", job.Job.URL)
		}
		if job.Analysis != nil {
			for _, reason := range job.Analysis.KeyReasons {
				fmt.Printf("   - %s\n", reason)
			}
		}
		fmt.Println()
	}
}
