package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/jobhuntd/leads/internal/cache"
	"github.com/jobhuntd/leads/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptCacheStats       = "Show statistics"
	PromptCacheShowJobs    = "Show cached jobs"
	PromptCacheClearJobs   = "Clear job cache"
	PromptCacheClearResume = "Clear resume cache"
	PromptCacheExit        = "Exit"

	PromptYes = "Yes"
	PromptNo  = "No"

	cacheSampleLimit = 10
)

var cachePrompt = promptui.Select{
	Label: "Cache management",
	Items: []string{PromptCacheStats, PromptCacheShowJobs, PromptCacheClearJobs, PromptCacheClearResume, PromptCacheExit},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the analysis caches",
	Run: func(_ *cobra.Command, _ []string) {
		manageCaches()
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func manageCaches() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	jobStore := cache.NewJobStore(config.Cache.JobFile, logger)
	resumeStore := cache.NewResumeStore(config.Cache.ResumeFile, logger)

	for {
		_, action, err := cachePrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptCacheStats:
			printStats("job analysis", jobStore.Stats(), jobStore.Path())
			printStats("resume analysis", resumeStore.Stats(), resumeStore.Path())
		case PromptCacheShowJobs:
			showCachedJobs(jobStore)
		case PromptCacheClearJobs:
			if confirmed(fmt.Sprintf("Delete %s?", jobStore.Path())) {
				if err := jobStore.Clear(); err != nil {
					logger.Fatal("clearing job cache", zap.Error(err))
				}
				logger.Info("job cache cleared", zap.String("path", jobStore.Path()))
			}
		case PromptCacheClearResume:
			if confirmed(fmt.Sprintf("Delete %s?", resumeStore.Path())) {
				if err := resumeStore.Clear(); err != nil {
					logger.Fatal("clearing resume cache", zap.Error(err))
				}
				logger.Info("resume cache cleared", zap.String("path", resumeStore.Path()))
			}
		case PromptCacheExit:
			return
		}
	}
}

func printStats(name string, stats cache.Stats, path string) {
	fmt.Printf("%s cache: %d entries, %d bytes (%s)\n", name, stats.Entries, stats.SizeBytes, path)
}

func showCachedJobs(store *cache.JobStore) {
	entries := store.Load()
	if len(entries) == 0 {
		fmt.Println("job cache is empty")
		return
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	shown := 0
	for _, key := range keys {
		if shown >= cacheSampleLimit {
			fmt.Printf("... and %d more\n", len(entries)-shown)
			break
		}

		entry := entries[key]
		level := "Unrated"
		if entry.Analysis != nil {
			level = entry.Analysis.MatchLevel
		}
		fmt.Printf("%s at %s [%s] cached %s\n",
			entry.JobTitle, entry.Company, level, entry.Timestamp.Format("2006-01-02 15:04"))
		shown++
	}
}

func confirmed(label string) bool {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptNo, PromptYes},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false
	}
	return answer == PromptYes
}
