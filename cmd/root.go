package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "leads"
)

type Config struct {
	Search              *SearchConfig `mapstructure:"search"`
	TargetCompanies     []string      `mapstructure:"target-companies"`
	PreferredIndustries []string      `mapstructure:"preferred-industries"`
	IndustriesToAvoid   []string      `mapstructure:"industries-to-avoid"`
	RemoteIndicators    []string      `mapstructure:"remote-indicators"`
	Resume              *ResumeConfig `mapstructure:"resume"`
	SavedJobsDir        string        `mapstructure:"saved-jobs-dir"`
	HiddenJobsFile      string        `mapstructure:"hidden-jobs-file"`
	Cache               *CacheConfig  `mapstructure:"cache"`
	AI                  *AIConfig     `mapstructure:"ai"`
}

type SearchConfig struct {
	Keywords         []string `mapstructure:"keywords"`
	Locations        []string `mapstructure:"locations"`
	TimePeriod       string   `mapstructure:"time-period"`
	MaxJobsPerSearch int      `mapstructure:"max-jobs-per-search"`
	DelaySeconds     int      `mapstructure:"delay-seconds"`
}

type ResumeConfig struct {
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	JobFile    string `mapstructure:"job-file"`
	ResumeFile string `mapstructure:"resume-file"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "leads is a cli for scraping job postings and scoring them against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is leads.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run and cache commands. If neither was called,
	// we can skip initialization.
	if runCmd.CalledAs() == "" && cacheCmd.CalledAs() == "" {
		return
	}

	// Secrets may come from a local .env file. Missing file is fine.
	_ = godotenv.Load()

	configureViper(viper.GetViper(), cfgFile)

	// We can't proceed if the config file parsed with error. A missing
	// default config is tolerated; the cache command works from defaults.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

// configureViper sets defaults and the config file location. Without an
// explicit file, viper searches the current directory for leads.<ext>; the
// name must not carry an extension or the search would look for
// leads.yaml.yaml and never find leads.yaml.
func configureViper(v *viper.Viper, cfgFile string) {
	v.SetDefault("search.time-period", "r86400")
	v.SetDefault("search.max-jobs-per-search", 5)
	v.SetDefault("search.delay-seconds", 2)
	v.SetDefault("saved-jobs-dir", "saved_jobs")
	v.SetDefault("hidden-jobs-file", "hidden_jobs.json")
	v.SetDefault("cache.job-file", "job_analysis_cache.json")
	v.SetDefault("cache.resume-file", "resume_analysis_cache.json")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.Resume == nil {
		config.Resume = &ResumeConfig{}
	}
	if config.Cache == nil {
		config.Cache = &CacheConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
