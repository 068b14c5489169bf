package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/ai/gemini"
	"github.com/spigell/cv-matcher/internal/match"
	"github.com/spigell/cv-matcher/internal/secrets"
	"github.com/spigell/cv-matcher/internal/store"
)

const (
	app             = "cv-matcher"
	defaultDatabase = "cv-matcher.db"
)

// Config is the application configuration, loaded from cv-matcher.yaml.
type Config struct {
	Database string          `mapstructure:"database"`
	Catalog  *CatalogConfig  `mapstructure:"catalog"`
	Matching *MatchingConfig `mapstructure:"matching"`
	AI       *AIConfig       `mapstructure:"ai"`
}

// CatalogConfig lists the known skills and industries seeded on startup.
type CatalogConfig struct {
	Skills     []string `mapstructure:"skills"`
	Industries []string `mapstructure:"industries"`
}

// MatchingConfig selects the scoring strategy and batch concurrency.
type MatchingConfig struct {
	Strategy    string `mapstructure:"strategy"`
	Concurrency int    `mapstructure:"concurrency"`
}

// AIConfig stores external provider configuration.
type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig stores Gemini provider configuration.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-matcher scores candidate CVs against job requirements",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("database", "CV_MATCHER_DB"); err != nil {
		log.Fatalf("binding CV_MATCHER_DB environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing config file is fine, the defaults cover the tfidf strategy.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if strings.TrimSpace(config.Database) == "" {
		config.Database = defaultDatabase
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if strings.TrimSpace(config.Matching.Strategy) == "" {
		config.Matching.Strategy = string(match.StrategyTFIDF)
	}

	return config, nil
}

// openStore connects to the database and seeds the configured catalog.
func openStore(config *Config, logger *zap.Logger) (*store.Store, error) {
	st, err := store.Open(config.Database, logger)
	if err != nil {
		return nil, err
	}

	if config.Catalog != nil {
		if err := st.SeedCatalog(config.Catalog.Skills, config.Catalog.Industries); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// newService wires the matching service for the configured strategy.
func newService(ctx context.Context, config *Config, st *store.Store, logger *zap.Logger) (*match.Service, error) {
	strategy := match.Strategy(strings.ToLower(strings.TrimSpace(config.Matching.Strategy)))

	var scorer ai.Scorer
	if strategy == match.StrategyGemini {
		var err error
		if scorer, err = newGeminiScorer(ctx, config.AI, logger); err != nil {
			return nil, err
		}
	}

	return match.NewService(st, scorer, strategy, config.Matching.Concurrency, logger)
}

func newGeminiScorer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Scorer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is required for the gemini strategy")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	return gemini.NewScorer(generator, timeout, cfg.Gemini.MaxLogLength, genLogger), nil
}
