package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the runtime settings that are not part of a tournament
// definition.
type Config struct {
	DefinitionPath    string        `env:"TOURNAMENT_CONFIG" envDefault:"tournament.yaml"`
	ResultsPath       string        `env:"TOURNAMENT_RESULTS_PATH" envDefault:"tournament_results.csv"`
	RefereeCommand    string        `env:"TOURNAMENT_REFEREE_COMMAND" envDefault:"uv run cs4341-referee"`
	MatchDeadline     time.Duration `env:"TOURNAMENT_MATCH_DEADLINE" envDefault:"0s"`
	MaxParallelGroups int           `env:"TOURNAMENT_MAX_PARALLEL_GROUPS" envDefault:"1"`
	WorkbookPath      string        `env:"TOURNAMENT_WORKBOOK_PATH"`
	ChartPath         string        `env:"TOURNAMENT_CHART_PATH"`
	LogFormat         string        `env:"TOURNAMENT_LOG_FORMAT" envDefault:"text"`

	DatabaseURL     string        `env:"DATABASE_URL"`
	DatabaseTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`

	ArtifactPrefix    string `env:"ARTIFACT_PREFIX" envDefault:"tournaments"`
	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2Endpoint        string `env:"R2_ENDPOINT"`
	R2Region          string `env:"R2_REGION"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.RefereeCommand) == "" {
		return fmt.Errorf("TOURNAMENT_REFEREE_COMMAND must not be empty")
	}
	if strings.TrimSpace(c.ResultsPath) == "" {
		return fmt.Errorf("TOURNAMENT_RESULTS_PATH must not be empty")
	}
	if c.MatchDeadline < 0 {
		return fmt.Errorf("TOURNAMENT_MATCH_DEADLINE must not be negative, got %s", c.MatchDeadline)
	}
	if c.MaxParallelGroups < 1 {
		return fmt.Errorf("TOURNAMENT_MAX_PARALLEL_GROUPS must be at least 1, got %d", c.MaxParallelGroups)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("TOURNAMENT_LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat)
	}
	return nil
}

// ArtifactStorageEnabled reports whether enough R2/S3 settings are present
// to publish artifacts.
func (c *Config) ArtifactStorageEnabled() bool {
	return c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != "" &&
		(c.R2AccountID != "" || c.R2Endpoint != "")
}
