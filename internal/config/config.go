// Package config loads runtime settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/tobikm/gh-review-balance/internal/analyzer"
)

type Config struct {
	Viewer          string   `env:"REVIEW_BALANCE_VIEWER"`
	Repos           []string `env:"REVIEW_BALANCE_REPOS" env-separator:","`
	ExcludedUsers   []string `env:"REVIEW_BALANCE_EXCLUDED_USERS" env-separator:","`
	Months          int      `env:"REVIEW_BALANCE_MONTHS" env-default:"3"`
	SortBy          string   `env:"REVIEW_BALANCE_SORT" env-default:"total_prs"`
	ReviewThreshold int      `env:"REVIEW_BALANCE_REVIEW_THRESHOLD" env-default:"-1"`
	AuthorsOnly     bool     `env:"REVIEW_BALANCE_AUTHORS_ONLY" env-default:"false"`
	CacheEnabled    bool     `env:"REVIEW_BALANCE_CACHE" env-default:"true"`
	CacheFile       string   `env:"REVIEW_BALANCE_CACHE_FILE" env-default:".review-balance-cache.json"`
	LogLevel        string   `env:"REVIEW_BALANCE_LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration from the environment. A .env file in
// the working directory is loaded first when present, without
// overriding variables already set.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// ValidateSettings checks everything that is known before any remote
// call or prompt happens. An unsatisfiable setting must be rejected
// here, before the run touches the network or the cache file.
func (c Config) ValidateSettings() error {
	for _, repo := range c.Repos {
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("repository %q must be in owner/repo form", repo)
		}
	}
	if c.Months < 1 {
		return fmt.Errorf("months must be at least 1, got %d", c.Months)
	}
	if c.ReviewThreshold < -1 {
		return fmt.Errorf("review threshold must be -1 (disabled) or non-negative, got %d", c.ReviewThreshold)
	}
	return analyzer.ValidateSortKey(c.SortBy)
}

// Validate checks the full configuration. Viewer and Repos may still
// be filled in interactively, so this runs after prompting had its
// chance; ValidateSettings covers what can be rejected earlier.
func (c Config) Validate() error {
	if c.Viewer == "" {
		return fmt.Errorf("viewer username is required")
	}
	if len(c.Repos) == 0 {
		return fmt.Errorf("at least one repository is required")
	}
	return c.ValidateSettings()
}
