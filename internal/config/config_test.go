package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Viewer)
	assert.Empty(t, cfg.Repos)
	assert.Equal(t, 3, cfg.Months)
	assert.Equal(t, "total_prs", cfg.SortBy)
	assert.Equal(t, -1, cfg.ReviewThreshold)
	assert.False(t, cfg.AuthorsOnly)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, ".review-balance-cache.json", cfg.CacheFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REVIEW_BALANCE_VIEWER", "tobi")
	t.Setenv("REVIEW_BALANCE_REPOS", "acme/widgets,acme/gadgets")
	t.Setenv("REVIEW_BALANCE_EXCLUDED_USERS", "dependabot")
	t.Setenv("REVIEW_BALANCE_MONTHS", "6")
	t.Setenv("REVIEW_BALANCE_SORT", "balance")
	t.Setenv("REVIEW_BALANCE_REVIEW_THRESHOLD", "2")
	t.Setenv("REVIEW_BALANCE_AUTHORS_ONLY", "true")
	t.Setenv("REVIEW_BALANCE_CACHE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tobi", cfg.Viewer)
	assert.Equal(t, []string{"acme/widgets", "acme/gadgets"}, cfg.Repos)
	assert.Equal(t, []string{"dependabot"}, cfg.ExcludedUsers)
	assert.Equal(t, 6, cfg.Months)
	assert.Equal(t, "balance", cfg.SortBy)
	assert.Equal(t, 2, cfg.ReviewThreshold)
	assert.True(t, cfg.AuthorsOnly)
	assert.False(t, cfg.CacheEnabled)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REVIEW_BALANCE_VIEWER=dotenv-user\n"), 0o644))
	chdir(t, dir)
	t.Setenv("REVIEW_BALANCE_VIEWER", "")
	os.Unsetenv("REVIEW_BALANCE_VIEWER")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dotenv-user", cfg.Viewer)
}

func TestConfig_ValidateSettings(t *testing.T) {
	// Settings validation must not require viewer or repos: it runs
	// before the authenticated-user lookup and interactive prompts.
	cfg := Config{Months: 3, SortBy: "balance", ReviewThreshold: -1}
	assert.NoError(t, cfg.ValidateSettings())

	cfg.SortBy = "bogus"
	assert.Error(t, cfg.ValidateSettings())

	cfg.SortBy = "balance"
	cfg.ReviewThreshold = -2
	assert.Error(t, cfg.ValidateSettings())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Viewer:          "tobi",
		Repos:           []string{"acme/widgets"},
		Months:          3,
		SortBy:          "total_prs",
		ReviewThreshold: -1,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing viewer", mutate: func(c *Config) { c.Viewer = "" }, wantErr: true},
		{name: "no repos", mutate: func(c *Config) { c.Repos = nil }, wantErr: true},
		{name: "bad repo form", mutate: func(c *Config) { c.Repos = []string{"widgets"} }, wantErr: true},
		{name: "bad months", mutate: func(c *Config) { c.Months = 0 }, wantErr: true},
		{name: "bad threshold", mutate: func(c *Config) { c.ReviewThreshold = -2 }, wantErr: true},
		{name: "bad sort key", mutate: func(c *Config) { c.SortBy = "lines" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
