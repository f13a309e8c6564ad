package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tobikm/gh-review-balance/internal/analyzer"
	"github.com/tobikm/gh-review-balance/internal/cache"
	"github.com/tobikm/gh-review-balance/internal/config"
	"github.com/tobikm/gh-review-balance/internal/github"
	"github.com/tobikm/gh-review-balance/internal/ui"
)

type flags struct {
	viewer          string
	repos           []string
	excludedUsers   []string
	months          int
	sortBy          string
	reviewThreshold int
	authorsOnly     bool
	noCache         bool
	cacheFile       string
	logLevel        string
}

func newLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(parsed)
	return log, nil
}

// mergeFlags overlays explicitly set flags on the environment config.
func mergeFlags(cfg *config.Config, cmd *cobra.Command, f *flags) {
	if cmd.Flags().Changed("viewer") {
		cfg.Viewer = f.viewer
	}
	if cmd.Flags().Changed("repo") {
		cfg.Repos = f.repos
	}
	if cmd.Flags().Changed("exclude") {
		cfg.ExcludedUsers = f.excludedUsers
	}
	if cmd.Flags().Changed("months") {
		cfg.Months = f.months
	}
	if cmd.Flags().Changed("sort") {
		cfg.SortBy = f.sortBy
	}
	if cmd.Flags().Changed("review-threshold") {
		cfg.ReviewThreshold = f.reviewThreshold
	}
	if cmd.Flags().Changed("authors-only") {
		cfg.AuthorsOnly = f.authorsOnly
	}
	if cmd.Flags().Changed("no-cache") {
		cfg.CacheEnabled = !f.noCache
	}
	if cmd.Flags().Changed("cache-file") {
		cfg.CacheFile = f.cacheFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

// resolveIdentity fills in the viewer and repositories, falling back
// to the authenticated login and then to interactive prompts.
func resolveIdentity(cfg *config.Config, fetcher github.Fetcher, prompter ui.Prompter, log *logrus.Logger) error {
	if cfg.Viewer == "" {
		login, err := fetcher.CurrentUserLogin()
		if err != nil {
			log.WithError(err).Debug("could not resolve authenticated user")
		} else {
			cfg.Viewer = login
		}
	}
	if cfg.Viewer == "" {
		viewer, err := prompter.ViewerLogin()
		if err != nil {
			return fmt.Errorf("failed to determine viewer: %w", err)
		}
		cfg.Viewer = viewer
	}

	if len(cfg.Repos) == 0 {
		repos, err := prompter.Repositories()
		if err != nil {
			return fmt.Errorf("failed to determine repositories: %w", err)
		}
		cfg.Repos = repos
	}
	return nil
}

func runCommand(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	mergeFlags(&cfg, cmd, f)

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	// Reject unsatisfiable settings before any fetching begins.
	if err := cfg.ValidateSettings(); err != nil {
		return err
	}

	client, err := github.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	if err := resolveIdentity(&cfg, client, &ui.DefaultPrompter{}, log); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := cache.NewFileStore(cfg.CacheFile, cfg.CacheEnabled, log)

	a, err := analyzer.New(client, store, log, analyzer.Options{
		Viewer:          cfg.Viewer,
		ExcludedUsers:   cfg.ExcludedUsers,
		Months:          cfg.Months,
		SortBy:          cfg.SortBy,
		ReviewThreshold: cfg.ReviewThreshold,
		AuthorsOnly:     cfg.AuthorsOnly,
		Progress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rProcessing PRs: %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})
	if err != nil {
		return err
	}

	for _, repo := range cfg.Repos {
		if err := a.AnalyzeRepository(repo); err != nil {
			log.WithError(err).Errorf("skipping repository %s", repo)
		}
	}

	openPRs := a.OpenPRsNeedingReview()

	if err := store.Flush(); err != nil {
		log.WithError(err).Warn("failed to save cache")
	}

	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	ui.NewRenderer(os.Stdout, color).Render(a.Report(openPRs))
	return nil
}

func main() {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "gh-review-balance",
		Short: "Analyze who owes whom code reviews across repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, f)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&f.viewer, "viewer", "", "GitHub username to analyze (default: authenticated user)")
	cmd.Flags().StringSliceVar(&f.repos, "repo", nil, "repository to analyze in owner/repo form (repeatable)")
	cmd.Flags().StringSliceVar(&f.excludedUsers, "exclude", nil, "username to exclude from the analysis (repeatable)")
	cmd.Flags().IntVar(&f.months, "months", 3, "how many months of PRs to analyze")
	cmd.Flags().StringVar(&f.sortBy, "sort", "total_prs", "balance table sort key (total_prs, balance, user, they_reviewed, i_reviewed, their_prs, my_prs)")
	cmd.Flags().IntVar(&f.reviewThreshold, "review-threshold", -1, "hide open PRs that already have at least this many reviews (-1 disables)")
	cmd.Flags().BoolVar(&f.authorsOnly, "authors-only", false, "only show collaborators who authored PRs in the analyzed set")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the closed-PR cache")
	cmd.Flags().StringVar(&f.cacheFile, "cache-file", ".review-balance-cache.json", "path of the closed-PR cache file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
