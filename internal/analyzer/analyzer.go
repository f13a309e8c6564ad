// Package analyzer folds pull-request review activity into
// per-collaborator statistics, balances and an actionable report.
package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tobikm/gh-review-balance/internal/cache"
	"github.com/tobikm/gh-review-balance/internal/github"
	"github.com/tobikm/gh-review-balance/internal/models"
	"github.com/tobikm/gh-review-balance/internal/normalize"
)

const defaultWorkers = 10

// Options is the immutable configuration the analyzer runs with.
// It is validated once at construction, before any fetching.
type Options struct {
	Viewer          string
	ExcludedUsers   []string
	Months          int
	SortBy          string
	ReviewThreshold int
	AuthorsOnly     bool
	Workers         int

	// Progress, when set, is invoked after each processed PR.
	Progress func(done, total int)
}

func (o Options) validate() error {
	if o.Viewer == "" {
		return fmt.Errorf("viewer is required")
	}
	if o.Months < 1 {
		return fmt.Errorf("months must be at least 1, got %d", o.Months)
	}
	if o.ReviewThreshold < -1 {
		return fmt.Errorf("review threshold must be -1 (disabled) or non-negative, got %d", o.ReviewThreshold)
	}
	return ValidateSortKey(o.SortBy)
}

// Analyzer orchestrates fetching, caching, normalization and
// accumulation across repositories.
type Analyzer struct {
	fetcher github.Fetcher
	store   cache.Store
	norm    *normalize.Normalizer
	log     *logrus.Logger
	opts    Options
	acc     *Accumulator

	mu      sync.Mutex
	repos   []string
	skipped []string
}

func New(fetcher github.Fetcher, store cache.Store, log *logrus.Logger, opts Options) (*Analyzer, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer options: %w", err)
	}
	return &Analyzer{
		fetcher: fetcher,
		store:   store,
		norm:    normalize.New(log),
		log:     log,
		opts:    opts,
		acc:     NewAccumulator(opts.Viewer, opts.ExcludedUsers),
	}, nil
}

// AnalyzeRepository folds the repository's recent PRs into the
// accumulator. A failed listing skips the whole repository and is
// recorded for the report; a failed PR skips only that PR.
func (a *Analyzer) AnalyzeRepository(repo string) error {
	a.mu.Lock()
	a.repos = append(a.repos, repo)
	a.mu.Unlock()

	since := time.Now().AddDate(0, 0, -a.opts.Months*30)
	a.log.Infof("analyzing %s, PRs created since %s", repo, since.Format("2006-01-02"))

	records, err := a.fetcher.SearchPullRequests(repo, since)
	if err != nil {
		a.mu.Lock()
		a.skipped = append(a.skipped, repo)
		a.mu.Unlock()
		return fmt.Errorf("failed to list pull requests: %w", err)
	}

	candidates := dedupeByNumber(records)
	a.log.Infof("found %d PRs in %s", len(candidates), repo)

	a.forEachPR(candidates, func(rec github.PullRequestRecord) {
		a.processPR(repo, rec)
	})
	return nil
}

// forEachPR runs fn over the records with a bounded worker pool and
// reports progress after each one.
func (a *Analyzer) forEachPR(records []github.PullRequestRecord, fn func(github.PullRequestRecord)) {
	workers := a.opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(records) {
		workers = len(records)
	}
	if workers == 0 {
		return
	}

	total := len(records)
	var done atomic.Int64
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, rec := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec github.PullRequestRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(rec)
			if a.opts.Progress != nil {
				a.opts.Progress(int(done.Add(1)), total)
			}
		}(rec)
	}
	wg.Wait()
}

// processPR resolves one PR through the cache or the remote API,
// normalizes it and folds it into the accumulator.
func (a *Analyzer) processPR(repo string, rec github.PullRequestRecord) {
	if rec.Draft {
		return
	}
	if a.acc.isExcluded(rec.User.Login) {
		return
	}

	if entry, ok := a.store.Lookup(repo, rec.Number); ok {
		a.acc.Add(entry.PR, entry.Events, entry.Comments)
		return
	}

	detail, err := a.fetcher.PullRequestDetail(repo, rec.Number)
	if err != nil {
		a.log.WithError(err).Warnf("skipping %s#%d", repo, rec.Number)
		return
	}
	events, comments, ok := a.fetchActivity(repo, rec.Number)
	if !ok {
		return
	}

	pr, err := a.norm.PullRequest(repo, detail)
	if err != nil {
		a.log.WithError(err).Warnf("skipping malformed PR %s#%d", repo, rec.Number)
		return
	}

	if pr.State == models.StateClosed {
		a.store.Put(cache.Entry{
			PR:         pr,
			Events:     events,
			Comments:   comments,
			CapturedAt: time.Now().UTC(),
		})
	}
	a.acc.Add(pr, events, comments)
}

// fetchActivity loads reviews and comments for one PR. Partial data
// cannot be attributed safely, so any failure skips the PR entirely.
func (a *Analyzer) fetchActivity(repo string, number int) ([]models.ReviewEvent, []models.Comment, bool) {
	reviewRecs, err := a.fetcher.ListReviews(repo, number)
	if err != nil {
		a.log.WithError(err).Warnf("skipping %s#%d", repo, number)
		return nil, nil, false
	}
	commentRecs, err := a.fetcher.ListComments(repo, number)
	if err != nil {
		a.log.WithError(err).Warnf("skipping %s#%d", repo, number)
		return nil, nil, false
	}
	return a.norm.Reviews(reviewRecs), a.norm.Comments(commentRecs), true
}

// OpenPRsNeedingReview collects open PRs from the analyzed
// repositories that still await the viewer's review. Open PRs are
// always fetched fresh, never served from or written to the cache.
func (a *Analyzer) OpenPRsNeedingReview() []models.OpenPullRequest {
	a.mu.Lock()
	repos := append([]string(nil), a.repos...)
	a.mu.Unlock()

	var resultMu sync.Mutex
	var result []models.OpenPullRequest

	for _, repo := range repos {
		records, err := a.fetcher.ListOpenPullRequests(repo)
		if err != nil {
			a.log.WithError(err).Errorf("failed to fetch open PRs from %s", repo)
			continue
		}

		candidates := make([]github.PullRequestRecord, 0, len(records))
		for _, rec := range dedupeByNumber(records) {
			author := rec.User.Login
			if rec.Draft || author == "" || author == a.opts.Viewer || a.acc.isExcluded(author) {
				continue
			}
			candidates = append(candidates, rec)
		}

		repo := repo
		a.forEachPR(candidates, func(rec github.PullRequestRecord) {
			if open, ok := a.checkOpenPR(repo, rec); ok {
				resultMu.Lock()
				result = append(result, open)
				resultMu.Unlock()
			}
		})
	}
	return result
}

// checkOpenPR decides whether one open PR belongs on the actionable
// list and assembles its summary.
func (a *Analyzer) checkOpenPR(repo string, rec github.PullRequestRecord) (models.OpenPullRequest, bool) {
	detail, err := a.fetcher.PullRequestDetail(repo, rec.Number)
	if err != nil {
		a.log.WithError(err).Warnf("skipping open PR %s#%d", repo, rec.Number)
		return models.OpenPullRequest{}, false
	}
	events, comments, ok := a.fetchActivity(repo, rec.Number)
	if !ok {
		return models.OpenPullRequest{}, false
	}

	pr, err := a.norm.PullRequest(repo, detail)
	if err != nil {
		a.log.WithError(err).Warnf("skipping malformed open PR %s#%d", repo, rec.Number)
		return models.OpenPullRequest{}, false
	}

	if a.viewerAlreadyReviewed(events, comments) {
		return models.OpenPullRequest{}, false
	}

	reviewers := make(map[string]struct{})
	for _, ev := range events {
		if ev.Reviewer == pr.Author || ev.Reviewer == a.opts.Viewer || a.acc.isExcluded(ev.Reviewer) {
			continue
		}
		reviewers[ev.Reviewer] = struct{}{}
	}

	requested := false
	for _, login := range pr.RequestedReviewers {
		if login == a.opts.Viewer {
			requested = true
			break
		}
	}

	return models.OpenPullRequest{
		Repo:            repo,
		Number:          pr.Number,
		Title:           pr.Title,
		URL:             pr.URL,
		Author:          pr.Author,
		Additions:       pr.Additions,
		Deletions:       pr.Deletions,
		CreatedAt:       pr.CreatedAt,
		ReviewCount:     len(reviewers),
		ReviewRequested: requested,
	}, true
}

// viewerAlreadyReviewed reports whether the viewer's activity settles
// an open PR. The viewer's latest review event decides: a dismissed
// latest review puts the PR back on the actionable list, any other
// kind settles it. With no review events, any viewer comment settles.
func (a *Analyzer) viewerAlreadyReviewed(events []models.ReviewEvent, comments []models.Comment) bool {
	var latest *models.ReviewEvent
	for i, ev := range events {
		if ev.Reviewer != a.opts.Viewer {
			continue
		}
		if latest == nil || ev.SubmittedAt.After(latest.SubmittedAt) {
			latest = &events[i]
		}
	}
	if latest != nil {
		return latest.Kind != models.KindDismissed
	}

	for _, c := range comments {
		if c.Author == a.opts.Viewer {
			return true
		}
	}
	return false
}

// Report assembles the final report model from the accumulated state.
func (a *Analyzer) Report(openPRs []models.OpenPullRequest) Report {
	a.mu.Lock()
	skipped := append([]string(nil), a.skipped...)
	a.mu.Unlock()

	return BuildReport(a.opts.Viewer, a.acc.Stats(), openPRs, skipped, ReportOptions{
		SortBy:          a.opts.SortBy,
		ReviewThreshold: a.opts.ReviewThreshold,
		AuthorsOnly:     a.opts.AuthorsOnly,
	})
}

// dedupeByNumber drops repeated listings of the same PR number,
// keeping the first occurrence.
func dedupeByNumber(records []github.PullRequestRecord) []github.PullRequestRecord {
	seen := make(map[int]struct{}, len(records))
	deduped := make([]github.PullRequestRecord, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.Number]; dup {
			continue
		}
		seen[rec.Number] = struct{}{}
		deduped = append(deduped, rec)
	}
	return deduped
}
