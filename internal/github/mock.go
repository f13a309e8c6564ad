package github

import (
	"fmt"
	"sync"
	"time"
)

// MockFetcher implements Fetcher for testing
type MockFetcher struct {
	// Control test behavior
	CurrentUser      string
	CurrentUserError error
	SearchResults    map[string][]PullRequestRecord
	SearchError      error
	OpenResults      map[string][]PullRequestRecord
	OpenError        error
	Details          map[string]PullRequestRecord
	DetailError      error
	Reviews          map[string][]ReviewRecord
	ReviewsError     error
	Comments         map[string][]CommentRecord
	CommentsError    error

	// Track method calls. Callers invoke the mock from concurrent
	// workers, so the tracking slices are guarded by mu.
	mu          sync.Mutex
	SearchCalls []string
	DetailCalls []string
	ReviewCalls []string
}

func prKey(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

// CurrentUserLogin mocks the current-user lookup
func (m *MockFetcher) CurrentUserLogin() (string, error) {
	return m.CurrentUser, m.CurrentUserError
}

// SearchPullRequests mocks the GraphQL PR search
func (m *MockFetcher) SearchPullRequests(repo string, since time.Time) ([]PullRequestRecord, error) {
	m.mu.Lock()
	m.SearchCalls = append(m.SearchCalls, repo)
	m.mu.Unlock()
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	return m.SearchResults[repo], nil
}

// ListOpenPullRequests mocks the open-PR listing
func (m *MockFetcher) ListOpenPullRequests(repo string) ([]PullRequestRecord, error) {
	if m.OpenError != nil {
		return nil, m.OpenError
	}
	return m.OpenResults[repo], nil
}

// PullRequestDetail mocks the PR detail fetch
func (m *MockFetcher) PullRequestDetail(repo string, number int) (PullRequestRecord, error) {
	m.mu.Lock()
	m.DetailCalls = append(m.DetailCalls, prKey(repo, number))
	m.mu.Unlock()
	if m.DetailError != nil {
		return PullRequestRecord{}, m.DetailError
	}
	record, ok := m.Details[prKey(repo, number)]
	if !ok {
		return PullRequestRecord{}, &FetchError{Repo: repo, Number: number, Op: "fetch pull request detail", Err: fmt.Errorf("not found")}
	}
	return record, nil
}

// ListReviews mocks the review listing
func (m *MockFetcher) ListReviews(repo string, number int) ([]ReviewRecord, error) {
	m.mu.Lock()
	m.ReviewCalls = append(m.ReviewCalls, prKey(repo, number))
	m.mu.Unlock()
	if m.ReviewsError != nil {
		return nil, m.ReviewsError
	}
	return m.Reviews[prKey(repo, number)], nil
}

// ListComments mocks the comment listing
func (m *MockFetcher) ListComments(repo string, number int) ([]CommentRecord, error) {
	if m.CommentsError != nil {
		return nil, m.CommentsError
	}
	return m.Comments[prKey(repo, number)], nil
}

// Ensure MockFetcher implements Fetcher interface
var _ Fetcher = (*MockFetcher)(nil)
