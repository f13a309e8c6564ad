package github

import "time"

// Fetcher defines the remote API operations the analyzer depends on.
// Implementations own all transport, pagination and retry concerns and
// report failures as *FetchError so callers can skip granularly.
type Fetcher interface {
	CurrentUserLogin() (string, error)
	SearchPullRequests(repo string, since time.Time) ([]PullRequestRecord, error)
	ListOpenPullRequests(repo string) ([]PullRequestRecord, error)
	PullRequestDetail(repo string, number int) (PullRequestRecord, error)
	ListReviews(repo string, number int) ([]ReviewRecord, error)
	ListComments(repo string, number int) ([]CommentRecord, error)
}

// Ensure Client implements Fetcher interface
var _ Fetcher = (*Client)(nil)
