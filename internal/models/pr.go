package models

import "time"

// PRState is the lifecycle state of a pull request. Merged PRs are
// reported as closed; only closed PRs are immutable and cacheable.
type PRState string

const (
	StateOpen   PRState = "open"
	StateClosed PRState = "closed"
)

// ReviewKind classifies a review event.
type ReviewKind string

const (
	KindApproved         ReviewKind = "approved"
	KindChangesRequested ReviewKind = "changes_requested"
	KindDismissed        ReviewKind = "dismissed"
	KindCommented        ReviewKind = "commented"
)

// PullRequest is the normalized pull request entity.
type PullRequest struct {
	Repo               string    `json:"repo"`
	Number             int       `json:"number"`
	Author             string    `json:"author"`
	Title              string    `json:"title"`
	URL                string    `json:"url"`
	State              PRState   `json:"state"`
	CreatedAt          time.Time `json:"created_at"`
	Additions          int       `json:"additions"`
	Deletions          int       `json:"deletions"`
	RequestedReviewers []string  `json:"requested_reviewers,omitempty"`
}

// Lines returns the total changed line count of the PR.
func (p PullRequest) Lines() int {
	return p.Additions + p.Deletions
}

// ReviewEvent is a single submitted review on a pull request.
type ReviewEvent struct {
	ID          int64      `json:"id"`
	Reviewer    string     `json:"reviewer"`
	Kind        ReviewKind `json:"kind"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// Comment is a review comment on a pull request.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenPullRequest describes an open PR that is a candidate for the
// viewer's attention in the actionable list.
type OpenPullRequest struct {
	Repo            string
	Number          int
	Title           string
	URL             string
	Author          string
	Additions       int
	Deletions       int
	CreatedAt       time.Time
	ReviewCount     int
	ReviewRequested bool
}
