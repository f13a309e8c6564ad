package github

// UserRecord is a GitHub account as it appears in API payloads.
type UserRecord struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// PullRequestRecord is the raw pull request payload. Listing endpoints
// leave Additions/Deletions/RequestedReviewers zero; PullRequestDetail
// fills them in.
type PullRequestRecord struct {
	Number             int          `json:"number"`
	Title              string       `json:"title"`
	State              string       `json:"state"`
	Draft              bool         `json:"draft"`
	HTMLURL            string       `json:"html_url"`
	User               UserRecord   `json:"user"`
	CreatedAt          string       `json:"created_at"`
	Additions          int          `json:"additions"`
	Deletions          int          `json:"deletions"`
	RequestedReviewers []UserRecord `json:"requested_reviewers"`
}

// ReviewRecord is a raw submitted review.
type ReviewRecord struct {
	ID          int64      `json:"id"`
	User        UserRecord `json:"user"`
	State       string     `json:"state"`
	SubmittedAt string     `json:"submitted_at"`
}

// CommentRecord is a raw review comment.
type CommentRecord struct {
	ID        int64      `json:"id"`
	User      UserRecord `json:"user"`
	CreatedAt string     `json:"created_at"`
}
