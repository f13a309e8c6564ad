package models

// PRRef is a lightweight reference to a PR that contributed to a stat,
// kept so the report can list the underlying PRs per collaborator.
type PRRef struct {
	Repo      string `json:"repo"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// LineStats counts PRs and changed lines credited in one review direction.
type LineStats struct {
	PRs       int `json:"prs"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Lines returns the total line count of the direction.
func (l LineStats) Lines() int {
	return l.Additions + l.Deletions
}

// ReviewStats holds the review relationship between the viewer and one
// collaborator. TheirPRsIReviewed covers PRs the collaborator authored
// and the viewer reviewed; MyPRsTheyReviewed the opposite direction.
// ReviewEvents and Comments count every qualifying event in either
// direction and, unlike line credits, are not deduplicated per PR.
type ReviewStats struct {
	TheirPRsIReviewed LineStats `json:"their_prs_i_reviewed"`
	MyPRsTheyReviewed LineStats `json:"my_prs_they_reviewed"`
	ReviewEvents      int       `json:"review_events"`
	Comments          int       `json:"comments"`

	TheirPRs []PRRef `json:"their_prs,omitempty"`
	MyPRs    []PRRef `json:"my_prs,omitempty"`
}

// TotalPRs is the number of PRs with review activity in either direction.
func (s ReviewStats) TotalPRs() int {
	return s.TheirPRsIReviewed.PRs + s.MyPRsTheyReviewed.PRs
}

// Action recommends who should review next based on the balance sign.
type Action string

const (
	ActionViewerShouldReview       Action = "viewer-should-review"
	ActionCollaboratorShouldReview Action = "collaborator-should-review"
	ActionEven                     Action = "even"
)

// Balance is the signed line-count difference between the two review
// directions. Positive means the viewer owes reviews to the collaborator.
type Balance struct {
	Lines     int
	Additions int
	Deletions int
	Action    Action
}
