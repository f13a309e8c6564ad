package analyzer

import (
	"sync"

	"github.com/tobikm/gh-review-balance/internal/models"
)

// Accumulator folds normalized PRs into per-collaborator review
// statistics relative to one fixed viewer. The fold is commutative and
// associative over PR order, so producers may deliver PRs in any order
// or concurrently; mutations are serialized on an internal mutex.
type Accumulator struct {
	viewer   string
	excluded map[string]struct{}

	mu    sync.Mutex
	stats map[string]*models.ReviewStats
}

func NewAccumulator(viewer string, excludedUsers []string) *Accumulator {
	excluded := make(map[string]struct{}, len(excludedUsers))
	for _, user := range excludedUsers {
		excluded[user] = struct{}{}
	}
	return &Accumulator{
		viewer:   viewer,
		excluded: excluded,
		stats:    make(map[string]*models.ReviewStats),
	}
}

func (a *Accumulator) isExcluded(user string) bool {
	_, ok := a.excluded[user]
	return ok
}

// get returns the stats entry for a collaborator, creating it lazily.
// Callers must hold a.mu.
func (a *Accumulator) get(user string) *models.ReviewStats {
	if st, ok := a.stats[user]; ok {
		return st
	}
	st := &models.ReviewStats{}
	a.stats[user] = st
	return st
}

// Add folds one PR with its review events and comments into the
// accumulator. A PR credits its line counts once per counterpart and
// direction, regardless of how many events that counterpart submitted;
// event and comment counts accumulate raw. Self-reviews never count.
func (a *Accumulator) Add(pr models.PullRequest, events []models.ReviewEvent, comments []models.Comment) {
	if a.isExcluded(pr.Author) {
		return
	}

	if pr.Author == a.viewer {
		a.addReviewsOfMyPR(pr, events, comments)
		return
	}
	a.addMyReviewOfTheirPR(pr, events, comments)
}

// addReviewsOfMyPR credits every distinct non-viewer reviewer of a
// viewer-authored PR with one review of that PR.
func (a *Accumulator) addReviewsOfMyPR(pr models.PullRequest, events []models.ReviewEvent, comments []models.Comment) {
	type activity struct {
		events   int
		comments int
	}
	byReviewer := make(map[string]*activity)
	track := func(user string) *activity {
		if user == a.viewer || user == pr.Author || a.isExcluded(user) {
			return nil
		}
		act, ok := byReviewer[user]
		if !ok {
			act = &activity{}
			byReviewer[user] = act
		}
		return act
	}

	for _, ev := range events {
		if act := track(ev.Reviewer); act != nil {
			act.events++
		}
	}
	for _, c := range comments {
		if act := track(c.Author); act != nil {
			act.comments++
		}
	}
	if len(byReviewer) == 0 {
		return
	}

	ref := prRef(pr)
	a.mu.Lock()
	defer a.mu.Unlock()
	for reviewer, act := range byReviewer {
		st := a.get(reviewer)
		st.MyPRsTheyReviewed.PRs++
		st.MyPRsTheyReviewed.Additions += pr.Additions
		st.MyPRsTheyReviewed.Deletions += pr.Deletions
		st.ReviewEvents += act.events
		st.Comments += act.comments
		st.MyPRs = append(st.MyPRs, ref)
	}
}

// addMyReviewOfTheirPR credits the PR author once when the viewer
// submitted at least one review event or comment on their PR.
func (a *Accumulator) addMyReviewOfTheirPR(pr models.PullRequest, events []models.ReviewEvent, comments []models.Comment) {
	var myEvents, myComments int
	for _, ev := range events {
		if ev.Reviewer == a.viewer {
			myEvents++
		}
	}
	for _, c := range comments {
		if c.Author == a.viewer {
			myComments++
		}
	}
	if myEvents == 0 && myComments == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.get(pr.Author)
	st.TheirPRsIReviewed.PRs++
	st.TheirPRsIReviewed.Additions += pr.Additions
	st.TheirPRsIReviewed.Deletions += pr.Deletions
	st.ReviewEvents += myEvents
	st.Comments += myComments
	st.TheirPRs = append(st.TheirPRs, prRef(pr))
}

// Stats returns a snapshot copy of the accumulated map.
func (a *Accumulator) Stats() map[string]models.ReviewStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot := make(map[string]models.ReviewStats, len(a.stats))
	for user, st := range a.stats {
		snapshot[user] = *st
	}
	return snapshot
}

func prRef(pr models.PullRequest) models.PRRef {
	return models.PRRef{
		Repo:      pr.Repo,
		Number:    pr.Number,
		Title:     pr.Title,
		URL:       pr.URL,
		Additions: pr.Additions,
		Deletions: pr.Deletions,
	}
}
