package analyzer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobikm/gh-review-balance/internal/models"
)

type foldInput struct {
	pr       models.PullRequest
	events   []models.ReviewEvent
	comments []models.Comment
}

func closedPR(repo string, number int, author string, additions, deletions int) models.PullRequest {
	return models.PullRequest{
		Repo:      repo,
		Number:    number,
		Author:    author,
		State:     models.StateClosed,
		Additions: additions,
		Deletions: deletions,
	}
}

func review(id int64, reviewer string, kind models.ReviewKind) models.ReviewEvent {
	return models.ReviewEvent{ID: id, Reviewer: reviewer, Kind: kind}
}

func comment(id int64, author string) models.Comment {
	return models.Comment{ID: id, Author: author}
}

func TestAccumulator_Scenario(t *testing.T) {
	// PR A: authored by the viewer, v approves once and comments once.
	// PR B: authored by v, the viewer reviews once.
	acc := NewAccumulator("u", nil)

	prA := closedPR("acme/widgets", 1, "u", 100, 10)
	acc.Add(prA,
		[]models.ReviewEvent{review(1, "v", models.KindApproved)},
		[]models.Comment{comment(1, "v")},
	)

	prB := closedPR("acme/widgets", 2, "v", 50, 5)
	acc.Add(prB,
		[]models.ReviewEvent{review(2, "u", models.KindApproved)},
		nil,
	)

	stats := acc.Stats()
	require.Len(t, stats, 1)
	st := stats["v"]

	assert.Equal(t, models.LineStats{PRs: 1, Additions: 100, Deletions: 10}, st.MyPRsTheyReviewed)
	assert.Equal(t, models.LineStats{PRs: 1, Additions: 50, Deletions: 5}, st.TheirPRsIReviewed)
	assert.Equal(t, 2, st.TotalPRs())
	assert.Equal(t, 2, st.ReviewEvents)
	assert.Equal(t, 1, st.Comments)

	balance := ComputeBalance(st)
	assert.Equal(t, 55, balance.Lines, "viewer owes v 55 net lines")
	assert.Equal(t, models.ActionViewerShouldReview, balance.Action)
}

func TestAccumulator_NoDoubleCountingPerPR(t *testing.T) {
	acc := NewAccumulator("u", nil)

	pr := closedPR("acme/widgets", 1, "u", 100, 10)
	acc.Add(pr, []models.ReviewEvent{
		review(1, "v", models.KindChangesRequested),
		review(2, "v", models.KindApproved),
	}, nil)

	st := acc.Stats()["v"]
	assert.Equal(t, 1, st.MyPRsTheyReviewed.PRs, "a PR counts once per reviewer")
	assert.Equal(t, 100, st.MyPRsTheyReviewed.Additions, "lines credited once despite two events")
	assert.Equal(t, 2, st.ReviewEvents, "every event is counted")
}

func TestAccumulator_SelfReviewsNeverCount(t *testing.T) {
	acc := NewAccumulator("u", nil)

	// v reviews their own PR; u is uninvolved.
	pr := closedPR("acme/widgets", 1, "v", 40, 4)
	acc.Add(pr,
		[]models.ReviewEvent{review(1, "v", models.KindApproved)},
		[]models.Comment{comment(1, "v")},
	)

	// The viewer approving their own PR contributes nothing either.
	own := closedPR("acme/widgets", 2, "u", 10, 1)
	acc.Add(own, []models.ReviewEvent{review(2, "u", models.KindApproved)}, nil)

	assert.Empty(t, acc.Stats())
}

func TestAccumulator_LazyEntryCreation(t *testing.T) {
	acc := NewAccumulator("u", nil)

	// A PR with no review activity involving the viewer creates no entry.
	acc.Add(closedPR("acme/widgets", 1, "v", 40, 4), nil, nil)
	acc.Add(closedPR("acme/widgets", 2, "v", 40, 4),
		[]models.ReviewEvent{review(1, "w", models.KindApproved)}, nil)

	assert.Empty(t, acc.Stats(), "entries appear only on first real interaction")
}

func TestAccumulator_ExcludedUsers(t *testing.T) {
	acc := NewAccumulator("u", []string{"spammer"})

	// PRs authored by excluded users are skipped entirely.
	acc.Add(closedPR("acme/widgets", 1, "spammer", 500, 50),
		[]models.ReviewEvent{review(1, "u", models.KindApproved)}, nil)

	// Excluded reviewers on the viewer's PRs are ignored.
	acc.Add(closedPR("acme/widgets", 2, "u", 100, 10),
		[]models.ReviewEvent{
			review(2, "spammer", models.KindApproved),
			review(3, "v", models.KindApproved),
		}, nil)

	stats := acc.Stats()
	require.Len(t, stats, 1)
	assert.Contains(t, stats, "v")
}

func TestAccumulator_CommentOnlyReviewCounts(t *testing.T) {
	acc := NewAccumulator("u", nil)

	// The viewer only commented on v's PR, no review event.
	pr := closedPR("acme/widgets", 1, "v", 30, 3)
	acc.Add(pr, nil, []models.Comment{comment(1, "u"), comment(2, "u")})

	st := acc.Stats()["v"]
	assert.Equal(t, 1, st.TheirPRsIReviewed.PRs)
	assert.Equal(t, 0, st.ReviewEvents)
	assert.Equal(t, 2, st.Comments)
}

func TestAccumulator_Commutativity(t *testing.T) {
	inputs := []foldInput{
		{
			pr:       closedPR("acme/widgets", 1, "u", 100, 10),
			events:   []models.ReviewEvent{review(1, "v", models.KindApproved), review(2, "w", models.KindChangesRequested)},
			comments: []models.Comment{comment(1, "v")},
		},
		{
			pr:     closedPR("acme/widgets", 2, "v", 50, 5),
			events: []models.ReviewEvent{review(3, "u", models.KindApproved)},
		},
		{
			pr:       closedPR("acme/widgets", 3, "w", 70, 7),
			comments: []models.Comment{comment(2, "u")},
		},
		{
			pr:     closedPR("acme/widgets", 4, "u", 20, 2),
			events: []models.ReviewEvent{review(4, "v", models.KindCommented)},
		},
		{
			pr:     closedPR("acme/widgets", 5, "x", 10, 1),
			events: []models.ReviewEvent{review(5, "v", models.KindApproved)},
		},
	}

	fold := func(inputs []foldInput) map[string]models.ReviewStats {
		acc := NewAccumulator("u", nil)
		for _, in := range inputs {
			acc.Add(in.pr, in.events, in.comments)
		}
		stats := acc.Stats()
		for user, st := range stats {
			// PR ref order depends on fold order; normalize before comparing.
			st.TheirPRs = nil
			st.MyPRs = nil
			stats[user] = st
		}
		return stats
	}

	want := fold(inputs)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]foldInput(nil), inputs...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, fold(shuffled), "fold must be order-independent")
	}
}
