package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobikm/gh-review-balance/internal/models"
)

func makeRow(user string, theirPRs, theirLines, myPRs, myLines int) Row {
	stats := models.ReviewStats{
		TheirPRsIReviewed: models.LineStats{PRs: theirPRs, Additions: theirLines},
		MyPRsTheyReviewed: models.LineStats{PRs: myPRs, Additions: myLines},
	}
	return Row{User: user, Stats: stats, Balance: ComputeBalance(stats)}
}

func rowUsers(rows []Row) []string {
	users := make([]string, len(rows))
	for i, r := range rows {
		users[i] = r.User
	}
	return users
}

func TestValidateSortKey(t *testing.T) {
	for _, key := range sortKeys {
		assert.NoError(t, ValidateSortKey(key))
	}
	assert.Error(t, ValidateSortKey("lines"))
	assert.Error(t, ValidateSortKey(""))
}

func TestSortRows(t *testing.T) {
	rows := func() []Row {
		return []Row{
			makeRow("carol", 2, 100, 1, 300), // total 3, balance +200
			makeRow("alice", 1, 50, 1, 50),   // total 2, balance 0
			makeRow("bob", 3, 400, 1, 100),   // total 4, balance -300
		}
	}

	tests := []struct {
		name  string
		key   string
		order []string
	}{
		{
			name:  "total PRs descending",
			key:   SortTotalPRs,
			order: []string{"bob", "carol", "alice"},
		},
		{
			name:  "balance descending",
			key:   SortBalance,
			order: []string{"carol", "alice", "bob"},
		},
		{
			name:  "user ascending",
			key:   SortUser,
			order: []string{"alice", "bob", "carol"},
		},
		{
			name:  "lines they reviewed descending",
			key:   SortTheyReviewed,
			order: []string{"carol", "bob", "alice"},
		},
		{
			name:  "lines I reviewed descending",
			key:   SortIReviewed,
			order: []string{"bob", "carol", "alice"},
		},
		{
			name:  "their PRs descending",
			key:   SortTheirPRs,
			order: []string{"bob", "carol", "alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := rows()
			SortRows(sorted, tt.key)
			assert.Equal(t, tt.order, rowUsers(sorted))
		})
	}
}

func TestSortRows_TiesBreakOnUsername(t *testing.T) {
	rows := []Row{
		makeRow("zoe", 1, 10, 1, 10),
		makeRow("amy", 1, 10, 1, 10),
		makeRow("mia", 1, 10, 1, 10),
	}
	SortRows(rows, SortTotalPRs)
	assert.Equal(t, []string{"amy", "mia", "zoe"}, rowUsers(rows))
}

func TestSortRows_OneCollationForUsernames(t *testing.T) {
	rows := func() []Row {
		return []Row{
			makeRow("Carol", 1, 10, 1, 10),
			makeRow("alice", 1, 10, 1, 10),
			makeRow("Bob", 1, 10, 1, 10),
		}
	}

	// The user sort and the numeric-key tiebreak must order
	// usernames identically, case folded.
	want := []string{"alice", "Bob", "Carol"}

	byUser := rows()
	SortRows(byUser, SortUser)
	assert.Equal(t, want, rowUsers(byUser))

	byTie := rows()
	SortRows(byTie, SortTotalPRs)
	assert.Equal(t, want, rowUsers(byTie))
}

func TestFilterAuthors(t *testing.T) {
	rows := []Row{
		makeRow("alice", 1, 50, 2, 80),
		makeRow("bob", 0, 0, 3, 120),
		makeRow("carol", 2, 90, 0, 0),
	}

	kept := FilterAuthors(rows)

	assert.Equal(t, []string{"alice", "carol"}, rowUsers(kept),
		"collaborators with no authored PRs in the set are dropped")
}

func TestFilterOpenPRs_ThresholdOverride(t *testing.T) {
	prs := []models.OpenPullRequest{
		{Number: 1, ReviewCount: 3, ReviewRequested: true},
		{Number: 2, ReviewCount: 3, ReviewRequested: false},
		{Number: 3, ReviewCount: 1, ReviewRequested: false},
		{Number: 4, ReviewCount: 2, ReviewRequested: false},
	}

	kept, excluded := FilterOpenPRs(prs, 2)

	require.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].Number, "explicit request overrides the threshold")
	assert.Equal(t, 3, kept[1].Number)
	assert.Equal(t, 2, excluded)
}

func TestFilterOpenPRs_NoThreshold(t *testing.T) {
	prs := []models.OpenPullRequest{
		{Number: 1, ReviewCount: 10},
		{Number: 2, ReviewCount: 0},
	}

	kept, excluded := FilterOpenPRs(prs, -1)

	assert.Len(t, kept, 2)
	assert.Zero(t, excluded)
}

func TestFilterOpenPRs_ZeroThreshold(t *testing.T) {
	prs := []models.OpenPullRequest{
		{Number: 1, ReviewCount: 0, ReviewRequested: false},
		{Number: 2, ReviewCount: 0, ReviewRequested: true},
	}

	kept, excluded := FilterOpenPRs(prs, 0)

	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].Number)
	assert.Equal(t, 1, excluded)
}
