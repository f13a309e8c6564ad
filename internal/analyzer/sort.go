package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tobikm/gh-review-balance/internal/models"
)

// Sort keys for the collaborator table.
const (
	SortTotalPRs     = "total_prs"
	SortBalance      = "balance"
	SortUser         = "user"
	SortTheyReviewed = "they_reviewed"
	SortIReviewed    = "i_reviewed"
	SortTheirPRs     = "their_prs"
	SortMyPRs        = "my_prs"
)

var sortKeys = []string{
	SortTotalPRs,
	SortBalance,
	SortUser,
	SortTheyReviewed,
	SortIReviewed,
	SortTheirPRs,
	SortMyPRs,
}

// ValidateSortKey rejects keys outside the enumerated set.
func ValidateSortKey(key string) error {
	for _, known := range sortKeys {
		if key == known {
			return nil
		}
	}
	return fmt.Errorf("unknown sort key %q (valid: %s)", key, strings.Join(sortKeys, ", "))
}

// SortRows orders collaborator rows by the given key. The user key
// sorts ascending, every numeric key descending; ties always break on
// username ascending so output is deterministic.
func SortRows(rows []Row, key string) {
	value := func(r Row) int {
		switch key {
		case SortBalance:
			return r.Balance.Lines
		case SortTheyReviewed:
			return r.Stats.MyPRsTheyReviewed.Lines()
		case SortIReviewed:
			return r.Stats.TheirPRsIReviewed.Lines()
		case SortTheirPRs:
			return r.Stats.TheirPRsIReviewed.PRs
		case SortMyPRs:
			return r.Stats.MyPRsTheyReviewed.PRs
		default:
			return r.Stats.TotalPRs()
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if key == SortUser {
			return userLess(rows[i].User, rows[j].User)
		}
		vi, vj := value(rows[i]), value(rows[j])
		if vi != vj {
			return vi > vj
		}
		return userLess(rows[i].User, rows[j].User)
	})
}

// userLess is the single username collation for the table: case
// insensitive, with the raw bytes breaking case-only ties so the
// order stays deterministic.
func userLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// FilterAuthors drops collaborators who authored no PRs in the
// analyzed set, keeping only rows with their_prs > 0. Applied after
// sorting, before rendering.
func FilterAuthors(rows []Row) []Row {
	kept := rows[:0]
	for _, row := range rows {
		if row.Stats.TheirPRsIReviewed.PRs > 0 {
			kept = append(kept, row)
		}
	}
	return kept
}

// FilterOpenPRs applies the review-count threshold to the actionable
// list. A PR is excluded iff its review count reached the threshold
// AND the viewer's review was not explicitly requested; an explicit
// request always overrides the threshold. A negative threshold
// disables filtering. The excluded count is reported alongside.
func FilterOpenPRs(prs []models.OpenPullRequest, threshold int) ([]models.OpenPullRequest, int) {
	if threshold < 0 {
		return prs, 0
	}
	kept := make([]models.OpenPullRequest, 0, len(prs))
	excluded := 0
	for _, pr := range prs {
		if pr.ReviewRequested || pr.ReviewCount < threshold {
			kept = append(kept, pr)
			continue
		}
		excluded++
	}
	return kept, excluded
}
