package analyzer

import "github.com/tobikm/gh-review-balance/internal/models"

// ComputeBalance derives the signed review balance for one finished
// ReviewStats. Positive means the viewer owes reviews to the
// collaborator. The action tag follows the strict sign of the total.
func ComputeBalance(stats models.ReviewStats) models.Balance {
	balance := models.Balance{
		Lines:     stats.MyPRsTheyReviewed.Lines() - stats.TheirPRsIReviewed.Lines(),
		Additions: stats.MyPRsTheyReviewed.Additions - stats.TheirPRsIReviewed.Additions,
		Deletions: stats.MyPRsTheyReviewed.Deletions - stats.TheirPRsIReviewed.Deletions,
	}

	switch {
	case balance.Lines > 0:
		balance.Action = models.ActionViewerShouldReview
	case balance.Lines < 0:
		balance.Action = models.ActionCollaboratorShouldReview
	default:
		balance.Action = models.ActionEven
	}
	return balance
}
