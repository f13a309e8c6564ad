// Package normalize converts raw API records into the internal entity
// model at the boundary, so the core never operates on untyped data.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tobikm/gh-review-balance/internal/github"
	"github.com/tobikm/gh-review-balance/internal/models"
)

// Normalizer applies defaults, de-duplication and soft validation to
// raw records. Malformed reviews and comments are dropped with a
// warning; a malformed PR record fails hard so the caller can skip
// that PR and continue the batch.
type Normalizer struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// PullRequest converts a raw PR record into the entity model.
func (n *Normalizer) PullRequest(repo string, rec github.PullRequestRecord) (models.PullRequest, error) {
	if rec.Number <= 0 {
		return models.PullRequest{}, fmt.Errorf("pull request record has no number")
	}
	if rec.User.Login == "" {
		return models.PullRequest{}, fmt.Errorf("pull request #%d has no author", rec.Number)
	}

	var createdAt time.Time
	if rec.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, rec.CreatedAt)
		if err != nil {
			return models.PullRequest{}, fmt.Errorf("pull request #%d has invalid created_at %q: %w", rec.Number, rec.CreatedAt, err)
		}
		createdAt = parsed
	}

	state := models.StateOpen
	if strings.EqualFold(rec.State, "closed") || strings.EqualFold(rec.State, "merged") {
		state = models.StateClosed
	}

	requested := make([]string, 0, len(rec.RequestedReviewers))
	for _, user := range rec.RequestedReviewers {
		if user.Login != "" {
			requested = append(requested, user.Login)
		}
	}

	return models.PullRequest{
		Repo:               repo,
		Number:             rec.Number,
		Author:             rec.User.Login,
		Title:              rec.Title,
		URL:                rec.HTMLURL,
		State:              state,
		CreatedAt:          createdAt,
		Additions:          rec.Additions,
		Deletions:          rec.Deletions,
		RequestedReviewers: requested,
	}, nil
}

// Reviews converts raw review records into review events. Repeated
// delivery of the same event ID collapses to one; distinct events from
// the same reviewer are all kept.
func (n *Normalizer) Reviews(recs []github.ReviewRecord) []models.ReviewEvent {
	events := make([]models.ReviewEvent, 0, len(recs))
	seen := make(map[int64]struct{}, len(recs))

	for _, rec := range recs {
		if rec.ID == 0 || rec.User.Login == "" {
			n.log.WithFields(logrus.Fields{"id": rec.ID, "reviewer": rec.User.Login}).
				Warn("dropping malformed review record")
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}

		var submittedAt time.Time
		if rec.SubmittedAt != "" {
			parsed, err := time.Parse(time.RFC3339, rec.SubmittedAt)
			if err != nil {
				n.log.WithField("id", rec.ID).Warnf("dropping review with invalid submitted_at %q", rec.SubmittedAt)
				continue
			}
			submittedAt = parsed
		}

		events = append(events, models.ReviewEvent{
			ID:          rec.ID,
			Reviewer:    rec.User.Login,
			Kind:        reviewKind(rec.State),
			SubmittedAt: submittedAt,
		})
	}
	return events
}

// Comments converts raw comment records, dropping malformed ones.
func (n *Normalizer) Comments(recs []github.CommentRecord) []models.Comment {
	comments := make([]models.Comment, 0, len(recs))
	seen := make(map[int64]struct{}, len(recs))

	for _, rec := range recs {
		if rec.ID == 0 || rec.User.Login == "" {
			n.log.WithFields(logrus.Fields{"id": rec.ID, "author": rec.User.Login}).
				Warn("dropping malformed comment record")
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}

		var createdAt time.Time
		if rec.CreatedAt != "" {
			parsed, err := time.Parse(time.RFC3339, rec.CreatedAt)
			if err != nil {
				n.log.WithField("id", rec.ID).Warnf("dropping comment with invalid created_at %q", rec.CreatedAt)
				continue
			}
			createdAt = parsed
		}

		comments = append(comments, models.Comment{
			ID:        rec.ID,
			Author:    rec.User.Login,
			CreatedAt: createdAt,
		})
	}
	return comments
}

// reviewKind maps API review states onto review kinds. Unknown states
// count as plain commented reviews rather than being dropped.
func reviewKind(state string) models.ReviewKind {
	switch strings.ToUpper(state) {
	case "APPROVED":
		return models.KindApproved
	case "CHANGES_REQUESTED":
		return models.KindChangesRequested
	case "DISMISSED":
		return models.KindDismissed
	default:
		return models.KindCommented
	}
}
