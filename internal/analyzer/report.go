package analyzer

import (
	"sort"

	"github.com/tobikm/gh-review-balance/internal/models"
)

// Row is one collaborator line in the balance table.
type Row struct {
	User    string
	Stats   models.ReviewStats
	Balance models.Balance
}

// OpenPRGroup bundles the open PRs of one author, carrying the
// author's balance so groups can be prioritized by debt.
type OpenPRGroup struct {
	Author  string
	Balance int
	PRs     []models.OpenPullRequest
}

// Totals aggregates across the whole collaborator table. Every field
// is computed by summing the report's own rows, never re-aggregated
// from raw data, so totals always equal the sum of row totals.
type Totals struct {
	Collaborators         int
	PRsIReviewed          int
	PRsTheyReviewed       int
	AdditionsIReviewed    int
	DeletionsIReviewed    int
	AdditionsTheyReviewed int
	DeletionsTheyReviewed int
}

// LinesIReviewed is the total line count the viewer reviewed.
func (t Totals) LinesIReviewed() int {
	return t.AdditionsIReviewed + t.DeletionsIReviewed
}

// LinesTheyReviewed is the total line count reviewed by collaborators.
func (t Totals) LinesTheyReviewed() int {
	return t.AdditionsTheyReviewed + t.DeletionsTheyReviewed
}

// Report is the assembled model handed to the renderer.
type Report struct {
	Viewer          string
	Rows            []Row
	OpenPRGroups    []OpenPRGroup
	OpenPRsFiltered int
	Totals          Totals
	SkippedRepos    []string
}

// ReportOptions selects ordering and filtering of the assembled report.
type ReportOptions struct {
	SortBy          string
	ReviewThreshold int
	AuthorsOnly     bool
}

// BuildReport combines accumulated statistics, the open-PR candidate
// list and any skipped repositories into the final report model.
func BuildReport(viewer string, stats map[string]models.ReviewStats, openPRs []models.OpenPullRequest, skippedRepos []string, opts ReportOptions) Report {
	rows := make([]Row, 0, len(stats))
	for user, st := range stats {
		sortRefs(st.TheirPRs)
		sortRefs(st.MyPRs)
		rows = append(rows, Row{
			User:    user,
			Stats:   st,
			Balance: ComputeBalance(st),
		})
	}

	SortRows(rows, opts.SortBy)
	if opts.AuthorsOnly {
		rows = FilterAuthors(rows)
	}

	kept, excluded := FilterOpenPRs(openPRs, opts.ReviewThreshold)

	report := Report{
		Viewer:          viewer,
		Rows:            rows,
		OpenPRGroups:    groupOpenPRs(kept, rows),
		OpenPRsFiltered: excluded,
		SkippedRepos:    skippedRepos,
	}
	report.Totals = sumRows(rows)
	return report
}

// sumRows derives the overall totals purely from the table rows.
func sumRows(rows []Row) Totals {
	totals := Totals{Collaborators: len(rows)}
	for _, row := range rows {
		totals.PRsIReviewed += row.Stats.TheirPRsIReviewed.PRs
		totals.PRsTheyReviewed += row.Stats.MyPRsTheyReviewed.PRs
		totals.AdditionsIReviewed += row.Stats.TheirPRsIReviewed.Additions
		totals.DeletionsIReviewed += row.Stats.TheirPRsIReviewed.Deletions
		totals.AdditionsTheyReviewed += row.Stats.MyPRsTheyReviewed.Additions
		totals.DeletionsTheyReviewed += row.Stats.MyPRsTheyReviewed.Deletions
	}
	return totals
}

// groupOpenPRs buckets the actionable PRs by author and orders the
// groups by that author's balance descending: highest debt first.
// Authors without a balance row sort as zero.
func groupOpenPRs(prs []models.OpenPullRequest, rows []Row) []OpenPRGroup {
	balances := make(map[string]int, len(rows))
	for _, row := range rows {
		balances[row.User] = row.Balance.Lines
	}

	byAuthor := make(map[string][]models.OpenPullRequest)
	for _, pr := range prs {
		byAuthor[pr.Author] = append(byAuthor[pr.Author], pr)
	}

	groups := make([]OpenPRGroup, 0, len(byAuthor))
	for author, authorPRs := range byAuthor {
		sort.Slice(authorPRs, func(i, j int) bool {
			if authorPRs[i].Repo != authorPRs[j].Repo {
				return authorPRs[i].Repo < authorPRs[j].Repo
			}
			return authorPRs[i].Number < authorPRs[j].Number
		})
		groups = append(groups, OpenPRGroup{
			Author:  author,
			Balance: balances[author],
			PRs:     authorPRs,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Balance != groups[j].Balance {
			return groups[i].Balance > groups[j].Balance
		}
		return groups[i].Author < groups[j].Author
	})
	return groups
}

func sortRefs(refs []models.PRRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Repo != refs[j].Repo {
			return refs[i].Repo < refs[j].Repo
		}
		return refs[i].Number < refs[j].Number
	})
}
