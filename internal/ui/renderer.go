package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/tobikm/gh-review-balance/internal/analyzer"
	"github.com/tobikm/gh-review-balance/internal/models"
)

const (
	colorGreen  = "\033[92m"
	colorYellow = "\033[93m"
	colorRed    = "\033[91m"
	colorCyan   = "\033[96m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

// Deficits past this many lines switch from yellow to red.
const overdueLines = -1000

// Renderer writes a report as a colored terminal summary.
type Renderer struct {
	out   io.Writer
	color bool
}

func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

func (r *Renderer) Render(report analyzer.Report) {
	r.section(fmt.Sprintf("REVIEW SUMMARY FOR %s", report.Viewer))

	if len(report.Rows) == 0 {
		fmt.Fprintln(r.out, "\nNo review activity found.")
	} else {
		r.renderBalanceTable(report.Rows)
	}

	r.renderOpenPRs(report)

	if len(report.Rows) > 0 {
		r.renderTotals(report.Totals)
	}
	r.renderSkipped(report.SkippedRepos)
}

func (r *Renderer) section(title string) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", rule, title, rule)
}

func (r *Renderer) paint(color, s string) string {
	if !r.color || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *Renderer) renderBalanceTable(rows []analyzer.Row) {
	r.section("REVIEW BALANCE & NEXT ACTIONS")

	fmt.Fprintln(r.out, "\nReview Balance (lines reviewed):")
	fmt.Fprintf(r.out, "%s %-10s %-12s %-12s %-25s %-25s %-15s %s\n",
		PadRight("User", 20), "Total PRs", "Their PRs", "My PRs",
		"They reviewed", "I reviewed", "Balance", "Action")
	fmt.Fprintln(r.out, strings.Repeat("-", 155))

	for _, row := range rows {
		r.renderBalanceRow(row)
	}
}

func (r *Renderer) renderBalanceRow(row analyzer.Row) {
	they := row.Stats.MyPRsTheyReviewed
	mine := row.Stats.TheirPRsIReviewed

	theyStr := fmt.Sprintf("+%s/-%s", Comma(they.Additions), Comma(they.Deletions))
	mineStr := fmt.Sprintf("+%s/-%s", Comma(mine.Additions), Comma(mine.Deletions))

	line := fmt.Sprintf("%s %-10d %-12d %-12d %-25s %-25s %-15s %s",
		PadRight(row.User, 20), row.Stats.TotalPRs(), mine.PRs, they.PRs,
		theyStr, mineStr, SignedComma(row.Balance.Lines), actionLabel(row.Balance.Action))
	fmt.Fprintln(r.out, r.paint(balanceColor(row.Balance.Lines), line))
}

func actionLabel(action models.Action) string {
	switch action {
	case models.ActionViewerShouldReview:
		return "-> I should review their PRs"
	case models.ActionCollaboratorShouldReview:
		return "<- They should review my PRs"
	default:
		return "Balanced"
	}
}

func balanceColor(balance int) string {
	switch {
	case balance == 0:
		return ""
	case balance > 0:
		return colorGreen
	case balance > overdueLines:
		return colorYellow
	default:
		return colorRed
	}
}

func (r *Renderer) renderOpenPRs(report analyzer.Report) {
	r.section("OPEN PRs THAT NEED YOUR REVIEW")

	total := 0
	for _, group := range report.OpenPRGroups {
		total += len(group.PRs)
	}

	if total == 0 {
		fmt.Fprintln(r.out, "\nNo open PRs found that need your review.")
		if report.OpenPRsFiltered > 0 {
			fmt.Fprintf(r.out, "(%d PR(s) filtered out due to review count threshold)\n", report.OpenPRsFiltered)
		}
		return
	}

	if report.OpenPRsFiltered > 0 {
		fmt.Fprintf(r.out, "\nYou have %d open PR(s) to review (%d filtered out by threshold):\n\n", total, report.OpenPRsFiltered)
	} else {
		fmt.Fprintf(r.out, "\nYou have %d open PR(s) to review:\n\n", total)
	}

	for _, group := range report.OpenPRGroups {
		r.renderOpenPRGroup(group)
	}
}

func (r *Renderer) renderOpenPRGroup(group analyzer.OpenPRGroup) {
	color := balanceColor(group.Balance)
	heading := fmt.Sprintf("From %s:", group.Author)
	if group.Balance > 0 {
		heading = fmt.Sprintf("From %s (Priority: You owe them %s lines):", group.Author, Comma(group.Balance))
	}
	fmt.Fprintln(r.out, r.paint(color, heading))

	for _, pr := range group.PRs {
		prColor := color
		marker := ""
		if pr.ReviewRequested {
			prColor = colorCyan + colorBold
			marker = " " + r.paint(colorCyan+colorBold, "[REVIEW REQUESTED]")
		}
		fmt.Fprintf(r.out, "  %s%s\n",
			r.paint(prColor, fmt.Sprintf("* [%s] #%d: %s", ShortRepo(pr.Repo), pr.Number, pr.Title)), marker)
		fmt.Fprintf(r.out, "    %s (+%s / -%s lines) [%d review(s)]\n",
			pr.URL, Comma(pr.Additions), Comma(pr.Deletions), pr.ReviewCount)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderTotals(totals analyzer.Totals) {
	r.section("OVERALL STATISTICS")

	fmt.Fprintf(r.out, "\nTotal PRs I reviewed: %d\n", totals.PRsIReviewed)
	fmt.Fprintf(r.out, "Total PRs others reviewed of mine: %d\n", totals.PRsTheyReviewed)
	fmt.Fprintf(r.out, "\nTotal lines I reviewed: %s\n", Comma(totals.LinesIReviewed()))
	fmt.Fprintf(r.out, "  +lines: %s\n", Comma(totals.AdditionsIReviewed))
	fmt.Fprintf(r.out, "  -lines: %s\n", Comma(totals.DeletionsIReviewed))
	fmt.Fprintf(r.out, "\nTotal lines others reviewed: %s\n", Comma(totals.LinesTheyReviewed()))
	fmt.Fprintf(r.out, "  +lines: %s\n", Comma(totals.AdditionsTheyReviewed))
	fmt.Fprintf(r.out, "  -lines: %s\n", Comma(totals.DeletionsTheyReviewed))
	fmt.Fprintf(r.out, "\nNumber of collaborators: %d\n", totals.Collaborators)
}

func (r *Renderer) renderSkipped(repos []string) {
	if len(repos) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\nSkipped %d repositor%s due to fetch errors:\n", len(repos), pluralY(len(repos)))
	for _, repo := range repos {
		fmt.Fprintf(r.out, "  - %s\n", repo)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
