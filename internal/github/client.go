package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"
)

const perPage = 100

// Client wraps GitHub API clients
type Client struct {
	rest api.RESTClient
	gql  api.GraphQLClient
}

func NewClient() (*Client, error) {
	restClient, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.DefaultGraphQLClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	return &Client{
		rest: *restClient,
		gql:  *gqlClient,
	}, nil
}

// CurrentUserLogin fetches the authenticated user's login
func (c *Client) CurrentUserLogin() (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.rest.Get("user", &user); err != nil {
		return "", fmt.Errorf("failed to fetch current user: %w", err)
	}
	return user.Login, nil
}

// SearchPullRequests fetches all PRs of a repository created since the
// given date, open and closed alike, using GraphQL search.
func (c *Client) SearchPullRequests(repo string, since time.Time) ([]PullRequestRecord, error) {
	query := fmt.Sprintf("repo:%s is:pr created:>=%s sort:created-desc", repo, since.Format("2006-01-02"))
	records, err := c.searchPRs(query)
	if err != nil {
		return nil, &FetchError{Repo: repo, Op: "search pull requests", Err: err}
	}
	return records, nil
}

// ListOpenPullRequests fetches the currently open PRs of a repository.
func (c *Client) ListOpenPullRequests(repo string) ([]PullRequestRecord, error) {
	query := fmt.Sprintf("repo:%s is:pr state:open sort:created-desc", repo)
	records, err := c.searchPRs(query)
	if err != nil {
		return nil, &FetchError{Repo: repo, Op: "list open pull requests", Err: err}
	}
	return records, nil
}

// searchPRs walks all pages of a GraphQL PR search.
func (c *Client) searchPRs(query string) ([]PullRequestRecord, error) {
	var records []PullRequestRecord
	var cursor *graphql.String

	for {
		var q struct {
			Search struct {
				Nodes []struct {
					PullRequest struct {
						Number    int
						Title     string
						State     string
						IsDraft   bool
						URL       string
						CreatedAt string
						Author    struct {
							Login string
						}
					} `graphql:"... on PullRequest"`
				}
				PageInfo struct {
					HasNextPage bool
					EndCursor   string
				}
			} `graphql:"search(type: ISSUE, query: $query, first: $first, after: $endCursor)"`
		}

		variables := map[string]interface{}{
			"query":     graphql.String(query),
			"first":     graphql.Int(perPage),
			"endCursor": cursor,
		}

		if err := c.gql.Query("", &q, variables); err != nil {
			return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
		}

		for _, node := range q.Search.Nodes {
			pr := node.PullRequest
			records = append(records, PullRequestRecord{
				Number:    pr.Number,
				Title:     pr.Title,
				State:     normalizeSearchState(pr.State),
				Draft:     pr.IsDraft,
				HTMLURL:   pr.URL,
				User:      UserRecord{Login: pr.Author.Login},
				CreatedAt: pr.CreatedAt,
			})
		}

		if !q.Search.PageInfo.HasNextPage {
			break
		}
		next := graphql.String(q.Search.PageInfo.EndCursor)
		cursor = &next
	}
	return records, nil
}

// normalizeSearchState maps GraphQL PR states onto REST-style states.
// MERGED collapses into closed.
func normalizeSearchState(state string) string {
	switch strings.ToUpper(state) {
	case "OPEN":
		return "open"
	default:
		return "closed"
	}
}

// PullRequestDetail fetches the full PR payload, including line counts
// and the requested-reviewers set that listing endpoints omit.
func (c *Client) PullRequestDetail(repo string, number int) (PullRequestRecord, error) {
	var record PullRequestRecord
	path := fmt.Sprintf("repos/%s/pulls/%d", repo, number)
	if err := c.rest.Get(path, &record); err != nil {
		return PullRequestRecord{}, &FetchError{Repo: repo, Number: number, Op: "fetch pull request detail", Err: err}
	}
	return record, nil
}

// ListReviews fetches all submitted reviews on a PR, bot users excluded.
func (c *Client) ListReviews(repo string, number int) ([]ReviewRecord, error) {
	var reviews []ReviewRecord
	basePath := fmt.Sprintf("repos/%s/pulls/%d/reviews", repo, number)

	for page := 1; ; page++ {
		var batch []ReviewRecord
		path := fmt.Sprintf("%s?per_page=%d&page=%d", basePath, perPage, page)
		if err := c.rest.Get(path, &batch); err != nil {
			return nil, &FetchError{Repo: repo, Number: number, Op: "fetch reviews", Err: err}
		}
		for _, review := range batch {
			if isBot(review.User) {
				continue
			}
			reviews = append(reviews, review)
		}
		if len(batch) < perPage {
			break
		}
	}
	return reviews, nil
}

// ListComments fetches all review comments on a PR, bot users excluded.
func (c *Client) ListComments(repo string, number int) ([]CommentRecord, error) {
	var comments []CommentRecord
	basePath := fmt.Sprintf("repos/%s/pulls/%d/comments", repo, number)

	for page := 1; ; page++ {
		var batch []CommentRecord
		path := fmt.Sprintf("%s?per_page=%d&page=%d", basePath, perPage, page)
		if err := c.rest.Get(path, &batch); err != nil {
			return nil, &FetchError{Repo: repo, Number: number, Op: "fetch comments", Err: err}
		}
		for _, comment := range batch {
			if isBot(comment.User) {
				continue
			}
			comments = append(comments, comment)
		}
		if len(batch) < perPage {
			break
		}
	}
	return comments, nil
}

// isBot reports whether an account is an automation account rather
// than a human collaborator.
func isBot(user UserRecord) bool {
	return strings.HasSuffix(user.Login, "[bot]") || user.Type == "Bot"
}
