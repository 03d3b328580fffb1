package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $pr: Int!, $cursor: String) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: 100, after: $cursor) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					id
					path
					line
					originalLine
					isResolved
					isOutdated
					comments(first: 100) {
						nodes {
							databaseId
							author { login }
							body
							createdAt
							url
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// threadsResponse represents the expected shape of a GitHub GraphQL response
// for the review threads query.
type threadsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []threadNode `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type threadNode struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	Line         *int   `json:"line"`
	OriginalLine *int   `json:"originalLine"`
	IsResolved   bool   `json:"isResolved"`
	IsOutdated   bool   `json:"isOutdated"`
	Comments     struct {
		Nodes []threadCommentNode `json:"nodes"`
	} `json:"comments"`
}

type threadCommentNode struct {
	DatabaseID int64 `json:"databaseId"`
	Author     *struct {
		Login string `json:"login"`
	} `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

// FetchReviewThreads queries the GitHub GraphQL API for the PR's inline
// review threads. GraphQL is the only API that exposes thread resolution and
// outdated status alongside the thread's comments. Pagination follows the
// endCursor until exhausted.
//
// Unlike REST calls, a GraphQL failure here propagates to the caller; the
// service layer decides whether to degrade (it does: a missing token scope
// must not abort the whole run).
func (c *Client) FetchReviewThreads(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewThread, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	var allThreads []model.ReviewThread
	var cursor *string

	for {
		variables := map[string]any{
			"owner": owner,
			"repo":  repo,
			"pr":    prNumber,
		}
		if cursor != nil {
			variables["cursor"] = *cursor
		}

		resp, err := c.postGraphQL(ctx, graphqlRequest{Query: reviewThreadsQuery, Variables: variables})
		if err != nil {
			return nil, fmt.Errorf("fetching review threads for %s#%d: %w", repoFullName, prNumber, err)
		}

		threads := resp.Data.Repository.PullRequest.ReviewThreads
		for _, node := range threads.Nodes {
			allThreads = append(allThreads, mapReviewThread(node))
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		next := threads.PageInfo.EndCursor
		cursor = &next
	}

	return allThreads, nil
}

// postGraphQL sends one GraphQL request and decodes the threads response.
func (c *Client) postGraphQL(ctx context.Context, req graphqlRequest) (*threadsResponse, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating graphql request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.graphqlHTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql: unexpected status %d", resp.StatusCode)
	}

	var gqlResp threadsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("graphql: %s", gqlResp.Errors[0].Message)
	}

	return &gqlResp, nil
}

// mapReviewThread converts a GraphQL thread node to a domain model
// ReviewThread, preserving comment order (GraphQL returns replies in
// chronological order within the thread).
func mapReviewThread(node threadNode) model.ReviewThread {
	comments := make([]model.ThreadComment, 0, len(node.Comments.Nodes))
	for _, cn := range node.Comments.Nodes {
		var author *string
		if cn.Author != nil {
			login := cn.Author.Login
			author = &login
		}
		comments = append(comments, model.ThreadComment{
			ID:        cn.DatabaseID,
			Author:    author,
			Body:      cn.Body,
			CreatedAt: cn.CreatedAt,
			URL:       cn.URL,
		})
	}

	return model.ReviewThread{
		ID:           node.ID,
		Path:         node.Path,
		Line:         node.Line,
		OriginalLine: node.OriginalLine,
		IsResolved:   node.IsResolved,
		IsOutdated:   node.IsOutdated,
		Comments:     comments,
	}
}
