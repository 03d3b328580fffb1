package driven

import (
	"context"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

// GitHubClient defines the driven port for fetching pull request feedback
// from the GitHub API. All methods return already-materialized records; the
// feedback pipeline never performs I/O itself.
type GitHubClient interface {
	// FetchPullRequest returns the PR's identity and metadata.
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	// FetchReviews returns all submitted reviews on the PR. Pending
	// (unsubmitted) reviews are excluded.
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
	// FetchConversation returns all PR-level discussion comments
	// (via the Issues API).
	FetchConversation(ctx context.Context, repoFullName string, prNumber int) ([]model.ConversationComment, error)
	// FetchReviewThreads returns all inline review threads with their
	// comments in reply order. This data comes from the GitHub GraphQL API,
	// which is the only source of thread resolution and outdated status.
	FetchReviewThreads(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewThread, error)
}
