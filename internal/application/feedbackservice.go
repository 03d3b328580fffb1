package application

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
	"github.com/arkadiy-sm/pr2cursor/internal/domain/port/driven"
)

// FeedbackService assembles the actionable feedback list for a single pull
// request. It depends only on the GitHubClient port.
type FeedbackService struct {
	gh     driven.GitHubClient
	logger *slog.Logger
}

// NewFeedbackService creates a FeedbackService backed by the given client.
func NewFeedbackService(gh driven.GitHubClient) *FeedbackService {
	return &FeedbackService{
		gh:     gh,
		logger: slog.Default(),
	}
}

// Collect fetches the PR's metadata and its three feedback sources, runs the
// normalization pipeline, and returns the chronologically ordered feedback
// list. A failed PR metadata fetch is fatal; a failed fetch of any single
// feedback source degrades to an empty record set for that source (e.g. the
// thread fetch failing on insufficient token scope must not abort the run).
func (s *FeedbackService) Collect(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, []model.FeedbackComment, error) {
	pr, err := s.gh.FetchPullRequest(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching pull request %s#%d: %w", repoFullName, prNumber, err)
	}

	// The three sources have no ordering dependency; fetch them in parallel.
	// Each goroutine degrades its own failure rather than returning an
	// error, so one source cannot cancel the others.
	var (
		reviews      []model.Review
		conversation []model.ConversationComment
		threads      []model.ReviewThread
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		if reviews, fetchErr = s.gh.FetchReviews(gctx, repoFullName, prNumber); fetchErr != nil {
			s.logger.Warn("review fetch failed, continuing without reviews", "repo", repoFullName, "pr", prNumber, "error", fetchErr)
			reviews = nil
		}
		return nil
	})
	g.Go(func() error {
		var fetchErr error
		if conversation, fetchErr = s.gh.FetchConversation(gctx, repoFullName, prNumber); fetchErr != nil {
			s.logger.Warn("conversation fetch failed, continuing without conversation comments", "repo", repoFullName, "pr", prNumber, "error", fetchErr)
			conversation = nil
		}
		return nil
	})
	g.Go(func() error {
		var fetchErr error
		if threads, fetchErr = s.gh.FetchReviewThreads(gctx, repoFullName, prNumber); fetchErr != nil {
			s.logger.Warn("review thread fetch failed, continuing without inline threads", "repo", repoFullName, "pr", prNumber, "error", fetchErr)
			threads = nil
		}
		return nil
	})
	_ = g.Wait()

	boundary := LastAuthorActivity(pr.Author, conversation, threads)

	comments := MergeChronological(
		NormalizeReviews(reviews, pr.Author, boundary),
		NormalizeConversation(conversation, pr.Author, boundary),
		NormalizeThreads(threads, pr.Author),
	)

	s.logger.Debug("feedback collected",
		"repo", repoFullName,
		"pr", prNumber,
		"reviews", len(reviews),
		"conversation", len(conversation),
		"threads", len(threads),
		"actionable", len(comments),
	)

	return pr, comments, nil
}
