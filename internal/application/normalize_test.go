package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkadiy-sm/pr2cursor/internal/application"
	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func review(id int64, author string, state model.ReviewState, body string, submittedAt *time.Time) model.Review {
	return model.Review{
		ID:          id,
		Author:      strPtr(author),
		State:       state,
		Body:        body,
		SubmittedAt: submittedAt,
	}
}

func TestNormalizeReviews_DiscardRules(t *testing.T) {
	boundary := timePtr(at(10))

	tests := []struct {
		name    string
		reviews []model.Review
	}{
		{
			name:    "no author",
			reviews: []model.Review{{ID: 1, State: model.ReviewStateCommented, Body: "x", SubmittedAt: timePtr(at(20))}},
		},
		{
			name:    "bot author",
			reviews: []model.Review{review(2, "coderabbitai[bot]", model.ReviewStateCommented, "nit", timePtr(at(20)))},
		},
		{
			name:    "pr author",
			reviews: []model.Review{review(3, "alice", model.ReviewStateCommented, "note to self", timePtr(at(20)))},
		},
		{
			name:    "at the boundary",
			reviews: []model.Review{review(4, "bob", model.ReviewStateCommented, "old", timePtr(at(10)))},
		},
		{
			name:    "before the boundary",
			reviews: []model.Review{review(5, "bob", model.ReviewStateCommented, "older", timePtr(at(5)))},
		},
		{
			name:    "bare approval",
			reviews: []model.Review{review(6, "bob", model.ReviewStateApproved, "", timePtr(at(20)))},
		},
		{
			name:    "empty commented verdict",
			reviews: []model.Review{review(7, "bob", model.ReviewStateCommented, "  ", timePtr(at(20)))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := application.NormalizeReviews(tt.reviews, "alice", boundary)
			assert.Empty(t, got)
		})
	}
}

func TestNormalizeReviews_LatestVerdictWins(t *testing.T) {
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateChangesRequested, "please fix the loop", timePtr(at(1))),
		review(2, "bob", model.ReviewStateApproved, "looks great now", timePtr(at(5))),
	}

	got := application.NormalizeReviews(reviews, "alice", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "review-2", got[0].ID)
	assert.Equal(t, model.ReviewStateApproved, got[0].State)
	assert.Equal(t, "looks great now", got[0].Body)
}

func TestNormalizeReviews_LatestWinsRegardlessOfInputOrder(t *testing.T) {
	reviews := []model.Review{
		review(2, "bob", model.ReviewStateApproved, "looks great now", timePtr(at(5))),
		review(1, "bob", model.ReviewStateChangesRequested, "please fix the loop", timePtr(at(1))),
	}

	got := application.NormalizeReviews(reviews, "alice", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "review-2", got[0].ID)
}

func TestNormalizeReviews_MissingTimestampLosesComparison(t *testing.T) {
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateChangesRequested, "with timestamp", timePtr(at(1))),
		review(2, "bob", model.ReviewStateCommented, "without timestamp", nil),
	}

	got := application.NormalizeReviews(reviews, "alice", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "review-1", got[0].ID)
}

func TestNormalizeReviews_NoTimestampKeptWhenBoundaryExists(t *testing.T) {
	// A verdict without a submission time cannot be compared against the
	// boundary; it is never excluded solely for lacking a timestamp.
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateChangesRequested, "timeless", nil),
	}

	got := application.NormalizeReviews(reviews, "alice", timePtr(at(10)))
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.IsZero())
}

func TestNormalizeReviews_BodylessChangesRequestedGetsPlaceholder(t *testing.T) {
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateChangesRequested, "", timePtr(at(1))),
	}

	got := application.NormalizeReviews(reviews, "alice", nil)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].Body)
	assert.Contains(t, got[0].Body, string(model.ReviewStateChangesRequested))
}

func TestNormalizeReviews_ApprovalWithBodyKept(t *testing.T) {
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateApproved, "approving, but consider renaming Foo", timePtr(at(1))),
	}

	got := application.NormalizeReviews(reviews, "alice", nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.CommentKindReviewSummary, got[0].Kind)
	assert.Equal(t, "bob", got[0].Author)
}

func TestNormalizeConversation_Filtering(t *testing.T) {
	boundary := timePtr(at(10))

	comments := []model.ConversationComment{
		{ID: 1, Author: nil, Body: strPtr("ghost"), CreatedAt: at(20)},                   // no author
		{ID: 2, Author: strPtr("bob"), Body: nil, CreatedAt: at(20)},                     // no body
		conversationComment(3, "bob", "   ", at(20)),                                     // blank body
		conversationComment(4, "dependabot[bot]", "bump lodash", at(20)),                 // bot
		conversationComment(5, "alice", "I pushed a fix", at(20)),                        // self
		conversationComment(6, "bob", "old remark", at(10)),                              // at boundary
		conversationComment(7, "bob", "older remark", at(3)),                             // before boundary
		conversationComment(8, "carol", "the error path still leaks the handle", at(12)), // survives
	}

	got := application.NormalizeConversation(comments, "alice", boundary)
	require.Len(t, got, 1)
	assert.Equal(t, "conversation-8", got[0].ID)
	assert.Equal(t, model.CommentKindConversation, got[0].Kind)
	assert.Equal(t, "carol", got[0].Author)
	assert.Equal(t, "the error path still leaks the handle", got[0].Body)
	assert.Empty(t, got[0].Path)
	assert.Nil(t, got[0].Line)
}

func TestNormalizeConversation_NoBoundaryKeepsEverything(t *testing.T) {
	comments := []model.ConversationComment{
		conversationComment(1, "bob", "first", at(1)),
		conversationComment(2, "carol", "second", at(2)),
	}

	got := application.NormalizeConversation(comments, "alice", nil)
	assert.Len(t, got, 2)
}

func TestNormalizeThreads_ResolvedAndOutdatedSuppressed(t *testing.T) {
	comments := []model.ThreadComment{threadComment(1, "bob", "fix this", at(1))}

	threads := []model.ReviewThread{
		{ID: "T1", Path: "a.go", IsResolved: true, Comments: comments},
		{ID: "T2", Path: "b.go", IsOutdated: true, Comments: comments},
	}

	got := application.NormalizeThreads(threads, "alice")
	assert.Empty(t, got)
}

func TestNormalizeThreads_AuthorReplyClearsEarlierMessages(t *testing.T) {
	// dave@T1, alice@T2, dave@T3: alice's reply restricts candidates to
	// messages after T2, leaving only dave's follow-up.
	thread := model.ReviewThread{
		ID:   "T1",
		Path: "pkg/foo.go",
		Line: intPtr(42),
		Comments: []model.ThreadComment{
			threadComment(1, "dave", "why this pattern?", at(1)),
			threadComment(2, "alice", "because X", at(2)),
			threadComment(3, "dave", "but what about Y?", at(3)),
		},
	}

	got := application.NormalizeThreads([]model.ReviewThread{thread}, "alice")
	require.Len(t, got, 1)
	assert.Equal(t, "inline-3", got[0].ID)
	assert.Equal(t, "dave", got[0].Author)
	assert.Equal(t, "but what about Y?", got[0].Body)
	assert.Equal(t, "pkg/foo.go", got[0].Path)
	require.NotNil(t, got[0].Line)
	assert.Equal(t, 42, *got[0].Line)
	assert.False(t, got[0].Resolved)
}

func TestNormalizeThreads_FullyAddressedThreadDropped(t *testing.T) {
	thread := model.ReviewThread{
		ID:   "T1",
		Path: "pkg/foo.go",
		Comments: []model.ThreadComment{
			threadComment(1, "dave", "why this pattern?", at(1)),
			threadComment(2, "alice", "because X", at(2)),
		},
	}

	got := application.NormalizeThreads([]model.ReviewThread{thread}, "alice")
	assert.Empty(t, got)
}

func TestNormalizeThreads_NoAuthorReplyKeepsLatestMessage(t *testing.T) {
	thread := model.ReviewThread{
		ID:   "T1",
		Path: "pkg/foo.go",
		Comments: []model.ThreadComment{
			threadComment(1, "dave", "first remark", at(1)),
			threadComment(2, "erin", "second remark", at(2)),
		},
	}

	got := application.NormalizeThreads([]model.ReviewThread{thread}, "alice")
	require.Len(t, got, 1)
	assert.Equal(t, "inline-2", got[0].ID)
	assert.Equal(t, "erin", got[0].Author)
}

func TestNormalizeThreads_GlobalReplyDoesNotClearOtherThread(t *testing.T) {
	// alice replies in thread A only; thread B's feedback must survive even
	// though it predates alice's reply elsewhere.
	threadA := model.ReviewThread{
		ID:   "A",
		Path: "a.go",
		Comments: []model.ThreadComment{
			threadComment(1, "dave", "remark in A", at(1)),
			threadComment(2, "alice", "fixed", at(5)),
		},
	}
	threadB := model.ReviewThread{
		ID:   "B",
		Path: "b.go",
		Comments: []model.ThreadComment{
			threadComment(3, "dave", "remark in B", at(2)),
		},
	}

	got := application.NormalizeThreads([]model.ReviewThread{threadA, threadB}, "alice")
	require.Len(t, got, 1)
	assert.Equal(t, "inline-3", got[0].ID)
}

func TestNormalizeThreads_LineFallsBackToOriginalLine(t *testing.T) {
	tests := []struct {
		name     string
		line     *int
		original *int
		want     *int
	}{
		{"current line present", intPtr(10), intPtr(4), intPtr(10)},
		{"original line fallback", nil, intPtr(4), intPtr(4)},
		{"no position", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thread := model.ReviewThread{
				ID:           "T1",
				Path:         "a.go",
				Line:         tt.line,
				OriginalLine: tt.original,
				Comments:     []model.ThreadComment{threadComment(1, "dave", "remark", at(1))},
			}

			got := application.NormalizeThreads([]model.ReviewThread{thread}, "alice")
			require.Len(t, got, 1)
			if tt.want == nil {
				assert.Nil(t, got[0].Line)
			} else {
				require.NotNil(t, got[0].Line)
				assert.Equal(t, *tt.want, *got[0].Line)
			}
		})
	}
}

func TestMergeChronological_Ordering(t *testing.T) {
	a := []model.FeedbackComment{
		{ID: "review-1", CreatedAt: at(5)},
		{ID: "review-2", CreatedAt: at(9)},
	}
	b := []model.FeedbackComment{
		{ID: "conversation-1", CreatedAt: at(7)},
		{ID: "conversation-2"}, // no timestamp; sorts first
	}
	c := []model.FeedbackComment{
		{ID: "inline-1", CreatedAt: at(6)},
	}

	got := application.MergeChronological(a, b, c)
	require.Len(t, got, 5)

	ids := make([]string, len(got))
	for i, fc := range got {
		ids[i] = fc.ID
	}
	assert.Equal(t, []string{"conversation-2", "review-1", "inline-1", "conversation-1", "review-2"}, ids)

	// Non-decreasing timestamps after the zero-valued front.
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt))
	}
}

func TestMergeChronological_StableOnEqualTimestamps(t *testing.T) {
	a := []model.FeedbackComment{{ID: "review-1", CreatedAt: at(1)}}
	b := []model.FeedbackComment{{ID: "conversation-1", CreatedAt: at(1)}}

	got := application.MergeChronological(a, b)
	require.Len(t, got, 2)
	assert.Equal(t, "review-1", got[0].ID)
	assert.Equal(t, "conversation-1", got[1].ID)
}

func TestMergeChronological_EmptyInput(t *testing.T) {
	got := application.MergeChronological(nil, nil, nil)
	assert.Empty(t, got)
}

// Scenario from the tool's intended workflow: bob requests changes, alice
// replies in the conversation, carol comments afterwards. Only carol's
// comment is still awaiting a response.
func TestPipeline_BoundaryClearsPreReplyFeedback(t *testing.T) {
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateChangesRequested, "fix the null check", timePtr(at(1))),
	}
	conversation := []model.ConversationComment{
		conversationComment(10, "alice", "fixed in the latest push", at(2)),
		conversationComment(11, "carol", "looks good now", at(3)),
	}

	boundary := application.LastAuthorActivity("alice", conversation, nil)
	require.NotNil(t, boundary)
	require.True(t, boundary.Equal(at(2)))

	got := application.MergeChronological(
		application.NormalizeReviews(reviews, "alice", boundary),
		application.NormalizeConversation(conversation, "alice", boundary),
		application.NormalizeThreads(nil, "alice"),
	)

	require.Len(t, got, 1)
	assert.Equal(t, "conversation-11", got[0].ID)
	assert.Equal(t, "carol", got[0].Author)
}

func TestPipeline_InvariantsHold(t *testing.T) {
	reviews := []model.Review{
		review(1, "bob", model.ReviewStateChangesRequested, "fix the null check", timePtr(at(1))),
		review(2, "renovate[bot]", model.ReviewStateCommented, "dependency dashboard", timePtr(at(2))),
		{ID: 3, State: model.ReviewStateCommented, Body: "orphaned", SubmittedAt: timePtr(at(3))},
	}
	conversation := []model.ConversationComment{
		conversationComment(10, "carol", "nice work", at(4)),
		conversationComment(11, "alice", "thanks", at(5)),
	}
	threads := []model.ReviewThread{
		{
			ID:   "T1",
			Path: "a.go",
			Comments: []model.ThreadComment{
				threadComment(20, "dave", "this races", at(6)),
			},
		},
	}

	boundary := application.LastAuthorActivity("alice", conversation, threads)
	got := application.MergeChronological(
		application.NormalizeReviews(reviews, "alice", boundary),
		application.NormalizeConversation(conversation, "alice", boundary),
		application.NormalizeThreads(threads, "alice"),
	)

	for _, fc := range got {
		assert.NotEmpty(t, fc.Body)
		assert.NotEqual(t, "alice", fc.Author)
		assert.False(t, application.IsBot(fc.Author))
		assert.False(t, fc.IsBot)
		assert.NotEmpty(t, fc.ID)
	}
}

func TestPipeline_IdempotentOnUnchangedInput(t *testing.T) {
	run := func() []model.FeedbackComment {
		reviews := []model.Review{
			review(1, "bob", model.ReviewStateChangesRequested, "fix the null check", timePtr(at(1))),
			review(2, "carol", model.ReviewStateCommented, "typo in docs", timePtr(at(1))),
		}
		conversation := []model.ConversationComment{
			conversationComment(10, "erin", "anything blocking?", at(2)),
		}
		threads := []model.ReviewThread{
			{
				ID:   "T1",
				Path: "a.go",
				Comments: []model.ThreadComment{
					threadComment(20, "dave", "this races", at(3)),
				},
			},
		}

		boundary := application.LastAuthorActivity("alice", conversation, threads)
		return application.MergeChronological(
			application.NormalizeReviews(reviews, "alice", boundary),
			application.NormalizeConversation(conversation, "alice", boundary),
			application.NormalizeThreads(threads, "alice"),
		)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestPipeline_EmptyInputProducesEmptyOutput(t *testing.T) {
	boundary := application.LastAuthorActivity("alice", nil, nil)
	got := application.MergeChronological(
		application.NormalizeReviews(nil, "alice", boundary),
		application.NormalizeConversation(nil, "alice", boundary),
		application.NormalizeThreads(nil, "alice"),
	)
	assert.Empty(t, got)
}
