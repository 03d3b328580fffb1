package application

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

// NormalizeReviews reduces raw review submissions to at most one feedback
// comment per reviewer, carrying that reviewer's latest verdict. Reviews by
// the PR author, by bots, by deleted accounts, and reviews predating the
// activity boundary are dropped. A bare approval carries no actionable
// feedback and is dropped; a body-less changes-requested verdict survives
// with a synthetic placeholder body.
func NormalizeReviews(reviews []model.Review, prAuthor string, boundary *time.Time) []model.FeedbackComment {
	// Latest verdict per reviewer. Selection never relies on input order:
	// a review without a submission time loses every comparison.
	latest := make(map[string]model.Review)
	for _, r := range reviews {
		if r.Author == nil {
			continue
		}
		author := *r.Author
		if author == prAuthor || IsBot(author) {
			continue
		}
		if boundary != nil && r.SubmittedAt != nil && !r.SubmittedAt.After(*boundary) {
			continue
		}
		if current, ok := latest[author]; !ok || submittedLater(r, current) {
			latest[author] = r
		}
	}

	out := make([]model.FeedbackComment, 0, len(latest))
	for author, r := range latest {
		body := strings.TrimSpace(r.Body)
		if body == "" {
			if r.State != model.ReviewStateChangesRequested {
				continue
			}
			body = fmt.Sprintf("Review verdict: %s (no summary text provided)", r.State)
		}

		fc := model.FeedbackComment{
			ID:     fmt.Sprintf("review-%d", r.ID),
			Kind:   model.CommentKindReviewSummary,
			Author: author,
			State:  r.State,
			Body:   body,
			URL:    r.URL,
		}
		if r.SubmittedAt != nil {
			fc.CreatedAt = *r.SubmittedAt
		}
		out = append(out, fc)
	}

	// Map iteration order is random; fix a deterministic order so repeated
	// runs over the same input produce identical output.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Author < out[j].Author
	})

	return out
}

// submittedLater reports whether candidate supersedes current as the
// reviewer's most recent verdict.
func submittedLater(candidate, current model.Review) bool {
	if candidate.SubmittedAt == nil {
		return false
	}
	if current.SubmittedAt == nil {
		return true
	}
	return candidate.SubmittedAt.After(*current.SubmittedAt)
}

// NormalizeConversation maps PR-level discussion comments into feedback
// comments, dropping comments without an author or body, comments by the
// PR author or by bots, and comments at or before the activity boundary.
func NormalizeConversation(comments []model.ConversationComment, prAuthor string, boundary *time.Time) []model.FeedbackComment {
	var out []model.FeedbackComment
	for _, c := range comments {
		if c.Author == nil || c.Body == nil {
			continue
		}
		body := strings.TrimSpace(*c.Body)
		if body == "" {
			continue
		}
		author := *c.Author
		if author == prAuthor || IsBot(author) {
			continue
		}
		if boundary != nil && !c.CreatedAt.After(*boundary) {
			continue
		}

		out = append(out, model.FeedbackComment{
			ID:        fmt.Sprintf("conversation-%d", c.ID),
			Kind:      model.CommentKindConversation,
			Author:    author,
			CreatedAt: c.CreatedAt,
			Body:      body,
			URL:       c.URL,
		})
	}
	return out
}

// NormalizeThreads reduces each inline review thread to at most one feedback
// comment: the latest message in the thread that is still awaiting a reply
// from the PR author. Resolved and outdated threads are dropped entirely.
//
// The boundary here is per thread, not the global activity boundary: the PR
// author's reply in one thread says nothing about feedback in another. Only
// the author's latest message within this exact thread clears the messages
// that precede it.
func NormalizeThreads(threads []model.ReviewThread, prAuthor string) []model.FeedbackComment {
	var out []model.FeedbackComment
	for _, th := range threads {
		if th.IsResolved || th.IsOutdated {
			continue
		}

		var authorLastReply *time.Time
		for _, m := range th.Comments {
			if m.Author != nil && *m.Author == prAuthor {
				if authorLastReply == nil || m.CreatedAt.After(*authorLastReply) {
					ts := m.CreatedAt
					authorLastReply = &ts
				}
			}
		}

		// The last surviving candidate in reply order represents the thread.
		var representative *model.ThreadComment
		for i := range th.Comments {
			m := &th.Comments[i]
			if m.Author == nil {
				continue
			}
			if *m.Author == prAuthor || IsBot(*m.Author) {
				continue
			}
			if authorLastReply != nil && !m.CreatedAt.After(*authorLastReply) {
				continue
			}
			if strings.TrimSpace(m.Body) == "" {
				continue
			}
			representative = m
		}
		if representative == nil {
			// Fully addressed: every remaining message predates the author's
			// latest reply in this thread.
			continue
		}

		line := th.Line
		if line == nil {
			line = th.OriginalLine
		}

		out = append(out, model.FeedbackComment{
			ID:        fmt.Sprintf("inline-%d", representative.ID),
			Kind:      model.CommentKindInline,
			Author:    *representative.Author,
			CreatedAt: representative.CreatedAt,
			Path:      th.Path,
			Line:      line,
			Resolved:  false,
			Body:      strings.TrimSpace(representative.Body),
			URL:       representative.URL,
		})
	}
	return out
}

// MergeChronological concatenates the normalized lists and stable-sorts
// them by timestamp ascending. Comments without a timestamp (zero value)
// sort before everything else. No cross-stream deduplication happens here:
// IDs are namespaced per source kind, so collisions cannot occur.
func MergeChronological(lists ...[]model.FeedbackComment) []model.FeedbackComment {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]model.FeedbackComment, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})

	return merged
}
