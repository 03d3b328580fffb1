package application

import (
	"time"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

// LastAuthorActivity returns the most recent timestamp at which the PR
// author posted anything, whether a conversation comment or a reply inside any
// review thread. Returns nil when the author never posted.
//
// Feedback at or before this point has already been seen and responded to,
// so re-running the tool after partial progress only surfaces feedback
// strictly newer than the author's latest response.
func LastAuthorActivity(prAuthor string, conversation []model.ConversationComment, threads []model.ReviewThread) *time.Time {
	var latest *time.Time

	consider := func(t time.Time) {
		if latest == nil || t.After(*latest) {
			ts := t
			latest = &ts
		}
	}

	for _, c := range conversation {
		if c.Author != nil && *c.Author == prAuthor {
			consider(c.CreatedAt)
		}
	}
	for _, th := range threads {
		for _, m := range th.Comments {
			if m.Author != nil && *m.Author == prAuthor {
				consider(m.CreatedAt)
			}
		}
	}

	return latest
}
