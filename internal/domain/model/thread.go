package model

import "time"

// ReviewThread is a feedback conversation anchored to a file position in
// the pull request's diff. Comments are kept in reply order, which is the
// chronological order within the thread.
type ReviewThread struct {
	ID           string // GraphQL node ID.
	Path         string
	Line         *int // nil when the anchored code has moved out of the diff.
	OriginalLine *int // Fallback position from when the thread was opened.
	IsResolved   bool
	IsOutdated   bool // True when the underlying code has changed since the thread started.
	Comments     []ThreadComment
}

// ThreadComment is a single message inside a review thread.
type ThreadComment struct {
	ID        int64
	Author    *string // nil when the account has been deleted.
	Body      string
	CreatedAt time.Time
	URL       string
}
