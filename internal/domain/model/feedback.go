package model

import "time"

// FeedbackComment is the unified representation of one piece of actionable
// feedback, regardless of originating source. IDs are namespaced by source
// kind ("review-…", "conversation-…", "inline-…") so identifiers can never
// collide across sources even when the underlying numeric IDs coincide.
type FeedbackComment struct {
	ID        string
	Kind      CommentKind
	Author    string
	CreatedAt time.Time   // Zero value = no timestamp; sorts before everything else.
	State     ReviewState // Verdict label; set for review-summary comments only.
	Path      string      // Inline comments only.
	Line      *int        // Inline comments only; nil when no position is known.
	Resolved  bool        // Inline comments only; always false on output (resolved threads are dropped).
	Body      string      // Non-empty after normalization.
	URL       string
	IsBot     bool // Always false on output; bot comments are dropped.
}
