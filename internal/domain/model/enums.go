package model

// PRStatus represents the state of a pull request.
type PRStatus string

const (
	PRStatusOpen   PRStatus = "open"
	PRStatusClosed PRStatus = "closed"
	PRStatusMerged PRStatus = "merged"
)

// ReviewState represents the verdict of a submitted review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// CommentKind distinguishes the originating source of a feedback comment.
type CommentKind string

const (
	CommentKindInline        CommentKind = "inline"         // Review thread comment on a code line.
	CommentKindReviewSummary CommentKind = "review-summary" // Body of a formal review submission.
	CommentKindConversation  CommentKind = "conversation"   // PR-level discussion comment.
)
