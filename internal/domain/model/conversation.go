package model

import "time"

// ConversationComment represents a top-level discussion comment on a pull
// request (from the Issues API, not anchored to any code position).
type ConversationComment struct {
	ID        int64
	Author    *string // nil when the account has been deleted.
	Body      *string // nil or empty bodies are dropped during normalization.
	CreatedAt time.Time
	URL       string
}
