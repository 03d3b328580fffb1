package model

import "time"

// Review represents a formal review submission on a pull request.
// A reviewer may submit several reviews over the PR's lifetime; only the
// most recent one per reviewer carries their current verdict.
type Review struct {
	ID          int64
	Author      *string // nil when the account has been deleted.
	State       ReviewState
	Body        string
	SubmittedAt *time.Time // nil for reviews the API returns without a submission time.
	URL         string
}
