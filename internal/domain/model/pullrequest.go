package model

import "time"

// PullRequest holds the identity and metadata of the pull request whose
// feedback is being collected. Immutable once fetched.
type PullRequest struct {
	Number       int
	RepoFullName string
	Title        string
	Author       string
	Status       PRStatus
	Branch       string
	BaseBranch   string
	URL          string
	OpenedAt     time.Time
	UpdatedAt    time.Time
}
