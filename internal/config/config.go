// Package config loads application configuration from environment variables.
package config

import "os"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken string
}

// Load reads configuration from environment variables. The token is read
// from PR2CURSOR_GITHUB_TOKEN, falling back to GITHUB_TOKEN (which CI
// environments and the gh CLI already export). An empty token is valid:
// public repositories can be read unauthenticated, but inline review
// threads require an authenticated GraphQL call and will degrade to empty.
func Load() *Config {
	token := os.Getenv("PR2CURSOR_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	return &Config{
		GitHubToken: token,
	}
}
