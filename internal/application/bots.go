// Package application contains the feedback normalization pipeline: the
// logic that reduces the three raw feedback streams of a pull request to
// the set of comments that still need a response.
package application

import "strings"

// botNameMarkers are substrings of account names used by known automation
// platforms: CI services, dependency updaters, static analyzers, hosting
// previews. The list errs toward over-matching; hiding an oddly named human
// is cheaper than surfacing machine noise as actionable feedback.
var botNameMarkers = []string{
	"[bot]",
	"-bot",
	"bot-",
	"dependabot",
	"renovate",
	"greenkeeper",
	"coderabbit",
	"copilot",
	"codecov",
	"coveralls",
	"sonarcloud",
	"sonarqube",
	"codacy",
	"deepsource",
	"snyk",
	"github-actions",
	"circleci",
	"travis-ci",
	"jenkins",
	"azure-pipelines",
	"gitlab-ci",
	"netlify",
	"vercel",
	"mergify",
	"imgbot",
	"allcontributors",
	"semantic-release",
}

// IsBot reports whether the login names an automated account. Matching is
// case-insensitive: a trailing "bot" or any known automation marker counts.
func IsBot(login string) bool {
	l := strings.ToLower(login)
	if strings.HasSuffix(l, "bot") {
		return true
	}
	for _, marker := range botNameMarkers {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}
