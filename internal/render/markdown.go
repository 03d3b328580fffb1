// Package render turns the ordered feedback list into a report document.
// It contains no filtering logic and preserves the input order.
package render

import (
	"fmt"
	"io"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04 MST"

// Markdown writes the feedback report for a pull request as GitHub-flavored
// Markdown. Comments are written in the order given.
func Markdown(w io.Writer, pr model.PullRequest, comments []model.FeedbackComment) error {
	fmt.Fprintf(w, "# PR Feedback: %s#%d\n\n", pr.RepoFullName, pr.Number)
	fmt.Fprintf(w, "**%s**\n\n", pr.Title)
	fmt.Fprintf(w, "- Author: %s\n", pr.Author)
	fmt.Fprintf(w, "- State: %s\n", pr.Status)
	fmt.Fprintf(w, "- Branch: `%s` → `%s`\n", pr.Branch, pr.BaseBranch)
	if !pr.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "- Updated: %s\n", pr.UpdatedAt.UTC().Format(timeLayout))
	}
	if pr.URL != "" {
		fmt.Fprintf(w, "- Link: %s\n", pr.URL)
	}
	fmt.Fprintln(w)

	if len(comments) == 0 {
		fmt.Fprintln(w, "No feedback is awaiting a response.")
		return nil
	}

	switch len(comments) {
	case 1:
		fmt.Fprintf(w, "1 comment needs a response.\n\n")
	default:
		fmt.Fprintf(w, "%d comments need a response.\n\n", len(comments))
	}
	fmt.Fprintf(w, "---\n\n")

	for i, c := range comments {
		fmt.Fprintf(w, "## %d. %s (%s)\n\n", i+1, c.Author, headline(c))

		if !c.CreatedAt.IsZero() {
			fmt.Fprintf(w, "*%s*\n\n", c.CreatedAt.UTC().Format(timeLayout))
		}

		fmt.Fprintf(w, "%s\n\n", c.Body)

		if c.URL != "" {
			fmt.Fprintf(w, "[View on GitHub](%s)\n\n", c.URL)
		}
	}

	return nil
}

// headline describes where a comment came from.
func headline(c model.FeedbackComment) string {
	switch c.Kind {
	case model.CommentKindReviewSummary:
		if c.State != "" {
			return fmt.Sprintf("review: %s", c.State)
		}
		return "review"
	case model.CommentKindInline:
		if c.Line != nil {
			return fmt.Sprintf("inline comment on `%s:%d`", c.Path, *c.Line)
		}
		return fmt.Sprintf("inline comment on `%s`", c.Path)
	default:
		return "comment"
	}
}
