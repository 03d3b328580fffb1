package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/arkadiy-sm/pr2cursor/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// HTML writes the feedback report as sanitized HTML. The document is the
// Markdown report converted through goldmark and scrubbed with a UGC policy;
// comment bodies are arbitrary user content and must not carry scripts.
func HTML(w io.Writer, pr model.PullRequest, comments []model.FeedbackComment) error {
	var md bytes.Buffer
	if err := Markdown(&md, pr, comments); err != nil {
		return err
	}

	var converted bytes.Buffer
	if err := mdRenderer.Convert(md.Bytes(), &converted); err != nil {
		return fmt.Errorf("converting report to html: %w", err)
	}

	if _, err := w.Write(htmlSanitizer.SanitizeBytes(converted.Bytes())); err != nil {
		return fmt.Errorf("writing html report: %w", err)
	}

	return nil
}
