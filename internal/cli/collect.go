package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	githubadapter "github.com/arkadiy-sm/pr2cursor/internal/adapter/driven/github"
	"github.com/arkadiy-sm/pr2cursor/internal/application"
	"github.com/arkadiy-sm/pr2cursor/internal/config"
	"github.com/arkadiy-sm/pr2cursor/internal/render"
)

// runRoot fetches the PR feedback and writes the report.
func runRoot(cmd *cobra.Command, args []string) error {
	repoFullName, prNumber, err := resolveTarget(args)
	if err != nil {
		exitCode = ExitUsageError
		return err
	}

	switch flagFormat {
	case "md", "markdown", "html":
	default:
		exitCode = ExitUsageError
		return fmt.Errorf("unknown format %q, expected md or html", flagFormat)
	}

	exitCode = ExitRuntimeError

	cfg := config.Load()
	if cfg.GitHubToken == "" {
		slog.Warn("no github token configured; only public repository data is accessible and inline threads may be unavailable")
	}

	client := githubadapter.NewClient(cfg.GitHubToken)
	svc := application.NewFeedbackService(client)

	pr, comments, err := svc.Collect(cmd.Context(), repoFullName, prNumber)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if flagFormat == "html" {
		err = render.HTML(&buf, *pr, comments)
	} else {
		err = render.Markdown(&buf, *pr, comments)
	}
	if err != nil {
		return err
	}

	if flagOutput == "" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing report to stdout: %w", err)
		}
	} else {
		if err := atomic.WriteFile(flagOutput, &buf); err != nil {
			return fmt.Errorf("writing report to %s: %w", flagOutput, err)
		}
		slog.Info("report written", "path", flagOutput, "comments", len(comments))
	}

	exitCode = ExitSuccess
	return nil
}
