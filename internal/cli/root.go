// Package cli wires the command-line interface for pr2cursor.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "1.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var (
	flagRepo   string
	flagPR     int
	flagOutput string
	flagFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pr2cursor [owner/repo#number]",
	Short: "Collect the feedback on a pull request into one actionable document",
	Long: "pr2cursor fetches a pull request's reviews, discussion comments and inline\n" +
		"review threads from GitHub, filters out bots, the author's own messages and\n" +
		"feedback the author has already responded to, and writes the remainder as a\n" +
		"single chronologically ordered document.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&flagRepo, "repo", "", "repository in owner/name form")
	rootCmd.Flags().IntVar(&flagPR, "pr", 0, "pull request number")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the report to this file instead of stdout")
	rootCmd.Flags().StringVar(&flagFormat, "format", "md", "report format: md or html")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pr2cursor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "pr2cursor version %s\n", version)
	},
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if exitCode == ExitSuccess {
			// Flag parse failures never reach the handler.
			return ExitUsageError
		}
		return exitCode
	}

	return exitCode
}

// ParseTarget parses an "owner/repo#number" argument.
func ParseTarget(arg string) (repoFullName string, prNumber int, err error) {
	repoPart, numPart, found := strings.Cut(arg, "#")
	if !found {
		return "", 0, fmt.Errorf("invalid target %q, expected owner/repo#number", arg)
	}

	n, err := strconv.Atoi(numPart)
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid pull request number in %q", arg)
	}

	parts := strings.Split(repoPart, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", 0, fmt.Errorf("invalid repository in %q, expected owner/repo", arg)
	}

	return repoPart, n, nil
}

// resolveTarget picks the repository and PR number from flags or the
// positional argument. Flags win when both are given.
func resolveTarget(args []string) (repoFullName string, prNumber int, err error) {
	if flagRepo != "" || flagPR != 0 {
		if flagRepo == "" || flagPR <= 0 {
			return "", 0, fmt.Errorf("--repo and --pr must be given together")
		}
		return flagRepo, flagPR, nil
	}

	if len(args) == 1 {
		return ParseTarget(args[0])
	}

	return "", 0, fmt.Errorf("no pull request given: pass owner/repo#number or --repo and --pr")
}
