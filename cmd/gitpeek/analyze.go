package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MonkeyKingDev/git-peek/internal/analysis"
	gh "github.com/MonkeyKingDev/git-peek/internal/github"
	"github.com/MonkeyKingDev/git-peek/internal/logging"
	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/validation"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

var (
	analyzeToken    string
	analyzeQuarter  string
	analyzeStart    int64
	analyzeEnd      int64
	analyzeDetailed bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner>/<repo>",
	Short: "Analyze a repository and print the report as JSON",
	Long: `Run the full contribution analysis for one repository and print the
report to stdout.

Examples:
  # Current quarter, token from the environment
  GITHUB_TOKEN=ghp_... gitpeek analyze golang/go

  # Explicit window and per-commit diff stats
  gitpeek analyze golang/go --quarter past_year --detailed`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeToken, "token", "", "GitHub token (default: $GITHUB_TOKEN)")
	analyzeCmd.Flags().StringVar(&analyzeQuarter, "quarter", window.FilterCurrent, "time filter: current, last_financial or past_year")
	analyzeCmd.Flags().Int64Var(&analyzeStart, "start-epoch", 0, "window start as Unix seconds (overrides --quarter)")
	analyzeCmd.Flags().Int64Var(&analyzeEnd, "end-epoch", 0, "window end as Unix seconds (overrides --quarter)")
	analyzeCmd.Flags().BoolVar(&analyzeDetailed, "detailed", false, "fetch per-commit diff stats (slower, more API calls)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	owner, repo, err := splitRepoArg(args[0])
	if err != nil {
		return err
	}
	if err := validation.RepoPath(owner, repo); err != nil {
		return err
	}

	token := analyzeToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("a GitHub token is required: pass --token or set GITHUB_TOKEN")
	}

	log := logging.New(logging.DefaultConfig(cfg.Env))
	client, err := gh.NewClient(token, cfg.GitHub, log)
	if err != nil {
		return err
	}
	fetcher := gh.NewFetcher(client, cfg.Analysis)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	win := window.Resolve(analyzeQuarter, analyzeStart, analyzeEnd, time.Now().UTC())

	repository, err := fetcher.FetchRepository(ctx, owner, repo)
	if err != nil {
		return err
	}

	logger.WithField("repository", repository.FullName).Info("Fetching repository data")
	commits := fetcher.ListCommits(ctx, owner, repo, win)
	if analyzeDetailed {
		commits = enrichHead(ctx, fetcher, owner, repo, commits)
	}
	contributors := fetcher.ListContributors(ctx, owner, repo)
	prs := fetcher.ListPullRequests(ctx, owner, repo, win)

	report := analysis.NewAnalyzer(log).Analyze(repository, commits, contributors, prs, analysis.Options{Window: win})

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(report)
}

// enrichHead fetches diff stats for the newest commits up to the
// configured cap and keeps the rest as-is.
func enrichHead(ctx context.Context, fetcher *gh.Fetcher, owner, repo string, commits []models.Commit) []models.Commit {
	limit := cfg.Analysis.MaxDetailedCommits
	if limit <= 0 || limit > len(commits) {
		limit = len(commits)
	}
	enriched := fetcher.EnrichCommits(ctx, owner, repo, commits[:limit])
	return append(enriched, commits[limit:]...)
}

func splitRepoArg(arg string) (owner, repo string, err error) {
	parts := strings.Split(arg, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be given as <owner>/<repo>, got %q", arg)
	}
	return parts[0], parts[1], nil
}
