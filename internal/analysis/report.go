package analysis

import (
	"time"

	"github.com/MonkeyKingDev/git-peek/internal/logging"
	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

// Options configures one analysis pass.
type Options struct {
	// Window bounds the commits and pull requests considered. Records
	// outside it never reach any statistic.
	Window window.Window

	// Now anchors recency and quarter calculations. Zero means
	// time.Now().
	Now time.Time

	// Estimator fills in the metrics that would need per-commit diff
	// or review API calls. Nil means HeuristicEstimator.
	Estimator Estimator
}

// Analyzer runs the aggregation pipeline over fetched repository data.
type Analyzer struct {
	log *logging.Logger
}

func NewAnalyzer(log *logging.Logger) *Analyzer {
	if log == nil {
		log = logging.New(logging.DefaultConfig("production"))
	}
	return &Analyzer{log: log}
}

// Analyze builds the full report for one repository. Inputs are window
// filtered first, then folded exactly once into each facet. The input
// slices are never mutated.
func (a *Analyzer) Analyze(repo models.Repository, commits []models.Commit, contributors []models.Contributor, prs []models.PullRequest, opts Options) models.RepositoryAnalysis {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	est := opts.Estimator
	if est == nil {
		est = HeuristicEstimator{}
	}

	commits = window.Filter(commits, func(c models.Commit) time.Time { return c.AuthoredAt }, opts.Window)
	prs = window.Filter(prs, func(pr models.PullRequest) time.Time { return pr.CreatedAt }, opts.Window)

	a.log.Debug("analysis input filtered",
		"repo", repo.FullName,
		"commits", len(commits),
		"prs", len(prs),
		"contributors", len(contributors),
		"since", opts.Window.Since,
		"until", opts.Window.Until,
	)

	act := collectAuthorActivity(commits)
	stats := act.authorStats()

	qi := newQuarterIndex(now)
	for _, c := range commits {
		qi.addCommit(c.Author(), c.AuthoredAt)
	}
	for _, pr := range prs {
		qi.addPullRequest(pr)
	}

	ownership := buildCodeOwnership(commits, act, stats, est)
	insights := buildQuarterlyInsights(qi, commits, prs, act.commits)

	risk := buildDependencyRisk(ownership, stats, now)
	risk.PullRequestAnalysis = buildPullRequestAnalysis(prs, contributors, qi, act, est)

	return models.RepositoryAnalysis{
		Repository:      repo,
		CodeOwnership:   ownership,
		KnowledgeAreas:  buildKnowledgeAreas(contributors, stats),
		ActivityHeatmap: buildActivityHeatmap(commits, insights),
		DependencyRisk:  risk,
	}
}
