package analysis

import (
	"math"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// Estimator supplies the statistical stand-ins for metrics that would
// otherwise require expensive per-commit diff or per-PR review API
// calls. A future exact implementation can replace the heuristic one
// without touching the aggregation pipeline.
type Estimator interface {
	// ModuleImpact derives per-author impact and churn estimates from
	// the author's commit count and the window total.
	ModuleImpact(commits, totalCommits int) models.ModuleImpact

	// Reviewers picks plausible reviewers for a merged PR from the
	// repository contributor ranking, excluding the PR author.
	Reviewers(author string, contributors []models.Contributor) []string
}

// HeuristicEstimator is the default Estimator. Its formulas are
// calibrated constants, not measured data, and must stay stable for
// report compatibility.
type HeuristicEstimator struct{}

// ModuleImpact computes the bounded impact score and the commit-count
// derived churn estimates.
func (HeuristicEstimator) ModuleImpact(commits, totalCommits int) models.ModuleImpact {
	var share float64
	if totalCommits > 0 {
		share = float64(commits) / float64(totalCommits) * 100
	}

	impact := math.Min(share*1.5, 100)
	if impact < 1.0 {
		impact = 1.0
	}

	return models.ModuleImpact{
		ImpactScore:         round1(impact),
		PrimaryFilesCount:   max(2, commits/2+1),
		PrimaryFoldersCount: max(1, commits/5+1),
		TotalAdditions:      max(commits*20, 15),
		TotalDeletions:      max(commits*10, 8),
		Estimated:           true,
	}
}

// Reviewers synthesizes up to two reviewers from the first five
// repository contributors. Real review data is deliberately not
// fetched in the hot path.
func (HeuristicEstimator) Reviewers(author string, contributors []models.Contributor) []string {
	reviewers := make([]string, 0, 2)
	for i, c := range contributors {
		if i >= 5 || len(reviewers) == 2 {
			break
		}
		if c.Login == "" || c.Login == author {
			continue
		}
		reviewers = append(reviewers, c.Login)
	}
	return reviewers
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
