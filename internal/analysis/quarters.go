package analysis

import (
	"sort"
	"time"

	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

// staleLookback is a hard staleness filter layered on top of the
// resolved window: records older than 18 months never populate quarter
// buckets, bounding historical scans.
const staleLookback = 550 * 24 * time.Hour

// quarterBucket aggregates one "<year> Qn" span.
type quarterBucket struct {
	commits       int
	contributors  map[string]struct{}
	authorCommits map[string]int
	prCount       int
	mergedPRs     int
}

// quarterIndex holds the trailing four calendar quarters, newest first.
// Buckets are created empty before aggregation and populated in a
// single pass.
type quarterIndex struct {
	order   []string
	buckets map[string]*quarterBucket
	cutoff  time.Time
}

func newQuarterIndex(now time.Time) *quarterIndex {
	// Always the trailing calendar quarters, whatever window filter
	// produced the input: quarter keys come from QuarterOf, so any
	// other label set would silently drop bucketed records.
	order := window.TrailingQuarters(now)
	buckets := make(map[string]*quarterBucket, len(order))
	for _, q := range order {
		buckets[q] = &quarterBucket{
			contributors:  make(map[string]struct{}),
			authorCommits: make(map[string]int),
		}
	}
	return &quarterIndex{
		order:   order,
		buckets: buckets,
		cutoff:  now.Add(-staleLookback),
	}
}

// addCommit assigns a commit to its quarter bucket. Records with a
// missing date or older than the staleness cutoff are skipped.
func (qi *quarterIndex) addCommit(author string, at time.Time) {
	if at.IsZero() || at.Before(qi.cutoff) {
		return
	}
	bucket, ok := qi.buckets[window.QuarterOf(at)]
	if !ok {
		return
	}
	bucket.commits++
	bucket.contributors[author] = struct{}{}
	bucket.authorCommits[author]++
}

// addPullRequest assigns a PR to its quarter bucket by creation time.
func (qi *quarterIndex) addPullRequest(pr models.PullRequest) {
	if pr.CreatedAt.IsZero() || pr.CreatedAt.Before(qi.cutoff) {
		return
	}
	bucket, ok := qi.buckets[window.QuarterOf(pr.CreatedAt)]
	if !ok {
		return
	}
	bucket.prCount++
	if pr.Merged() {
		bucket.mergedPRs++
	}
}

// topAuthors returns the bucket's top n authors by commit count, ties
// broken by name for determinism.
func (b *quarterBucket) topAuthors(n int) []models.ContributorCommits {
	ranked := rankAuthors(b.authorCommits)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// summarize converts a bucket into its report form.
func (b *quarterBucket) summarize() models.QuarterSummary {
	var mergeRate float64
	if b.prCount > 0 {
		mergeRate = round1(float64(b.mergedPRs) / float64(b.prCount) * 100)
	}

	var velocity float64
	if len(b.contributors) > 0 {
		velocity = round1(float64(b.commits) / float64(len(b.contributors)))
	}

	return models.QuarterSummary{
		Commits:            b.commits,
		ActiveContributors: len(b.contributors),
		TotalPRs:           b.prCount,
		MergedPRs:          b.mergedPRs,
		MergeRate:          mergeRate,
		TopContributors:    b.topAuthors(3),
		VelocityScore:      velocity,
	}
}

// rankAuthors sorts an author->count map descending by count with a
// stable name tie-break.
func rankAuthors(counts map[string]int) []models.ContributorCommits {
	ranked := make([]models.ContributorCommits, 0, len(counts))
	for name, commits := range counts {
		ranked = append(ranked, models.ContributorCommits{Name: name, Commits: commits})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Commits != ranked[j].Commits {
			return ranked[i].Commits > ranked[j].Commits
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// buildQuarterlyInsights assembles the quarter summaries, year-over-year
// totals and the growth trend.
func buildQuarterlyInsights(qi *quarterIndex, commits []models.Commit, prs []models.PullRequest, authorCommits map[string]int) models.QuarterlyInsights {
	summaries := make(map[string]models.QuarterSummary)
	active := make([]string, 0, len(qi.order)) // newest first, data only
	for _, q := range qi.order {
		b := qi.buckets[q]
		if b.commits > 0 || b.prCount > 0 {
			summaries[q] = b.summarize()
			active = append(active, q)
		}
	}

	if len(summaries) == 0 {
		merged := 0
		for _, pr := range prs {
			if pr.Merged() {
				merged++
			}
		}
		return models.QuarterlyInsights{
			Quarters: summaries,
			YearOverYear: models.YearOverYear{
				TotalCommits:      len(commits),
				TotalContributors: len(authorCommits),
				TotalPRs:          len(prs),
				OverallMergeRate:  round1(float64(merged) / float64(max(len(prs), 1)) * 100),
			},
			Trends: models.QuarterlyTrends{GrowthTrajectory: "insufficient_data"},
		}
	}

	var totalCommits, totalPRs, totalMerged int
	var velocitySum float64
	allContributors := make(map[string]struct{})
	for _, q := range qi.order {
		for c := range qi.buckets[q].contributors {
			allContributors[c] = struct{}{}
		}
	}
	for _, s := range summaries {
		totalCommits += s.Commits
		totalPRs += s.TotalPRs
		totalMerged += s.MergedPRs
		velocitySum += s.VelocityScore
	}

	return models.QuarterlyInsights{
		Quarters: summaries,
		YearOverYear: models.YearOverYear{
			TotalCommits:         totalCommits,
			TotalContributors:    len(allContributors),
			TotalPRs:             totalPRs,
			OverallMergeRate:     round1(float64(totalMerged) / float64(max(totalPRs, 1)) * 100),
			AvgQuarterlyVelocity: round1(velocitySum / float64(len(summaries))),
		},
		Trends: models.QuarterlyTrends{
			MostProductiveQuarter:   maxQuarter(active, summaries, func(s models.QuarterSummary) float64 { return float64(s.Commits) }),
			HighestMergeRateQuarter: maxQuarter(active, summaries, func(s models.QuarterSummary) float64 { return s.MergeRate }),
			GrowthTrajectory:        classifyGrowth(active, summaries),
		},
	}
}

// maxQuarter picks the first quarter (newest-first order) with the
// maximum value of the given metric.
func maxQuarter(active []string, summaries map[string]models.QuarterSummary, metric func(models.QuarterSummary) float64) *models.QuarterRef {
	var best *models.QuarterRef
	var bestVal float64
	for _, q := range active {
		s := summaries[q]
		v := metric(s)
		if best == nil || v > bestVal {
			best = &models.QuarterRef{Quarter: q, Summary: s}
			bestVal = v
		}
	}
	return best
}

// classifyGrowth compares the commit average of the most recent two
// quarters against quarters three and four back. With fewer than two
// older quarters the trend is stable.
func classifyGrowth(active []string, summaries map[string]models.QuarterSummary) string {
	if len(active) < 4 {
		return "stable"
	}

	recent := active[:2]
	older := active[2:]

	var recentSum, olderSum float64
	for _, q := range recent {
		recentSum += float64(summaries[q].Commits)
	}
	for _, q := range older {
		olderSum += float64(summaries[q].Commits)
	}

	recentAvg := recentSum / float64(len(recent))
	olderAvg := olderSum / float64(len(older))

	switch {
	case recentAvg > olderAvg*1.1:
		return "growing"
	case recentAvg < olderAvg*0.9:
		return "declining"
	default:
		return "stable"
	}
}
