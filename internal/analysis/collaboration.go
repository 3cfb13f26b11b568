package analysis

import (
	"fmt"
	"sort"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// reviewSampleSize caps the PRs considered for reviewer simulation.
// Sampling more adds latency without changing the network shape much.
const reviewSampleSize = 20

// buildPullRequestAnalysis derives the collaboration facet. Reviewer
// identities and pair strengths are synthesized from contributor
// activity, never fetched from the reviews API.
func buildPullRequestAnalysis(prs []models.PullRequest, contributors []models.Contributor, qi *quarterIndex, act *authorActivity, est Estimator) models.PullRequestAnalysis {
	prAuthors := make(map[string]int)
	for _, pr := range prs {
		prAuthors[prAuthor(pr)]++
	}

	// Reviewer simulation over a bounded PR sample.
	prReviewers := make(map[string]int)
	reviewNetwork := make(map[string]map[string]int)
	sample := prs
	if len(sample) > reviewSampleSize {
		sample = sample[:reviewSampleSize]
	}
	for _, pr := range sample {
		if !pr.Merged() {
			continue
		}
		author := prAuthor(pr)
		for _, reviewer := range est.Reviewers(author, contributors) {
			prReviewers[reviewer]++
			if reviewNetwork[author] == nil {
				reviewNetwork[author] = make(map[string]int)
			}
			reviewNetwork[author][reviewer]++
		}
	}

	quarterlyActivity := make(map[string]models.QuarterPRActivity)
	quarterlyCollaborations := make(map[string][]models.CollaborationPair)
	for _, q := range qi.order {
		b := qi.buckets[q]
		if b.prCount == 0 {
			continue
		}
		quarterlyActivity[q] = models.QuarterPRActivity{
			PRs:        b.prCount,
			Merged:     b.mergedPRs,
			MergeRate:  round1(float64(b.mergedPRs) / float64(b.prCount) * 100),
			TopAuthors: b.topAuthors(3),
		}
		if pairs := quarterPairs(q, b); len(pairs) > 0 {
			quarterlyCollaborations[q] = pairs
		}
	}

	pairs := mergeQuarterPairs(qi.order, quarterlyCollaborations)
	if len(pairs) == 0 {
		pairs = globalPairs(act.commits)
	}

	// Without any platform PR data, synthesize the whole facet from
	// commit activity so the report stays populated.
	if len(prs) == 0 && len(act.commits) > 0 {
		prAuthors = make(map[string]int)
		for _, rc := range topN(rankAuthors(act.commits), 8) {
			prAuthors[rc.Name] = max(1, rc.Commits/10)
		}

		quarterlyActivity = make(map[string]models.QuarterPRActivity)
		for _, q := range qi.order {
			b := qi.buckets[q]
			if b.commits == 0 {
				continue
			}
			estimated := max(1, b.commits/8)
			quarterlyActivity[q] = models.QuarterPRActivity{
				PRs:        estimated,
				Merged:     int(float64(estimated) * 0.85),
				MergeRate:  85.0,
				TopAuthors: b.topAuthors(3),
			}
		}

		pairs = nil
		top := topN(rankAuthors(act.commits), 6)
		for i, author := range topN(top, 3) {
			for _, reviewer := range slicePairRange(top, i+1, 4) {
				if author.Name == reviewer.Name {
					continue
				}
				pairs = append(pairs, models.CollaborationPair{
					Pair:         pairKey(author.Name, reviewer.Name),
					Interactions: max(1, author.Commits/15),
				})
			}
		}
	}

	mostActiveAuthors := topN(rankAuthors(prAuthors), 5)
	if len(mostActiveAuthors) == 0 {
		mostActiveAuthors = []models.ContributorCommits{{Name: "No data available", Commits: 0}}
	}
	mostActiveReviewers := topN(rankAuthors(prReviewers), 5)
	if len(mostActiveReviewers) == 0 {
		mostActiveReviewers = topN(rankAuthors(prAuthors), 5)
	}

	workflow := models.WorkflowAnalysis{
		AvgTimeToMergeHours:     avgTimeToMergeHours(prs),
		MostActiveAuthors:       mostActiveAuthors,
		MostActiveReviewers:     mostActiveReviewers,
		CollaborationPairs:      topPairs(pairs, 6),
		ReviewNetwork:           reviewNetwork,
		QuarterlyActivity:       quarterlyActivity,
		QuarterlyCollaborations: quarterlyCollaborations,
		QuarterlyTrends:         buildPRTrends(qi.order, quarterlyActivity),
		Estimated:               true,
	}

	analysis := models.PullRequestAnalysis{
		TotalPRs:         len(prs),
		WorkflowAnalysis: workflow,
	}
	for _, pr := range prs {
		switch {
		case pr.Merged():
			analysis.MergedPRs++
		case pr.State == "open":
			analysis.OpenPRs++
		case pr.State == "closed":
			analysis.ClosedPRs++
		}
	}
	if analysis.TotalPRs > 0 {
		analysis.MergeRate = round2(float64(analysis.MergedPRs) / float64(analysis.TotalPRs) * 100)
	}
	return analysis
}

func prAuthor(pr models.PullRequest) string {
	if pr.AuthorLogin != "" {
		return pr.AuthorLogin
	}
	return "Unknown"
}

func pairKey(a, b string) string {
	return fmt.Sprintf("%s <-> %s", a, b)
}

// quarterPairs synthesizes up to three collaboration pairs for one
// quarter. Pair strength grows with the combined commit activity of
// both sides, capped at 5.
func quarterPairs(quarter string, b *quarterBucket) []models.CollaborationPair {
	names := rankAuthors(b.authorCommits)
	var pairs []models.CollaborationPair
	for i, author := range topN(names, 4) {
		for _, reviewer := range slicePairRange(names, i+1, 5) {
			if author.Name == reviewer.Name {
				continue
			}
			strength := min((author.Commits+reviewer.Commits)/10, 5)
			if strength == 0 {
				continue
			}
			pairs = append(pairs, models.CollaborationPair{
				Pair:         pairKey(author.Name, reviewer.Name),
				Interactions: strength,
				Quarter:      quarter,
			})
			if len(pairs) == 3 {
				return pairs
			}
		}
	}
	return pairs
}

// mergeQuarterPairs sums per-quarter pair strengths into an overall
// ranking, strongest first with a name tie-break.
func mergeQuarterPairs(order []string, quarterly map[string][]models.CollaborationPair) []models.CollaborationPair {
	sums := make(map[string]int)
	for _, q := range order {
		for _, p := range quarterly[q] {
			sums[p.Pair] += p.Interactions
		}
	}
	merged := make([]models.CollaborationPair, 0, len(sums))
	for pair, n := range sums {
		merged = append(merged, models.CollaborationPair{Pair: pair, Interactions: n})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Interactions != merged[j].Interactions {
			return merged[i].Interactions > merged[j].Interactions
		}
		return merged[i].Pair < merged[j].Pair
	})
	return merged
}

// globalPairs is the window-wide fallback when no quarter produced a
// pair: strength derives from the author's own commit count, capped
// at 8.
func globalPairs(authorCommits map[string]int) []models.CollaborationPair {
	ranked := topN(rankAuthors(authorCommits), 10)
	var pairs []models.CollaborationPair
	for _, author := range topN(ranked, 5) {
		for _, reviewer := range slicePairRange(ranked, 1, 6) {
			if author.Name == reviewer.Name {
				continue
			}
			strength := min(author.Commits/10, 8)
			if strength == 0 {
				continue
			}
			pairs = append(pairs, models.CollaborationPair{
				Pair:         pairKey(author.Name, reviewer.Name),
				Interactions: strength,
			})
		}
	}
	return pairs
}

func buildPRTrends(order []string, activity map[string]models.QuarterPRActivity) models.PRQuarterlyTrends {
	trends := models.PRQuarterlyTrends{}
	var totalRate float64
	for _, q := range order {
		a, ok := activity[q]
		if !ok {
			continue
		}
		trends.TotalQuarterlyPRs += a.PRs
		totalRate += a.MergeRate
		if trends.MostActiveQuarter == nil || a.PRs > trends.MostActiveQuarter.Activity.PRs {
			trends.MostActiveQuarter = &models.PRQuarterRef{Quarter: q, Activity: a}
		}
		if trends.HighestQualityQuarter == nil || a.MergeRate > trends.HighestQualityQuarter.Activity.MergeRate {
			trends.HighestQualityQuarter = &models.PRQuarterRef{Quarter: q, Activity: a}
		}
	}
	if n := len(activity); n > 0 {
		trends.AvgQuarterlyMergeRate = round1(totalRate / float64(n))
	}
	return trends
}

// avgTimeToMergeHours averages created-to-merged durations across
// merged PRs.
func avgTimeToMergeHours(prs []models.PullRequest) float64 {
	var hours float64
	var n int
	for _, pr := range prs {
		if !pr.Merged() || pr.CreatedAt.IsZero() {
			continue
		}
		hours += pr.MergedAt.Sub(pr.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(hours / float64(n))
}

func topN(ranked []models.ContributorCommits, n int) []models.ContributorCommits {
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// topPairs caps the merged pair ranking at n.
func topPairs(pairs []models.CollaborationPair, n int) []models.CollaborationPair {
	if len(pairs) > n {
		return pairs[:n]
	}
	return pairs
}

// slicePairRange returns ranked[from:to] clamped to the slice bounds.
func slicePairRange(ranked []models.ContributorCommits, from, to int) []models.ContributorCommits {
	if from >= len(ranked) {
		return nil
	}
	if to > len(ranked) {
		to = len(ranked)
	}
	return ranked[from:to]
}
