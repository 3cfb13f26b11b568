package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

func mergedPR(number int, author string, created time.Time, mergeAfter time.Duration) models.PullRequest {
	merged := created.Add(mergeAfter)
	return models.PullRequest{
		Number:      number,
		AuthorLogin: author,
		State:       "closed",
		CreatedAt:   created,
		MergedAt:    &merged,
	}
}

func TestTopPairsCap(t *testing.T) {
	pairs := make([]models.CollaborationPair, 0, 9)
	for i := 0; i < 9; i++ {
		pairs = append(pairs, models.CollaborationPair{
			Pair:         string(rune('a'+i)) + " <-> z",
			Interactions: 9 - i,
		})
	}

	capped := topPairs(pairs, 6)
	require.Len(t, capped, 6)
	assert.Equal(t, 9, capped[0].Interactions, "ranking order is preserved")

	assert.Len(t, topPairs(pairs[:2], 6), 2, "short input passes through")
	assert.Empty(t, topPairs(nil, 6))
}

func TestBuildPullRequestAnalysis(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	created := now.Add(-20 * 24 * time.Hour)

	prs := []models.PullRequest{
		mergedPR(1, "alice", created, 24*time.Hour),
		mergedPR(2, "alice", created.Add(time.Hour), 48*time.Hour),
		{Number: 3, AuthorLogin: "bob", State: "open", CreatedAt: created.Add(2 * time.Hour)},
		{Number: 4, AuthorLogin: "carol", State: "closed", CreatedAt: created.Add(3 * time.Hour)},
	}
	contributors := []models.Contributor{
		{Login: "alice"}, {Login: "bob"}, {Login: "carol"},
	}

	commits := append(commitsBy("alice", created, 20), commitsBy("bob", created, 15)...)
	act := collectAuthorActivity(commits)
	qi := newQuarterIndex(now)
	for _, c := range commits {
		qi.addCommit(c.Author(), c.AuthoredAt)
	}
	for _, pr := range prs {
		qi.addPullRequest(pr)
	}

	analysis := buildPullRequestAnalysis(prs, contributors, qi, act, HeuristicEstimator{})

	assert.Equal(t, 4, analysis.TotalPRs)
	assert.Equal(t, 2, analysis.MergedPRs)
	assert.Equal(t, 1, analysis.OpenPRs)
	assert.Equal(t, 1, analysis.ClosedPRs)
	assert.InDelta(t, 50.0, analysis.MergeRate, 0.001)

	wf := analysis.WorkflowAnalysis
	assert.True(t, wf.Estimated)
	assert.InDelta(t, 36.0, wf.AvgTimeToMergeHours, 0.001)

	require.NotEmpty(t, wf.MostActiveAuthors)
	assert.Equal(t, models.ContributorCommits{Name: "alice", Commits: 2}, wf.MostActiveAuthors[0])

	// Both of alice's merged PRs get bob and carol as simulated
	// reviewers.
	assert.Equal(t, 2, wf.ReviewNetwork["alice"]["bob"])
	assert.Equal(t, 2, wf.ReviewNetwork["alice"]["carol"])
	require.NotEmpty(t, wf.MostActiveReviewers)
	assert.Equal(t, 2, wf.MostActiveReviewers[0].Commits)

	// All four PRs land in the current quarter.
	quarter := "2025 Q2"
	require.Contains(t, wf.QuarterlyActivity, quarter)
	qa := wf.QuarterlyActivity[quarter]
	assert.Equal(t, 4, qa.PRs)
	assert.Equal(t, 2, qa.Merged)
	assert.InDelta(t, 50.0, qa.MergeRate, 0.001)

	// alice(20)+bob(15) commits give the quarter pair strength
	// min(35/10, 5) = 3.
	require.Contains(t, wf.QuarterlyCollaborations, quarter)
	require.NotEmpty(t, wf.QuarterlyCollaborations[quarter])
	pair := wf.QuarterlyCollaborations[quarter][0]
	assert.Equal(t, "alice <-> bob", pair.Pair)
	assert.Equal(t, 3, pair.Interactions)
	assert.Equal(t, quarter, pair.Quarter)

	require.NotNil(t, wf.QuarterlyTrends.MostActiveQuarter)
	assert.Equal(t, quarter, wf.QuarterlyTrends.MostActiveQuarter.Quarter)
	assert.Equal(t, 4, wf.QuarterlyTrends.TotalQuarterlyPRs)
}

func TestBuildPullRequestAnalysis_NoPRFallback(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-20 * 24 * time.Hour)

	commits := append(commitsBy("alice", start, 30), commitsBy("bob", start, 16)...)
	act := collectAuthorActivity(commits)
	qi := newQuarterIndex(now)
	for _, c := range commits {
		qi.addCommit(c.Author(), c.AuthoredAt)
	}

	analysis := buildPullRequestAnalysis(nil, nil, qi, act, HeuristicEstimator{})

	assert.Zero(t, analysis.TotalPRs)
	assert.Zero(t, analysis.MergeRate)

	wf := analysis.WorkflowAnalysis
	assert.True(t, wf.Estimated)

	// Synthesized authorship: one PR per ten commits.
	require.NotEmpty(t, wf.MostActiveAuthors)
	assert.Equal(t, models.ContributorCommits{Name: "alice", Commits: 3}, wf.MostActiveAuthors[0])

	// Quarterly estimate: 46 commits across the split quarters.
	var prSum int
	for _, qa := range wf.QuarterlyActivity {
		assert.InDelta(t, 85.0, qa.MergeRate, 0.001)
		prSum += qa.PRs
	}
	assert.Positive(t, prSum)

	require.NotEmpty(t, wf.CollaborationPairs)
	assert.Equal(t, "alice <-> bob", wf.CollaborationPairs[0].Pair)
	assert.Equal(t, 2, wf.CollaborationPairs[0].Interactions, "max(1, 30/15)")
}

func TestBuildPullRequestAnalysis_NoDataAtAll(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	act := collectAuthorActivity(nil)

	analysis := buildPullRequestAnalysis(nil, nil, newQuarterIndex(now), act, HeuristicEstimator{})

	wf := analysis.WorkflowAnalysis
	assert.Equal(t, []models.ContributorCommits{{Name: "No data available", Commits: 0}}, wf.MostActiveAuthors)
	assert.Empty(t, wf.QuarterlyActivity)
	assert.Empty(t, wf.CollaborationPairs)
	assert.Nil(t, wf.QuarterlyTrends.MostActiveQuarter)
}

func TestMergeQuarterPairs(t *testing.T) {
	quarterly := map[string][]models.CollaborationPair{
		"2025 Q2": {
			{Pair: "a <-> b", Interactions: 3, Quarter: "2025 Q2"},
			{Pair: "a <-> c", Interactions: 1, Quarter: "2025 Q2"},
		},
		"2025 Q1": {
			{Pair: "a <-> b", Interactions: 2, Quarter: "2025 Q1"},
		},
	}

	merged := mergeQuarterPairs([]string{"2025 Q2", "2025 Q1"}, quarterly)

	assert.Equal(t, []models.CollaborationPair{
		{Pair: "a <-> b", Interactions: 5},
		{Pair: "a <-> c", Interactions: 1},
	}, merged)
}

func TestAvgTimeToMergeHours(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	prs := []models.PullRequest{
		mergedPR(1, "a", created, 10*time.Hour),
		mergedPR(2, "a", created, 20*time.Hour),
		{Number: 3, AuthorLogin: "b", State: "open", CreatedAt: created},
	}

	assert.InDelta(t, 15.0, avgTimeToMergeHours(prs), 0.001)
	assert.Zero(t, avgTimeToMergeHours(nil))
}
