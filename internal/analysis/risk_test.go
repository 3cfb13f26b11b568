package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

func TestRiskTier(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{0, "low"},
		{10, "low"},
		{10.1, "medium"},
		{30, "medium"},
		{30.1, "high"},
		{50, "high"},
		{50.1, "critical"},
		{100, "critical"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, riskTier(tt.percentage), "share %.1f%%", tt.percentage)
	}
}

func TestBuildDependencyRisk_SingleDominantAuthor(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	commits := commitsBy("alice", now.Add(-10*24*time.Hour), 5)

	act := collectAuthorActivity(commits)
	stats := act.authorStats()
	ownership := buildCodeOwnership(commits, act, stats, HeuristicEstimator{})

	risk := buildDependencyRisk(ownership, stats, now)

	require.Len(t, risk.KeyContributors, 1)
	alice := risk.KeyContributors[0]
	assert.Equal(t, "critical", alice.RiskLevel)
	assert.InDelta(t, 100.0, alice.Percentage, 0.001)
	assert.True(t, alice.IsRecent)
	require.NotNil(t, alice.DaysSinceLastCommit)
	assert.Equal(t, 6, *alice.DaysSinceLastCommit)

	assert.Equal(t, 1, risk.BusFactor)
	assert.Equal(t, 1, risk.CriticalDependencyCount)
	assert.Equal(t, 1, risk.HighDependencyCount)
	assert.Equal(t, "critical", risk.RiskAssessment.OverallRisk)
	assert.InDelta(t, 100.0, risk.RiskAssessment.ConcentrationRisk, 0.001)

	// All three warnings fire: critical share, high share, bus factor
	// below two.
	assert.Len(t, risk.Recommendations, 3)
	assert.Contains(t, risk.Recommendations, "Critical: One contributor has >50% of commits. Consider knowledge transfer.")
}

func TestBuildDependencyRisk_BalancedTeam(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-30 * 24 * time.Hour)

	var commits []models.Commit
	for _, login := range []string{"alice", "bob", "carol", "dave"} {
		commits = append(commits, commitsBy(login, start, 5)...)
	}

	act := collectAuthorActivity(commits)
	stats := act.authorStats()
	ownership := buildCodeOwnership(commits, act, stats, HeuristicEstimator{})

	risk := buildDependencyRisk(ownership, stats, now)

	require.Len(t, risk.KeyContributors, 4)
	for _, kc := range risk.KeyContributors {
		assert.Equal(t, "medium", kc.RiskLevel)
		assert.InDelta(t, 25.0, kc.Percentage, 0.001)
	}

	assert.Equal(t, 4, risk.BusFactor)
	assert.Zero(t, risk.CriticalDependencyCount)
	assert.Zero(t, risk.HighDependencyCount)
	assert.Equal(t, "low", risk.RiskAssessment.OverallRisk)
	assert.InDelta(t, 75.0, risk.RiskAssessment.ConcentrationRisk, 0.001)
	assert.Empty(t, risk.Recommendations)
}

func TestBuildDependencyRisk_Empty(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	act := collectAuthorActivity(nil)
	ownership := buildCodeOwnership(nil, act, nil, HeuristicEstimator{})

	risk := buildDependencyRisk(ownership, nil, now)

	assert.Empty(t, risk.KeyContributors)
	assert.Zero(t, risk.BusFactor)
	assert.Equal(t, "medium", risk.RiskAssessment.OverallRisk, "empty repos sit at medium via the bus-factor rule")
	assert.Equal(t, []string{"Low bus factor: Encourage more contributors to join the project."}, risk.Recommendations)
}

// Growing one author's share must never lower their tier.
func TestRiskTier_Monotone(t *testing.T) {
	rank := map[string]int{"low": 0, "medium": 1, "high": 2, "critical": 3}
	prev := "low"
	for p := 0.0; p <= 100.0; p += 0.5 {
		tier := riskTier(p)
		assert.GreaterOrEqual(t, rank[tier], rank[prev], "tier dropped at %.1f%%", p)
		prev = tier
	}
}
