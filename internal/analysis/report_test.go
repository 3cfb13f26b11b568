package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonkeyKingDev/git-peek/internal/models"
	"github.com/MonkeyKingDev/git-peek/internal/window"
)

func testWindow(now time.Time, days int) window.Window {
	return window.Window{Since: now.Add(-time.Duration(days) * 24 * time.Hour), Until: now}
}

func TestAnalyze_EmptyRepository(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	repo := models.Repository{FullName: "acme/empty"}

	report := NewAnalyzer(nil).Analyze(repo, nil, nil, nil, Options{
		Window: testWindow(now, 90),
		Now:    now,
	})

	assert.Equal(t, repo, report.Repository)
	assert.Zero(t, report.CodeOwnership.TotalCommits)
	assert.Empty(t, report.KnowledgeAreas.Contributors)
	assert.Empty(t, report.ActivityHeatmap.Daily)
	assert.Equal(t, "insufficient_data", report.ActivityHeatmap.QuarterlyInsights.Trends.GrowthTrajectory)
	assert.Zero(t, report.DependencyRisk.BusFactor)
	assert.Equal(t, "medium", report.DependencyRisk.RiskAssessment.OverallRisk)

	pra := report.DependencyRisk.PullRequestAnalysis
	assert.Zero(t, pra.TotalPRs)
	assert.Equal(t, "No data available", pra.WorkflowAnalysis.MostActiveAuthors[0].Name)
}

func TestAnalyze_SingleAuthor(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	repo := models.Repository{FullName: "acme/solo"}
	commits := commitsBy("alice", now.Add(-42*24*time.Hour), 42)
	contributors := []models.Contributor{{Login: "alice", Contributions: 42}}

	report := NewAnalyzer(nil).Analyze(repo, commits, contributors, nil, Options{
		Window: testWindow(now, 90),
		Now:    now,
	})

	assert.Equal(t, 42, report.CodeOwnership.TotalCommits)
	assert.Equal(t, 1, report.CodeOwnership.UniqueContributors)
	require.Contains(t, report.CodeOwnership.ModuleImpact, "alice")
	assert.InDelta(t, 100.0, report.CodeOwnership.ModuleImpact["alice"].ImpactScore, 0.001)

	require.Len(t, report.KnowledgeAreas.CoreContributors, 1)
	assert.Empty(t, report.KnowledgeAreas.OccasionalContributors)

	assert.Equal(t, "critical", report.DependencyRisk.RiskAssessment.OverallRisk)
	assert.Equal(t, 1, report.DependencyRisk.BusFactor)

	insights := report.ActivityHeatmap.QuarterlyInsights
	assert.Equal(t, 42, insights.YearOverYear.TotalCommits)
	assert.Equal(t, 1, insights.YearOverYear.TotalContributors)
	assert.NotEmpty(t, insights.Quarters)

	// Commits alone still yield a synthesized PR facet.
	pra := report.DependencyRisk.PullRequestAnalysis
	assert.True(t, pra.WorkflowAnalysis.Estimated)
	assert.NotEmpty(t, pra.WorkflowAnalysis.QuarterlyActivity)
}

func TestAnalyze_WindowExcludesOldRecords(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	inWindow := commitsBy("alice", now.Add(-10*24*time.Hour), 3)
	stale := commitsBy("bob", now.Add(-200*24*time.Hour), 5)
	commits := append(inWindow, stale...)

	oldCreated := now.Add(-200 * 24 * time.Hour)
	prs := []models.PullRequest{
		mergedPR(1, "alice", now.Add(-5*24*time.Hour), time.Hour),
		mergedPR(2, "bob", oldCreated, time.Hour),
	}

	report := NewAnalyzer(nil).Analyze(models.Repository{FullName: "acme/app"}, commits, nil, prs, Options{
		Window: testWindow(now, 90),
		Now:    now,
	})

	assert.Equal(t, 3, report.CodeOwnership.TotalCommits, "stale commits dropped")
	assert.NotContains(t, report.CodeOwnership.ModuleImpact, "bob")
	assert.Equal(t, 1, report.DependencyRisk.PullRequestAnalysis.TotalPRs, "stale PRs dropped")
}

func TestAnalyze_DoesNotMutateInputs(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	commits := commitsBy("alice", now.Add(-10*24*time.Hour), 3)
	original := make([]models.Commit, len(commits))
	copy(original, commits)

	NewAnalyzer(nil).Analyze(models.Repository{}, commits, nil, nil, Options{
		Window: testWindow(now, 90),
		Now:    now,
	})

	assert.Equal(t, original, commits)
}

func TestAnalyze_FinancialYearWindow(t *testing.T) {
	// A fiscal-year window resolved in Jan-Mar spans two calendar
	// years; its commits must still land in quarter buckets.
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	commits := commitsBy("alice", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), 10)

	report := NewAnalyzer(nil).Analyze(models.Repository{FullName: "acme/app"}, commits, nil, nil, Options{
		Window: window.Resolve(window.FilterLastFinancial, 0, 0, now),
		Now:    now,
	})

	assert.Equal(t, 10, report.CodeOwnership.TotalCommits)

	quarters := report.ActivityHeatmap.QuarterlyInsights.Quarters
	require.Contains(t, quarters, "2024 Q1")
	assert.Equal(t, 10, quarters["2024 Q1"].Commits)
	assert.NotEqual(t, "insufficient_data", report.ActivityHeatmap.QuarterlyInsights.Trends.GrowthTrajectory)
}
