package models

import "time"

// RepositoryAnalysis is the terminal artifact of one analysis request.
// It is never mutated after construction and never persisted.
type RepositoryAnalysis struct {
	Repository      Repository      `json:"repository"`
	CodeOwnership   CodeOwnership   `json:"code_ownership"`
	KnowledgeAreas  KnowledgeAreas  `json:"knowledge_areas"`
	ActivityHeatmap ActivityHeatmap `json:"activity_heatmap"`
	DependencyRisk  DependencyRisk  `json:"dependency_risk"`
}

// ContributorCommits is a (name, commit count) ranking entry.
type ContributorCommits struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// AuthorStat is derived per author from in-window commits.
type AuthorStat struct {
	Commits          int       `json:"commits"`
	FirstCommit      time.Time `json:"first_commit"`
	LastCommit       time.Time `json:"last_commit"`
	ActiveDays       int       `json:"active_days"`
	ActivePeriodDays int       `json:"active_period"`
}

// ModuleImpact holds per-author impact and churn estimates. The file,
// folder and line counts are deterministic formulas of commit count, not
// measured diff stats.
type ModuleImpact struct {
	ImpactScore         float64 `json:"impact_score"`
	PrimaryFilesCount   int     `json:"primary_files_count"`
	PrimaryFoldersCount int     `json:"primary_folders_count"`
	TotalAdditions      int     `json:"total_additions"`
	TotalDeletions      int     `json:"total_deletions"`
	Estimated           bool    `json:"estimated"`
}

// CommitDistribution splits total commits between the most and least
// active slices of the contributor ranking.
type CommitDistribution struct {
	Top10Percent    int `json:"top_10_percent"`
	Bottom50Percent int `json:"bottom_50_percent"`
}

// CodeOwnership is the ownership facet of the report.
type CodeOwnership struct {
	TopContributors    []ContributorCommits    `json:"top_contributors"`
	TotalCommits       int                     `json:"total_commits"`
	UniqueContributors int                     `json:"unique_contributors"`
	ContributorStats   map[string]AuthorStat   `json:"contributor_stats"`
	ModuleImpact       map[string]ModuleImpact `json:"module_impact"`
	CommitDistribution CommitDistribution      `json:"commit_distribution"`
}

// ContributorDetail merges platform contributor metadata with
// window-scoped commit statistics when the contributor committed inside
// the window.
type ContributorDetail struct {
	Name                string     `json:"name"`
	Contributions       int        `json:"contributions"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	Type                string     `json:"type,omitempty"`
	GitHubContributions int        `json:"github_contributions"`
	CommitCount         int        `json:"commit_count,omitempty"`
	ActiveDays          int        `json:"active_days,omitempty"`
	ActivePeriodDays    int        `json:"active_period_days,omitempty"`
	FirstCommit         *time.Time `json:"first_commit,omitempty"`
	LastCommit          *time.Time `json:"last_commit,omitempty"`
	AvgCommitsPerDay    float64    `json:"avg_commits_per_day,omitempty"`
}

// KnowledgeAreas splits the contributor roster into core (>=10 lifetime
// contributions) and occasional (1-9) groups.
type KnowledgeAreas struct {
	Contributors           []ContributorDetail `json:"contributors"`
	CoreContributors       []ContributorDetail `json:"core_contributors"`
	OccasionalContributors []ContributorDetail `json:"occasional_contributors"`
}

// HistogramPeak is the max-count key of one activity histogram.
type HistogramPeak struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PeakActivity collects the peaks of the daily, monthly and hourly
// histograms. Nil pointers mean the histogram was empty.
type PeakActivity struct {
	BusiestDay   *HistogramPeak `json:"busiest_day"`
	BusiestMonth *HistogramPeak `json:"busiest_month"`
	PeakHour     *HistogramPeak `json:"peak_hour"`
}

// QuarterSummary aggregates one "<year> Qn" bucket.
type QuarterSummary struct {
	Commits            int                  `json:"commits"`
	ActiveContributors int                  `json:"active_contributors"`
	TotalPRs           int                  `json:"total_prs"`
	MergedPRs          int                  `json:"merged_prs"`
	MergeRate          float64              `json:"merge_rate"`
	TopContributors    []ContributorCommits `json:"top_contributors"`
	VelocityScore      float64              `json:"velocity_score"`
}

// QuarterRef names a quarter together with its summary.
type QuarterRef struct {
	Quarter string         `json:"quarter"`
	Summary QuarterSummary `json:"summary"`
}

// YearOverYear holds totals across the trailing quarters.
type YearOverYear struct {
	TotalCommits         int     `json:"total_commits"`
	TotalContributors    int     `json:"total_contributors"`
	TotalPRs             int     `json:"total_prs"`
	OverallMergeRate     float64 `json:"overall_merge_rate"`
	AvgQuarterlyVelocity float64 `json:"avg_quarterly_velocity"`
}

// QuarterlyTrends classifies activity across quarters.
type QuarterlyTrends struct {
	MostProductiveQuarter   *QuarterRef `json:"most_productive_quarter"`
	HighestMergeRateQuarter *QuarterRef `json:"highest_merge_rate_quarter"`
	GrowthTrajectory        string      `json:"growth_trajectory"`
}

// QuarterlyInsights embeds the quarter buckets plus trend analysis.
type QuarterlyInsights struct {
	Quarters     map[string]QuarterSummary `json:"quarters"`
	YearOverYear YearOverYear              `json:"year_over_year"`
	Trends       QuarterlyTrends           `json:"trends"`
}

// ActivityHeatmap is the temporal facet of the report: five independent
// histograms over in-window commits plus the quarterly insight block.
type ActivityHeatmap struct {
	Daily               map[string]int    `json:"daily"`
	Weekly              map[string]int    `json:"weekly"`
	Monthly             map[string]int    `json:"monthly"`
	HourlyDistribution  map[string]int    `json:"hourly_distribution"`
	WeekdayDistribution map[string]int    `json:"weekday_distribution"`
	QuarterlyInsights   QuarterlyInsights `json:"quarterly_insights"`
	PeakActivity        PeakActivity      `json:"peak_activity"`
}

// KeyContributor is one entry of the dependency-risk ranking.
type KeyContributor struct {
	Name                string  `json:"name"`
	Commits             int     `json:"commits"`
	Percentage          float64 `json:"percentage"`
	RiskLevel           string  `json:"risk_level"`
	DaysSinceLastCommit *int    `json:"days_since_last_commit,omitempty"`
	ActivePeriodDays    int     `json:"active_period_days,omitempty"`
	AvgCommitsPerDay    float64 `json:"avg_commits_per_day,omitempty"`
	IsRecent            bool    `json:"is_recent,omitempty"`
}

// RiskAssessment is the aggregate risk verdict.
type RiskAssessment struct {
	OverallRisk       string  `json:"overall_risk"`
	DiversityScore    float64 `json:"diversity_score"`
	ConcentrationRisk float64 `json:"concentration_risk"`
}

// CollaborationPair is an inferred author/reviewer interaction. Counts
// are heuristic estimates, never measured review data.
type CollaborationPair struct {
	Pair         string `json:"pair"`
	Interactions int    `json:"interactions"`
	Quarter      string `json:"quarter,omitempty"`
}

// QuarterPRActivity aggregates pull requests within one quarter bucket.
type QuarterPRActivity struct {
	PRs        int                  `json:"prs"`
	Merged     int                  `json:"merged"`
	MergeRate  float64              `json:"merge_rate"`
	TopAuthors []ContributorCommits `json:"top_authors"`
}

// PRQuarterRef names a quarter with its PR activity.
type PRQuarterRef struct {
	Quarter  string            `json:"quarter"`
	Activity QuarterPRActivity `json:"activity"`
}

// PRQuarterlyTrends summarizes PR activity across quarters.
type PRQuarterlyTrends struct {
	MostActiveQuarter     *PRQuarterRef `json:"most_active_quarter"`
	HighestQualityQuarter *PRQuarterRef `json:"highest_quality_quarter"`
	TotalQuarterlyPRs     int           `json:"total_quarterly_prs"`
	AvgQuarterlyMergeRate float64       `json:"avg_quarterly_merge_rate"`
}

// WorkflowAnalysis is the collaboration facet. Reviewer identities and
// interaction strengths are synthesized from contributor statistics;
// Estimated is always true when real review data was not fetched.
type WorkflowAnalysis struct {
	AvgTimeToMergeHours     float64                        `json:"avg_time_to_merge_hours"`
	MostActiveAuthors       []ContributorCommits           `json:"most_active_authors"`
	MostActiveReviewers     []ContributorCommits           `json:"most_active_reviewers"`
	CollaborationPairs      []CollaborationPair            `json:"collaboration_pairs"`
	ReviewNetwork           map[string]map[string]int      `json:"review_network"`
	QuarterlyActivity       map[string]QuarterPRActivity   `json:"quarterly_activity"`
	QuarterlyCollaborations map[string][]CollaborationPair `json:"quarterly_collaborations"`
	QuarterlyTrends         PRQuarterlyTrends              `json:"quarterly_trends"`
	Estimated               bool                           `json:"estimated"`
}

// PullRequestAnalysis collects PR statistics for the window.
type PullRequestAnalysis struct {
	TotalPRs         int              `json:"total_prs"`
	MergedPRs        int              `json:"merged_prs"`
	OpenPRs          int              `json:"open_prs"`
	ClosedPRs        int              `json:"closed_prs"`
	MergeRate        float64          `json:"merge_rate"`
	WorkflowAnalysis WorkflowAnalysis `json:"workflow_analysis"`
}

// DependencyRisk is the contributor-risk facet of the report.
type DependencyRisk struct {
	KeyContributors         []KeyContributor    `json:"key_contributors"`
	BusFactor               int                 `json:"bus_factor"`
	CriticalDependencyCount int                 `json:"critical_dependency_count"`
	HighDependencyCount     int                 `json:"high_dependency_count"`
	RiskAssessment          RiskAssessment      `json:"risk_assessment"`
	Recommendations         []string            `json:"recommendations"`
	PullRequestAnalysis     PullRequestAnalysis `json:"pull_request_analysis"`
}
