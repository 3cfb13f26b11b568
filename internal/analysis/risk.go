package analysis

import (
	"time"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// recentActivityWindow marks a contributor as currently active when
// their last in-window commit falls inside it.
const recentActivityWindow = 30 * 24 * time.Hour

// share thresholds for contributor risk tiers, in percent of total
// in-window commits.
const (
	criticalShare = 50
	highShare     = 30
	mediumShare   = 10
)

func riskTier(percentage float64) string {
	switch {
	case percentage > criticalShare:
		return "critical"
	case percentage > highShare:
		return "high"
	case percentage > mediumShare:
		return "medium"
	default:
		return "low"
	}
}

// buildDependencyRisk derives the contributor-risk facet from the
// already ranked ownership data. The pull-request analysis slot is
// filled by the caller.
func buildDependencyRisk(ownership models.CodeOwnership, stats map[string]models.AuthorStat, now time.Time) models.DependencyRisk {
	total := ownership.TotalCommits

	key := make([]models.KeyContributor, 0, len(ownership.TopContributors))
	for _, rc := range ownership.TopContributors {
		var percentage float64
		if total > 0 {
			percentage = float64(rc.Commits) / float64(total) * 100
		}

		kc := models.KeyContributor{
			Name:       rc.Name,
			Commits:    rc.Commits,
			Percentage: round2(percentage),
			RiskLevel:  riskTier(percentage),
		}

		if stat, ok := stats[rc.Name]; ok {
			days := int(now.Sub(stat.LastCommit).Hours() / 24)
			kc.DaysSinceLastCommit = &days
			kc.ActivePeriodDays = stat.ActivePeriodDays
			kc.AvgCommitsPerDay = round2(float64(rc.Commits) / float64(max(1, stat.ActiveDays)))
			kc.IsRecent = now.Sub(stat.LastCommit) < recentActivityWindow
		}

		key = append(key, kc)
	}

	var busFactor, critical, high int
	for _, kc := range key {
		if kc.Percentage > mediumShare {
			busFactor++
		}
		if kc.Percentage > criticalShare {
			critical++
		}
		if kc.Percentage > highShare {
			high++
		}
	}

	overall := "low"
	switch {
	case critical > 0:
		overall = "critical"
	case high > 0:
		overall = "high"
	case busFactor < 3:
		overall = "medium"
	}

	var concentration float64
	for i, kc := range key {
		if i >= 3 {
			break
		}
		concentration += kc.Percentage
	}

	recommendations := []string{}
	if critical > 0 {
		recommendations = append(recommendations, "Critical: One contributor has >50% of commits. Consider knowledge transfer.")
	}
	if high > 0 {
		recommendations = append(recommendations, "High risk: Contributors with >30% commits should document their work.")
	}
	if busFactor < 2 {
		recommendations = append(recommendations, "Low bus factor: Encourage more contributors to join the project.")
	}

	return models.DependencyRisk{
		KeyContributors:         key,
		BusFactor:               busFactor,
		CriticalDependencyCount: critical,
		HighDependencyCount:     high,
		RiskAssessment: models.RiskAssessment{
			OverallRisk:       overall,
			DiversityScore:    round2(float64(ownership.UniqueContributors) / float64(max(1, total)) * 100),
			ConcentrationRisk: round2(concentration),
		},
		Recommendations: recommendations,
	}
}
