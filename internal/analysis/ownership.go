package analysis

import (
	"time"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// authorActivity is the per-author accumulation of one analysis pass.
type authorActivity struct {
	commits map[string]int
	dates   map[string][]time.Time
}

// collectAuthorActivity folds in-window commits into per-author counts
// and date lists. Commits without a parseable date still count toward
// totals but contribute nothing to date-derived statistics.
func collectAuthorActivity(commits []models.Commit) *authorActivity {
	act := &authorActivity{
		commits: make(map[string]int),
		dates:   make(map[string][]time.Time),
	}
	for _, c := range commits {
		author := c.Author()
		act.commits[author]++
		if !c.AuthoredAt.IsZero() {
			act.dates[author] = append(act.dates[author], c.AuthoredAt)
		}
	}
	return act
}

// authorStats derives first/last commit instants, distinct active days
// and the active-period length for each author with dated commits.
func (a *authorActivity) authorStats() map[string]models.AuthorStat {
	stats := make(map[string]models.AuthorStat, len(a.dates))
	for author, dates := range a.dates {
		if len(dates) == 0 {
			continue
		}

		first, last := dates[0], dates[0]
		days := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			if d.Before(first) {
				first = d
			}
			if d.After(last) {
				last = d
			}
			days[d.Format("2006-01-02")] = struct{}{}
		}

		period := 1
		if len(dates) > 1 {
			period = int(last.Sub(first).Hours()/24) + 1
		}

		stats[author] = models.AuthorStat{
			Commits:          a.commits[author],
			FirstCommit:      first,
			LastCommit:       last,
			ActiveDays:       len(days),
			ActivePeriodDays: period,
		}
	}
	return stats
}

// buildCodeOwnership assembles the ownership facet: ranked contributor
// list, per-author impact estimates and the commit distribution split.
func buildCodeOwnership(commits []models.Commit, act *authorActivity, stats map[string]models.AuthorStat, est Estimator) models.CodeOwnership {
	ranked := rankAuthors(act.commits)
	total := len(commits)

	impact := make(map[string]models.ModuleImpact, len(ranked))
	for _, rc := range ranked {
		impact[rc.Name] = est.ModuleImpact(rc.Commits, total)
	}

	var top10, bottom50 int
	if len(ranked) > 0 {
		topN := max(1, len(ranked)/10)
		for _, rc := range ranked[:topN] {
			top10 += rc.Commits
		}
		for _, rc := range ranked[len(ranked)/2:] {
			bottom50 += rc.Commits
		}
	}

	return models.CodeOwnership{
		TopContributors:    ranked,
		TotalCommits:       total,
		UniqueContributors: len(act.commits),
		ContributorStats:   stats,
		ModuleImpact:       impact,
		CommitDistribution: models.CommitDistribution{
			Top10Percent:    top10,
			Bottom50Percent: bottom50,
		},
	}
}

// coreContributionThreshold splits the roster: contributors at or above
// it count as core, the rest as occasional.
const coreContributionThreshold = 10

// buildKnowledgeAreas merges the platform contributor roster with
// window-scoped commit statistics and splits it into core and
// occasional groups by lifetime contribution count.
func buildKnowledgeAreas(contributors []models.Contributor, stats map[string]models.AuthorStat) models.KnowledgeAreas {
	details := make([]models.ContributorDetail, 0, len(contributors))
	var core, occasional []models.ContributorDetail

	for _, c := range contributors {
		detail := models.ContributorDetail{
			Name:                c.Login,
			Contributions:       c.Contributions,
			AvatarURL:           c.AvatarURL,
			Type:                c.Type,
			GitHubContributions: c.Contributions,
		}

		if stat, ok := stats[c.Login]; ok {
			first, last := stat.FirstCommit, stat.LastCommit
			detail.CommitCount = stat.Commits
			detail.ActiveDays = stat.ActiveDays
			detail.ActivePeriodDays = stat.ActivePeriodDays
			detail.FirstCommit = &first
			detail.LastCommit = &last
			detail.AvgCommitsPerDay = round2(float64(stat.Commits) / float64(max(1, stat.ActiveDays)))
		}

		details = append(details, detail)
		switch {
		case c.Contributions >= coreContributionThreshold:
			core = append(core, detail)
		case c.Contributions >= 1:
			occasional = append(occasional, detail)
		}
	}

	return models.KnowledgeAreas{
		Contributors:           details,
		CoreContributors:       core,
		OccasionalContributors: occasional,
	}
}
