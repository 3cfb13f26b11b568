package analysis

import (
	"fmt"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// histogram counts keyed occurrences while remembering first-encounter
// order, so peak selection is deterministic when counts tie.
type histogram struct {
	counts map[string]int
	order  []string
}

func newHistogram() *histogram {
	return &histogram{counts: make(map[string]int)}
}

func (h *histogram) add(key string) {
	if _, seen := h.counts[key]; !seen {
		h.order = append(h.order, key)
	}
	h.counts[key]++
}

// peak returns the first-encountered key with the maximum count, nil
// for an empty histogram.
func (h *histogram) peak() *models.HistogramPeak {
	var best *models.HistogramPeak
	for _, key := range h.order {
		if best == nil || h.counts[key] > best.Count {
			best = &models.HistogramPeak{Key: key, Count: h.counts[key]}
		}
	}
	return best
}

// buildActivityHeatmap bins in-window commits into daily, weekly,
// monthly, hourly and weekday histograms and attaches the quarterly
// insight block. Undated commits are skipped entirely.
func buildActivityHeatmap(commits []models.Commit, insights models.QuarterlyInsights) models.ActivityHeatmap {
	daily := newHistogram()
	weekly := newHistogram()
	monthly := newHistogram()
	hourly := newHistogram()
	weekday := newHistogram()

	for _, c := range commits {
		at := c.AuthoredAt
		if at.IsZero() {
			continue
		}
		year, week := at.ISOWeek()
		daily.add(at.Format("2006-01-02"))
		weekly.add(fmt.Sprintf("%d-W%02d", year, week))
		monthly.add(at.Format("2006-01"))
		hourly.add(at.Format("15"))
		weekday.add(at.Weekday().String())
	}

	return models.ActivityHeatmap{
		Daily:               daily.counts,
		Weekly:              weekly.counts,
		Monthly:             monthly.counts,
		HourlyDistribution:  hourly.counts,
		WeekdayDistribution: weekday.counts,
		QuarterlyInsights:   insights,
		PeakActivity: models.PeakActivity{
			BusiestDay:   daily.peak(),
			BusiestMonth: monthly.peak(),
			PeakHour:     hourly.peak(),
		},
	}
}
