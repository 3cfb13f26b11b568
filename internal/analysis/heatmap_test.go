package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

func TestBuildActivityHeatmap(t *testing.T) {
	commits := []models.Commit{
		commitBy("alice", time.Date(2025, 5, 5, 9, 15, 0, 0, time.UTC)),  // Monday
		commitBy("alice", time.Date(2025, 5, 5, 9, 45, 0, 0, time.UTC)),  // same day+hour
		commitBy("bob", time.Date(2025, 5, 6, 14, 0, 0, 0, time.UTC)),      // Tuesday
		commitBy("carol", time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)), // Tuesday, June
		{SHA: "undated", AuthorLogin: "dave"},
	}

	hm := buildActivityHeatmap(commits, models.QuarterlyInsights{})

	assert.Equal(t, map[string]int{
		"2025-05-05": 2,
		"2025-05-06": 1,
		"2025-06-10": 1,
	}, hm.Daily)

	assert.Equal(t, map[string]int{
		"2025-05": 3,
		"2025-06": 1,
	}, hm.Monthly)

	assert.Equal(t, 2, hm.HourlyDistribution["09"])
	assert.Equal(t, 2, hm.HourlyDistribution["14"])

	assert.Equal(t, map[string]int{
		"Monday":  2,
		"Tuesday": 2,
	}, hm.WeekdayDistribution)

	// 2025-05-05 and 2025-05-06 share ISO week W19.
	assert.Equal(t, 3, hm.Weekly["2025-W19"])

	require.NotNil(t, hm.PeakActivity.BusiestDay)
	assert.Equal(t, models.HistogramPeak{Key: "2025-05-05", Count: 2}, *hm.PeakActivity.BusiestDay)
	require.NotNil(t, hm.PeakActivity.BusiestMonth)
	assert.Equal(t, "2025-05", hm.PeakActivity.BusiestMonth.Key)
}

func TestBuildActivityHeatmap_PeakTieIsFirstEncountered(t *testing.T) {
	commits := []models.Commit{
		commitBy("a", time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)),
		commitBy("a", time.Date(2025, 5, 6, 9, 0, 0, 0, time.UTC)),
		commitBy("a", time.Date(2025, 5, 7, 14, 0, 0, 0, time.UTC)),
		commitBy("a", time.Date(2025, 5, 8, 14, 0, 0, 0, time.UTC)),
	}

	hm := buildActivityHeatmap(commits, models.QuarterlyInsights{})

	require.NotNil(t, hm.PeakActivity.PeakHour)
	assert.Equal(t, models.HistogramPeak{Key: "09", Count: 2}, *hm.PeakActivity.PeakHour)
}

func TestBuildActivityHeatmap_Empty(t *testing.T) {
	hm := buildActivityHeatmap(nil, models.QuarterlyInsights{})

	assert.Empty(t, hm.Daily)
	assert.Nil(t, hm.PeakActivity.BusiestDay)
	assert.Nil(t, hm.PeakActivity.BusiestMonth)
	assert.Nil(t, hm.PeakActivity.PeakHour)
}
