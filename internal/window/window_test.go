package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    string
		wantSince time.Time
		wantUntil time.Time
	}{
		{
			name:      "current quarter in February ends March 31",
			filter:    FilterCurrent,
			wantSince: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "last financial year invoked in February 2024",
			filter:    FilterLastFinancial,
			wantSince: time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "past year",
			filter:    FilterPastYear,
			wantSince: now.AddDate(0, 0, -365),
			wantUntil: now,
		},
		{
			name:      "unknown filter falls back to 90 days",
			filter:    "whatever",
			wantSince: now.AddDate(0, 0, -90),
			wantUntil: now,
		},
		{
			name:      "empty filter falls back to 90 days",
			filter:    "",
			wantSince: now.AddDate(0, 0, -90),
			wantUntil: now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Resolve(tt.filter, 0, 0, now)
			assert.Equal(t, tt.wantSince, w.Since)
			assert.Equal(t, tt.wantUntil, w.Until)
		})
	}
}

func TestResolveQuarterBoundaries(t *testing.T) {
	tests := []struct {
		month     time.Month
		wantStart time.Month
		wantEnd   time.Time
	}{
		{time.March, time.January, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)},
		{time.May, time.April, time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC)},
		{time.August, time.July, time.Date(2024, time.September, 30, 23, 59, 59, 0, time.UTC)},
		{time.November, time.October, time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		now := time.Date(2024, tt.month, 10, 9, 0, 0, 0, time.UTC)
		w := Resolve(FilterCurrent, 0, 0, now)
		assert.Equal(t, tt.wantStart, w.Since.Month(), "start month for %v", tt.month)
		assert.Equal(t, 1, w.Since.Day())
		assert.Equal(t, tt.wantEnd, w.Until, "end for %v", tt.month)
	}
}

func TestResolveFiscalYearAfterApril(t *testing.T) {
	now := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	w := Resolve(FilterLastFinancial, 0, 0, now)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), w.Since)
	assert.Equal(t, time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC), w.Until)
}

func TestResolveExplicitEpochsWin(t *testing.T) {
	now := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)

	w := Resolve(FilterCurrent, start.Unix(), end.Unix(), now)
	assert.True(t, w.Since.Equal(start))
	assert.True(t, w.Until.Equal(end))
}

func TestWindowContains(t *testing.T) {
	w := Window{
		Since: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Since), "window start is inclusive")
	assert.False(t, w.Contains(w.Until), "window end is exclusive")
	assert.True(t, w.Contains(time.Date(2024, time.February, 10, 5, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)))
}

func TestFilterIdempotent(t *testing.T) {
	w := Window{
		Since: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	}

	type rec struct{ at time.Time }
	records := []rec{
		{time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)},
		{time.Time{}}, // unparseable date, always dropped
	}

	once := Filter(records, func(r rec) time.Time { return r.at }, w)
	twice := Filter(once, func(r rec) time.Time { return r.at }, w)

	assert.Len(t, once, 2)
	assert.Equal(t, once, twice)
}
