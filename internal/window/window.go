// Package window resolves named time filters into concrete instant
// ranges and provides calendar-quarter bucketing helpers.
package window

import "time"

// Named filters accepted by Resolve.
const (
	FilterCurrent       = "current"
	FilterLastFinancial = "last_financial"
	FilterPastYear      = "past_year"
)

// Window is a half-open [Since, Until) instant range.
type Window struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && t.Before(w.Until)
}

// Resolve converts a named filter or an explicit epoch-second pair into
// a concrete window. Explicit instants always take precedence over the
// filter. Unrecognized or empty filters fall back to the trailing 90
// days.
func Resolve(filter string, startEpoch, endEpoch int64, now time.Time) Window {
	if startEpoch > 0 && endEpoch > 0 {
		return Window{
			Since: time.Unix(startEpoch, 0).UTC(),
			Until: time.Unix(endEpoch, 0).UTC(),
		}
	}

	switch filter {
	case FilterCurrent:
		return currentQuarter(now)
	case FilterLastFinancial:
		return fiscalYear(now)
	case FilterPastYear:
		return Window{Since: now.AddDate(0, 0, -365), Until: now}
	default:
		// Safe fallback, also used when no filter is supplied
		return Window{Since: now.AddDate(0, 0, -90), Until: now}
	}
}

// currentQuarter returns the calendar quarter containing now, ending at
// the quarter's last second (Mar 31 / Jun 30 / Sep 30 / Dec 31,
// 23:59:59).
func currentQuarter(now time.Time) Window {
	startMonth := time.Month((int(now.Month())-1)/3*3 + 1)
	start := time.Date(now.Year(), startMonth, 1, 0, 0, 0, 0, now.Location())

	var end time.Time
	switch startMonth {
	case time.January:
		end = time.Date(now.Year(), time.March, 31, 23, 59, 59, 0, now.Location())
	case time.April:
		end = time.Date(now.Year(), time.June, 30, 23, 59, 59, 0, now.Location())
	case time.July:
		end = time.Date(now.Year(), time.September, 30, 23, 59, 59, 0, now.Location())
	default:
		end = time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, now.Location())
	}

	return Window{Since: start, Until: end}
}

// fiscalYear returns the Apr 1 - Mar 31 accounting period containing or
// preceding now: starting this calendar year when the current month is
// April or later, the previous year otherwise.
func fiscalYear(now time.Time) Window {
	startYear := now.Year()
	if now.Month() < time.April {
		startYear--
	}

	return Window{
		Since: time.Date(startYear, time.April, 1, 0, 0, 0, 0, now.Location()),
		Until: time.Date(startYear+1, time.March, 31, 23, 59, 59, 0, now.Location()),
	}
}

// Filter returns the commits of in that fall inside w, preserving
// order. Filtering an already-filtered slice by the same window returns
// an equal slice.
func Filter[T any](in []T, at func(T) time.Time, w Window) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		ts := at(item)
		if ts.IsZero() {
			// Unparseable dates are excluded from all time-bucketed statistics
			continue
		}
		if w.Contains(ts) {
			out = append(out, item)
		}
	}
	return out
}
