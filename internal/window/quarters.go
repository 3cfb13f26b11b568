package window

import (
	"fmt"
	"time"
)

// QuarterOf returns the "<year> Qn" bucket key for an instant.
func QuarterOf(t time.Time) string {
	quarter := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%d Q%d", t.Year(), quarter)
}

// TrailingQuarters returns the current quarter and the three before it,
// newest first, wrapping year boundaries.
func TrailingQuarters(now time.Time) []string {
	quarter := (int(now.Month())-1)/3 + 1
	year := now.Year()

	quarters := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		q := quarter - i
		y := year
		if q <= 0 {
			q += 4
			y--
		}
		quarters = append(quarters, fmt.Sprintf("%d Q%d", y, q))
	}

	return quarters
}
