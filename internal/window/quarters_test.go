package window

import (
	"testing"
	"time"
)

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"January is Q1", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "2024 Q1"},
		{"March is Q1", time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), "2024 Q1"},
		{"April is Q2", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "2024 Q2"},
		{"September is Q3", time.Date(2023, time.September, 15, 0, 0, 0, 0, time.UTC), "2023 Q3"},
		{"December is Q4", time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC), "2022 Q4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuarterOf(tt.t); got != tt.want {
				t.Errorf("QuarterOf(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestTrailingQuarters(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []string
	}{
		{
			name: "mid-year, no wrap",
			now:  time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
			want: []string{"2024 Q4", "2024 Q3", "2024 Q2", "2024 Q1"},
		},
		{
			name: "February wraps into previous year",
			now:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			want: []string{"2024 Q1", "2023 Q4", "2023 Q3", "2023 Q2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrailingQuarters(tt.now)
			if len(got) != len(tt.want) {
				t.Fatalf("TrailingQuarters() returned %d quarters, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("TrailingQuarters()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
