package format

import (
	"testing"
	"time"
)

func TestGroupedInt(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{299000, "299,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := GroupedInt(tt.amount); got != tt.want {
				t.Errorf("GroupedInt(%d) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestDateHelpers(t *testing.T) {
	day := time.Date(2024, time.January, 5, 14, 30, 0, 0, time.UTC)

	if got := DayLabel(day); got != "Jan 5" {
		t.Errorf("DayLabel() = %q, want %q", got, "Jan 5")
	}
	if got := DateUS(day); got != "Jan 5, 2024" {
		t.Errorf("DateUS() = %q, want %q", got, "Jan 5, 2024")
	}
	if got := DateGB(day); got != "05 Jan 2024" {
		t.Errorf("DateGB() = %q, want %q", got, "05 Jan 2024")
	}
}
