package service

import "testing"

func TestFormatSolveTime(t *testing.T) {
	cases := []struct {
		name   string
		millis int64
		want   string
	}{
		{"zero", 0, ""},
		{"seconds only", 5_000, "5s"},
		{"minutes and seconds", 65_000, "1m 5s"},
		{"whole minute keeps trailing space", 60_000, "1m "},
		{"whole hour keeps trailing space", 3_600_000, "1h "},
		{"all units", 3_661_000, "1h 1m 1s"},
		{"zero minute dropped between hour and second", 3_605_000, "1h 5s"},
		{"hours wrap at a day", 86_400_000, ""},
		{"sub-second rounds down to empty", 900, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSolveTime(tc.millis); got != tc.want {
				t.Fatalf("FormatSolveTime(%d) = %q, want %q", tc.millis, got, tc.want)
			}
		})
	}
}
