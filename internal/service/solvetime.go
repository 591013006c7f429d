package service

import "fmt"

// FormatSolveTime renders an elapsed solve time as "H h M m S s" with
// zero-valued units omitted. The suppression is per-unit (a zero minute
// between a nonzero hour and second is dropped, and hours wrap at 24);
// clients already display this exact shape, so keep it verbatim.
func FormatSolveTime(deltaMillis int64) string {
	seconds := (deltaMillis / 1000) % 60
	minutes := (deltaMillis / (1000 * 60)) % 60
	hours := (deltaMillis / (1000 * 60 * 60)) % 24

	result := ""
	if seconds != 0 {
		result = fmt.Sprintf("%ds", seconds)
	}
	if minutes != 0 {
		result = fmt.Sprintf("%dm ", minutes) + result
	}
	if hours != 0 {
		result = fmt.Sprintf("%dh ", hours) + result
	}
	return result
}
