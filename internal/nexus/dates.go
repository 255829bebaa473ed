package nexus

import "time"

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func janFirst(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// firstOfNextMonth returns the first day of the month after d.
func firstOfNextMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// monthKey collapses a date to the first of its month, the bucket key for
// rolling-window math.
func monthKey(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from start to end, flooring partial days.
// Both are treated as UTC dates.
func daysBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(dateOnly(end).Sub(dateOnly(start)).Hours() / 24)
}

// monthsBetween counts elapsed calendar months from start to end, with any
// partial month counting as a full one. Late-period penalties accrue this way.
func monthsBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() > start.Day() {
		months++
	} else if months == 0 {
		months = 1
	}
	return months
}
