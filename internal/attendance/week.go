package attendance

import (
	"time"

	"rollbook/internal/apperror"
)

// DateLayout is the on-disk and wire format of attendance dates.
const DateLayout = "2006-01-02"

// ParseDate accepts only canonical YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil || d.Format(DateLayout) != s {
		return time.Time{}, apperror.Constraint("date", "date must be YYYY-MM-DD")
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// Day truncates t to its calendar date in t's own location, returned as
// midnight UTC so day arithmetic is free of DST shifts.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MondayOf returns the Monday starting the week that contains d.
func MondayOf(d time.Time) time.Time {
	d = Day(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekDays returns the Tuesday and Thursday of the week starting at monday.
func WeekDays(monday time.Time) (tuesday, thursday time.Time) {
	monday = Day(monday)
	return monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 3)
}
