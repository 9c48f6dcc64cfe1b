package services

import (
	"fmt"
	"time"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// StartOfDay normalizes a time to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes a time to 23:59:59.999 in its own location
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, t.Location())
}

// Yesterday returns midnight of the day before the given time. Several
// rules in this app (expiry, visit locking, end-date validation) compare
// against yesterday rather than today, so records stay editable through
// the day after their date.
func Yesterday(now time.Time) time.Time {
	return StartOfDay(now.AddDate(0, 0, -1))
}

// MonthsBetween returns the whole calendar-month difference between two
// dates, ignoring day-of-month. Near month boundaries this under- or
// over-counts by up to one month; callers rely on that exact behavior.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// FormatAge renders the equipment age since installation as e.g.
// "4 years 2 months". The year segment is dropped entirely under one year,
// and the month segment is dropped when it is zero but years are not.
func FormatAge(installationDate, now time.Time) string {
	months := MonthsBetween(installationDate, now)
	years := months / 12
	remainingMonths := months % 12

	if years == 0 {
		return pluralize(remainingMonths, "month")
	}

	if remainingMonths == 0 {
		return pluralize(years, "year")
	}

	return pluralize(years, "year") + " " + pluralize(remainingMonths, "month")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
