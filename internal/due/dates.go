// Package due derives due dates from customer reference dates and filters the
// resulting collection.
package due

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Offset is the number of calendar days between a reference date and its due date.
const Offset = 8

// NotApplicable is rendered in place of a missing date.
const NotApplicable = "N/A"

// isoLayouts are tried when the text is not in DD/MM/YYYY form.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate reads a DD/MM/YYYY (or DD/MM/YY) string into a date in now's
// location. Out of range components roll over the way time.Date normalizes
// them. Text that is neither DD/MM/YYYY nor ISO-8601 yields now and false.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	if text == "" {
		return now, false
	}

	if parts := strings.Split(text, "/"); len(parts) == 3 {
		if t, ok := fromParts(parts, now.Location()); ok {
			return t, true
		}
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(text), now.Location()); err == nil {
			return t, true
		}
	}
	return now, false
}

func fromParts(parts []string, loc *time.Location) (time.Time, bool) {
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	day, month, year := n[0], n[1], n[2]
	if year >= 0 && year < 100 && len(strings.TrimSpace(parts[2])) <= 2 {
		year += 2000
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
}

// DueDate returns base plus Offset calendar days.
func DueDate(base time.Time) time.Time {
	return base.AddDate(0, 0, Offset)
}

// midnight strips the time of day, keeping the calendar date in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the signed number of calendar days from from to to.
// Times of day are ignored, and so are DST shifts between the two dates.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

// RemainingDays returns the days left until dueDate as seen from today, or -1
// when dueDate falls before today. Both are compared as calendar dates.
func RemainingDays(dueDate, today time.Time) int {
	dueDate = midnight(dueDate.In(today.Location()))
	if dueDate.Before(midnight(today)) {
		return -1
	}
	return DaysBetween(today, dueDate)
}

// FormatDate renders t as DD/MM/YYYY, or NotApplicable for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NotApplicable
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}
