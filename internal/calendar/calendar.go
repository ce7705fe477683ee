// Package calendar holds the date helpers the statistics engine is built on.
//
// Days are handled as civil dates: a time.Time at midnight UTC carrying only
// the year, month and day. Arithmetic on those values never crosses a DST
// transition, so adding one day always lands on the next calendar day.
// Conversion from a wall-clock instant to a civil date happens once, in the
// user's reference timezone, through Today or DateOf.
package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// Civil strips t down to its calendar date as seen in t's own location.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the civil date of instant t in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return Civil(t.In(loc))
}

// Today returns today's civil date in loc.
func Today(loc *time.Location) time.Time {
	return DateOf(time.Now(), loc)
}

// Parse parses a YYYY-MM-DD string into a civil date.
func Parse(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t, nil
}

// Format renders the calendar date of d as YYYY-MM-DD.
func Format(d time.Time) string {
	return Civil(d).Format(constants.DateFormat)
}

// AddDays moves a civil date by n days.
func AddDays(d time.Time, n int) time.Time {
	return Civil(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of days from a to b. It is negative when b
// is before a.
func DaysBetween(a, b time.Time) int {
	return int(Civil(b).Sub(Civil(a)).Hours() / 24)
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
