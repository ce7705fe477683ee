package calendar

import "time"

// Week is an inclusive Sunday-Saturday span of YYYY-MM-DD dates
type Week struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d time.Time) time.Time {
	c := Civil(d)
	return AddDays(c, -int(c.Weekday()))
}

// WeekBoundaries returns the Sunday and Saturday of the week containing d.
func WeekBoundaries(d time.Time) Week {
	start := StartOfWeek(d)
	return Week{
		Start: Format(start),
		End:   Format(AddDays(start, 6)),
	}
}

// DatesInWeek returns the seven dates of the week containing d, Sunday first.
func DatesInWeek(d time.Time) [7]string {
	var days [7]string
	start := StartOfWeek(d)
	for i := range days {
		days[i] = Format(AddDays(start, i))
	}
	return days
}
