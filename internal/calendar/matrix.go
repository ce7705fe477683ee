package calendar

import "time"

// Cell is one day of a month grid
type Cell struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	IsCurrentMonth bool   `json:"is_current_month"`
	IsToday        bool   `json:"is_today"`
}

// Matrix lays out the given month as whole Sunday-first weeks. Leading and
// trailing days from the neighbouring months fill the first and last rows.
func Matrix(year int, month time.Month, today time.Time) [][7]Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	todayStr := Format(today)

	start := StartOfWeek(first)
	end := AddDays(StartOfWeek(last), 6)

	var weeks [][7]Cell
	for cur := start; !cur.After(end); cur = AddDays(cur, 7) {
		var week [7]Cell
		for i := range week {
			d := AddDays(cur, i)
			date := Format(d)
			week[i] = Cell{
				Date:           date,
				Day:            d.Day(),
				IsCurrentMonth: d.Month() == month && d.Year() == year,
				IsToday:        date == todayStr,
			}
		}
		weeks = append(weeks, week)
	}
	return weeks
}
