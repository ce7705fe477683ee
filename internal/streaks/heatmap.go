package streaks

import (
	"math"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// HeatmapSeries returns one cell per day of year. Days after today are
// flagged as future and never shown as completed.
func HeatmapSeries(habitID string, year int, records models.CompletionRecords, today time.Time) []models.HeatmapCell {
	n := calendar.DaysInYear(year)
	cells := make([]models.HeatmapCell, n)
	todayCivil := calendar.Civil(today)

	d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		date := calendar.Format(d)
		future := d.After(todayCivil)
		cells[i] = models.HeatmapCell{
			Date:      date,
			Completed: !future && records.IsCompleted(date, habitID),
			IsFuture:  future,
		}
		d = calendar.AddDays(d, 1)
	}
	return cells
}

// IntensitySeries returns one cell per day of year counting how many of
// habitIDs were completed. Level scales that count against len(habitIDs)
// onto 1..4, with 0 meaning nothing was done. Ids in the records that are
// not in habitIDs are ignored.
func IntensitySeries(habitIDs []string, year int, records models.CompletionRecords, today time.Time) []models.IntensityCell {
	n := calendar.DaysInYear(year)
	cells := make([]models.IntensityCell, n)
	todayCivil := calendar.Civil(today)

	d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		date := calendar.Format(d)
		cell := models.IntensityCell{Date: date, IsFuture: d.After(todayCivil)}
		if !cell.IsFuture {
			for _, id := range habitIDs {
				if records.IsCompleted(date, id) {
					cell.Count++
				}
			}
			cell.Level = IntensityLevel(cell.Count, len(habitIDs))
		}
		cells[i] = cell
		d = calendar.AddDays(d, 1)
	}
	return cells
}

// IntensityLevel maps count out of total onto 0..HeatmapLevels.
func IntensityLevel(count, total int) int {
	if count <= 0 || total <= 0 {
		return 0
	}
	level := int(math.Ceil(float64(count) / float64(total) * constants.HeatmapLevels))
	if level > constants.HeatmapLevels {
		level = constants.HeatmapLevels
	}
	return level
}
