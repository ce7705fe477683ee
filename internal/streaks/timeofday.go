package streaks

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// AnalyzeTimeOfDay buckets the habit's completion timestamps by local hour.
// Hours are read in loc at call time, so the same history can shift buckets
// if the user changes timezone. Completions without a timestamp are skipped.
func AnalyzeTimeOfDay(habitID string, records models.CompletionRecords, loc *time.Location) models.TimeOfDay {
	if loc == nil {
		loc = time.Local
	}

	tod := models.TimeOfDay{PeakHour: -1}
	for day := range records {
		detail, ok := records.Detail(day, habitID)
		if !ok || detail.CompletedAt.IsZero() {
			continue
		}
		hour := detail.CompletedAt.In(loc).Hour()
		tod.Hours[hour]++
		tod.Total++

		switch {
		case hour >= 5 && hour < 12:
			tod.Morning++
		case hour >= 12 && hour < 17:
			tod.Afternoon++
		case hour >= 17 && hour < 21:
			tod.Evening++
		default:
			tod.Night++
		}
	}

	// earliest hour wins ties
	for h, n := range tod.Hours {
		if n > 0 && (tod.PeakHour < 0 || n > tod.Hours[tod.PeakHour]) {
			tod.PeakHour = h
		}
	}
	return tod
}
