package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/streaks"
)

// Insight is one observation about the user's habits
type Insight struct {
	HabitID string
	Text    string
}

// BuildInsights derives plain-language observations from a report: when each
// habit is usually done, which streaks are at risk today and which habits
// are strongest and weakest over the last 30 days.
func BuildInsights(rep stats.Report) []Insight {
	var out []Insight
	todayStr := calendar.Format(rep.Today)
	yesterday := calendar.AddDays(rep.Today, -1)

	for _, h := range rep.Habits {
		s, ok := rep.StatsFor(h.ID)
		if !ok {
			continue
		}
		if tod := s.TimeOfDay; tod.Total > 0 {
			bucket, n := dominantBucket(tod)
			out = append(out, Insight{
				HabitID: h.ID,
				Text:    fmt.Sprintf("%s is mostly done in the %s (%d of %d), peak %02d:00", h.Name, bucket, n, tod.Total, tod.PeakHour),
			})
		}
		if !rep.Records.IsCompleted(todayStr, h.ID) {
			if n := streaks.CurrentStreak(h.ID, rep.Records, yesterday); n > 0 {
				out = append(out, Insight{
					HabitID: h.ID,
					Text:    fmt.Sprintf("%s: %d-day streak ends tonight unless you mark it", h.Name, n),
				})
			}
		}
	}

	if len(rep.Stats) > 1 {
		ranked := append([]models.DerivedHabitStats(nil), rep.Stats...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].RangeStats.CompletionRate > ranked[j].RangeStats.CompletionRate
		})
		best, worst := ranked[0], ranked[len(ranked)-1]
		if best.RangeStats.CompletionRate > worst.RangeStats.CompletionRate {
			out = append(out,
				Insight{HabitID: best.HabitID, Text: fmt.Sprintf("Strongest: %s at %.0f%% over 30 days", nameOf(rep, best.HabitID), best.RangeStats.CompletionRate)},
				Insight{HabitID: worst.HabitID, Text: fmt.Sprintf("Needs attention: %s at %.0f%% over 30 days", nameOf(rep, worst.HabitID), worst.RangeStats.CompletionRate)},
			)
		}
	}
	return out
}

// dominantBucket picks the busiest part of the day; earlier buckets win ties.
func dominantBucket(t models.TimeOfDay) (string, int) {
	buckets := []struct {
		name string
		n    int
	}{
		{"morning", t.Morning},
		{"afternoon", t.Afternoon},
		{"evening", t.Evening},
		{"night", t.Night},
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.n > best.n {
			best = b
		}
	}
	return best.name, best.n
}

func nameOf(rep stats.Report, id string) string {
	for _, h := range rep.Habits {
		if h.ID == id {
			return h.Name
		}
	}
	return id
}

func (r *Renderer) Insights(items []Insight) string {
	var b strings.Builder
	b.WriteString(r.title.Render("Insights"))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(r.muted.Render("not enough data yet"))
		b.WriteString("\n")
		return b.String()
	}
	for _, it := range items {
		b.WriteString(r.accent.Render("• "))
		b.WriteString(it.Text)
		b.WriteString("\n")
	}
	return b.String()
}
