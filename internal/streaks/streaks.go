// Package streaks computes per-habit statistics from a completion snapshot.
//
// Every function is pure: records are passed explicitly, never modified, and
// "today" is supplied by the caller so one evaluation pass sees one clock.
// Record keys that are not valid dates and habit ids that no longer exist
// are ignored.
package streaks

import (
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
)

// CurrentStreak counts consecutive completed days ending today. A habit not
// yet completed today has a current streak of 0.
func CurrentStreak(habitID string, records models.CompletionRecords, today time.Time) int {
	streak := 0
	for d := calendar.Civil(today); records.IsCompleted(calendar.Format(d), habitID); d = calendar.AddDays(d, -1) {
		streak++
	}
	return streak
}

// BestStreak returns the longest run of consecutive completed days, or 0 if
// the habit was never completed.
func BestStreak(habitID string, records models.CompletionRecords) int {
	days := completedDays(habitID, records)

	best, run := 0, 0
	for i, d := range days {
		if i > 0 && calendar.DaysBetween(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// TotalCompletions counts every day the habit was completed.
func TotalCompletions(habitID string, records models.CompletionRecords) int {
	return len(completedDays(habitID, records))
}

// WeeklyCompletions counts completions in the Sunday-Saturday week containing date.
func WeeklyCompletions(habitID string, date time.Time, records models.CompletionRecords) int {
	count := 0
	for _, day := range calendar.DatesInWeek(date) {
		if records.IsCompleted(day, habitID) {
			count++
		}
	}
	return count
}

// WeeklyGoalMet reports whether the habit reached its weekly goal in the
// week containing date.
func WeeklyGoalMet(habit models.Habit, date time.Time, records models.CompletionRecords) bool {
	return WeeklyCompletions(habit.ID, date, records) >= habit.WeeklyGoal
}

// GoalPercentage returns completions as a percentage of goal. It is not
// capped at 100.
func GoalPercentage(completions, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(completions) / float64(goal) * 100
}

// RangeStats summarizes the inclusive range start..end. An empty or inverted
// range has zero days and a zero rate.
func RangeStats(habitID string, start, end time.Time, records models.CompletionRecords) models.RangeStats {
	total := calendar.DaysBetween(start, end) + 1
	if total <= 0 {
		return models.RangeStats{}
	}

	completed := 0
	for d := calendar.Civil(start); !d.After(calendar.Civil(end)); d = calendar.AddDays(d, 1) {
		if records.IsCompleted(calendar.Format(d), habitID) {
			completed++
		}
	}

	return models.RangeStats{
		TotalDays:      total,
		CompletedDays:  completed,
		CompletionRate: float64(completed) / float64(total) * 100,
	}
}

// completedDays returns the parsed days on which habitID was completed, ascending.
func completedDays(habitID string, records models.CompletionRecords) []time.Time {
	var days []time.Time
	for key, rec := range records {
		if !rec.Has(habitID) {
			continue
		}
		d, err := calendar.Parse(key)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
