package stats

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

// Source is the read side of the store the report needs
type Source interface {
	GetHabits(userID string) ([]models.Habit, error)
	GetCompletionRecords(userID string) (models.CompletionRecords, error)
}

// Summary rolls the per-habit figures up for the whole user
type Summary struct {
	Habits           int
	CompletedToday   int
	GoalsMetThisWeek int
	ActiveStreaks    int
	LongestCurrent   int
	LongestEver      int
	TotalCompletions int
	ThirtyDayRate    float64 // mean of the per-habit 30-day rates
}

// Report is one consistent snapshot of a user's data and derived stats
type Report struct {
	Today   time.Time
	Habits  []models.Habit
	Records models.CompletionRecords
	Stats   []models.DerivedHabitStats
	Summary Summary
}

// StatsFor returns the stats entry for habitID
func (r Report) StatsFor(habitID string) (models.DerivedHabitStats, bool) {
	for _, s := range r.Stats {
		if s.HabitID == habitID {
			return s, true
		}
	}
	return models.DerivedHabitStats{}, false
}

// BuildReport loads habits and completions for userID and derives stats.
func (b *Builder) BuildReport(src Source, userID string) (Report, error) {
	habits, err := src.GetHabits(userID)
	if err != nil {
		return Report{}, fmt.Errorf("loading habits: %w", err)
	}
	records, err := src.GetCompletionRecords(userID)
	if err != nil {
		return Report{}, fmt.Errorf("loading completions: %w", err)
	}
	return b.Snapshot(habits, records), nil
}

// Snapshot derives a report from data already in memory.
func (b *Builder) Snapshot(habits []models.Habit, records models.CompletionRecords) Report {
	today := b.Today()
	derived := make([]models.DerivedHabitStats, len(habits))
	for i, h := range habits {
		derived[i] = ForHabit(h, records, today, b.loc)
	}
	return Report{
		Today:   today,
		Habits:  habits,
		Records: records,
		Stats:   derived,
		Summary: Summarize(habits, derived, records, today),
	}
}

// Summarize rolls per-habit stats up into a Summary.
func Summarize(habits []models.Habit, derived []models.DerivedHabitStats, records models.CompletionRecords, today time.Time) Summary {
	s := Summary{Habits: len(habits)}
	todayStr := calendar.Format(today)

	rateSum := 0.0
	for i, d := range derived {
		if records.IsCompleted(todayStr, d.HabitID) {
			s.CompletedToday++
		}
		if i < len(habits) && streaks.WeeklyGoalMet(habits[i], today, records) {
			s.GoalsMetThisWeek++
		}
		if d.CurrentStreak > 0 {
			s.ActiveStreaks++
		}
		s.LongestCurrent = max(s.LongestCurrent, d.CurrentStreak)
		s.LongestEver = max(s.LongestEver, d.BestStreak)
		s.TotalCompletions += d.TotalCompletions
		rateSum += d.RangeStats.CompletionRate
	}
	if len(derived) > 0 {
		s.ThirtyDayRate = rateSum / float64(len(derived))
	}
	return s
}
