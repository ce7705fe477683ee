// Package stats assembles per-habit statistics for a single evaluation pass.
package stats

import (
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

// Builder computes DerivedHabitStats against one clock reading per call
type Builder struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Builder
type Option func(*Builder)

// WithClock sets the clock read once per Build
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLocation sets the reference timezone for "today" and time-of-day buckets
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// NewBuilder creates a builder using the wall clock and local timezone by default
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Today returns the builder's current civil date
func (b *Builder) Today() time.Time {
	return calendar.DateOf(b.now(), b.loc)
}

// Build returns one entry per habit, in habit order. All entries share the
// same "today".
func (b *Builder) Build(habits []models.Habit, records models.CompletionRecords) []models.DerivedHabitStats {
	today := b.Today()
	out := make([]models.DerivedHabitStats, len(habits))
	for i, h := range habits {
		out[i] = ForHabit(h, records, today, b.loc)
	}
	return out
}

// Compute is Build with the wall clock and local timezone.
func Compute(habits []models.Habit, records models.CompletionRecords) []models.DerivedHabitStats {
	return NewBuilder().Build(habits, records)
}

// ForHabit computes the stats of a single habit as of today.
func ForHabit(h models.Habit, records models.CompletionRecords, today time.Time, loc *time.Location) models.DerivedHabitStats {
	weekly := streaks.WeeklyCompletions(h.ID, today, records)
	windowStart := calendar.AddDays(today, -(constants.RollingWindowDays - 1))

	return models.DerivedHabitStats{
		HabitID:              h.ID,
		CurrentStreak:        streaks.CurrentStreak(h.ID, records, today),
		BestStreak:           streaks.BestStreak(h.ID, records),
		WeeklyCompletions:    weekly,
		WeeklyGoal:           h.WeeklyGoal,
		WeeklyGoalPercentage: streaks.GoalPercentage(weekly, h.WeeklyGoal),
		TotalCompletions:     streaks.TotalCompletions(h.ID, records),
		RangeStats:           streaks.RangeStats(h.ID, windowStart, today, records),
		MonthStats:           streaks.RangeStats(h.ID, calendar.StartOfMonth(today), today, records),
		HeatmapSeries:        streaks.HeatmapSeries(h.ID, today.Year(), records, today),
		TimeOfDay:            streaks.AnalyzeTimeOfDay(h.ID, records, loc),
	}
}
