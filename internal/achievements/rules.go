package achievements

import (
	"github.com/julianstephens/habitual/internal/models"
)

// Kind selects how a requirement folds per-habit values into a verdict
type Kind string

const (
	// KindMax: the largest metric value across habits reaches Threshold
	KindMax Kind = "max"
	// KindHabitCount: the number of habits reaches Threshold
	KindHabitCount Kind = "habit_count"
	// KindAny: at least one habit's metric reaches Threshold
	KindAny Kind = "any"
	// KindCountMeeting: at least MinHabits habits have metric >= Threshold
	KindCountMeeting Kind = "count_meeting"
	// KindSum: the metric summed over all habits reaches Threshold
	KindSum Kind = "sum"
	// KindAllMeeting: every habit has metric >= Threshold, and there are at
	// least max(MinHabits, 1) habits
	KindAllMeeting Kind = "all_meeting"
)

// Metric names a field of models.DerivedHabitStats
type Metric string

const (
	MetricCurrentStreak        Metric = "current_streak"
	MetricBestStreak           Metric = "best_streak"
	MetricWeeklyGoalPercentage Metric = "weekly_goal_percentage"
	MetricWeeklyCompletions    Metric = "weekly_completions"
	MetricTotalCompletions     Metric = "total_completions"
	MetricThirtyDayRate        Metric = "thirty_day_rate"
	MetricMonthRate            Metric = "month_rate"
	MetricMorningCompletions   Metric = "morning_completions"
	MetricNightCompletions     Metric = "night_completions"
)

// Value extracts the metric from one habit's stats. Unknown metrics read as 0.
func (m Metric) Value(s models.DerivedHabitStats) float64 {
	switch m {
	case MetricCurrentStreak:
		return float64(s.CurrentStreak)
	case MetricBestStreak:
		return float64(s.BestStreak)
	case MetricWeeklyGoalPercentage:
		return s.WeeklyGoalPercentage
	case MetricWeeklyCompletions:
		return float64(s.WeeklyCompletions)
	case MetricTotalCompletions:
		return float64(s.TotalCompletions)
	case MetricThirtyDayRate:
		return s.RangeStats.CompletionRate
	case MetricMonthRate:
		return s.MonthStats.CompletionRate
	case MetricMorningCompletions:
		return float64(s.TimeOfDay.Morning)
	case MetricNightCompletions:
		return float64(s.TimeOfDay.Night)
	}
	return 0
}

// Requirement is a declarative badge rule over the per-habit stats slice
type Requirement struct {
	Kind      Kind    `json:"kind"`
	Metric    Metric  `json:"metric,omitempty"`
	Threshold float64 `json:"threshold"`
	MinHabits int     `json:"min_habits,omitempty"`
}

// Met evaluates the requirement. It reads stats and nothing else.
func (r Requirement) Met(stats []models.DerivedHabitStats) bool {
	switch r.Kind {
	case KindMax:
		return len(stats) > 0 && r.max(stats) >= r.Threshold
	case KindHabitCount:
		return float64(len(stats)) >= r.Threshold
	case KindAny:
		return r.meeting(stats) > 0
	case KindCountMeeting:
		return r.meeting(stats) >= r.MinHabits
	case KindSum:
		return r.sum(stats) >= r.Threshold
	case KindAllMeeting:
		return len(stats) >= max(r.MinHabits, 1) && r.meeting(stats) == len(stats)
	}
	return false
}

// Progress reports how close stats are to meeting the requirement, 0..1.
func (r Requirement) Progress(stats []models.DerivedHabitStats) float64 {
	if r.Met(stats) {
		return 1
	}

	var p float64
	switch r.Kind {
	case KindMax, KindAny:
		if len(stats) > 0 {
			p = ratio(r.max(stats), r.Threshold)
		}
	case KindHabitCount:
		p = ratio(float64(len(stats)), r.Threshold)
	case KindCountMeeting:
		p = ratio(float64(r.meeting(stats)), float64(r.MinHabits))
	case KindSum:
		p = ratio(r.sum(stats), r.Threshold)
	case KindAllMeeting:
		need := max(len(stats), r.MinHabits, 1)
		p = ratio(float64(r.meeting(stats)), float64(need))
	}
	// an unmet requirement never reports full progress
	return min(p, 0.99)
}

func (r Requirement) max(stats []models.DerivedHabitStats) float64 {
	best := 0.0
	for i, s := range stats {
		if v := r.Metric.Value(s); i == 0 || v > best {
			best = v
		}
	}
	return best
}

func (r Requirement) sum(stats []models.DerivedHabitStats) float64 {
	total := 0.0
	for _, s := range stats {
		total += r.Metric.Value(s)
	}
	return total
}

func (r Requirement) meeting(stats []models.DerivedHabitStats) int {
	n := 0
	for _, s := range stats {
		if r.Metric.Value(s) >= r.Threshold {
			n++
		}
	}
	return n
}

func ratio(v, target float64) float64 {
	if target <= 0 {
		return 1
	}
	if v <= 0 {
		return 0
	}
	return min(v/target, 1)
}
