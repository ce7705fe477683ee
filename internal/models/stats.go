package models

// RangeStats summarizes completions over an inclusive range of days
type RangeStats struct {
	TotalDays      int     `json:"total_days"`
	CompletedDays  int     `json:"completed_days"`
	CompletionRate float64 `json:"completion_rate"` // percent, 0..100
}

// HeatmapCell is one day of a single habit's yearly heatmap
type HeatmapCell struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	IsFuture  bool   `json:"is_future"`
}

// IntensityCell is one day of the all-habits heatmap
type IntensityCell struct {
	Date     string `json:"date"`
	Count    int    `json:"count"` // known habits completed that day
	Level    int    `json:"level"` // 0..4
	IsFuture bool   `json:"is_future"`
}

// TimeOfDay is the hour-of-day distribution of a habit's completions
type TimeOfDay struct {
	Hours     [24]int `json:"hours"`
	Morning   int     `json:"morning"`   // 05:00-11:59
	Afternoon int     `json:"afternoon"` // 12:00-16:59
	Evening   int     `json:"evening"`   // 17:00-20:59
	Night     int     `json:"night"`     // 21:00-04:59
	PeakHour  int     `json:"peak_hour"` // -1 when there is no timed completion
	Total     int     `json:"total"`
}

// DerivedHabitStats are recomputed on every read and never persisted.
// WeeklyGoalPercentage is uncapped; clamp it for display.
type DerivedHabitStats struct {
	HabitID              string        `json:"habit_id"`
	CurrentStreak        int           `json:"current_streak"`
	BestStreak           int           `json:"best_streak"`
	WeeklyCompletions    int           `json:"weekly_completions"`
	WeeklyGoal           int           `json:"weekly_goal"`
	WeeklyGoalPercentage float64       `json:"weekly_goal_percentage"`
	TotalCompletions     int           `json:"total_completions"`
	RangeStats           RangeStats    `json:"range_stats"` // trailing 30 days including today
	MonthStats           RangeStats    `json:"month_stats"` // first of month through today
	HeatmapSeries        []HeatmapCell `json:"heatmap_series"`
	TimeOfDay            TimeOfDay     `json:"time_of_day"`
}
