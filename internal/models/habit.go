package models

import "time"

// Habit represents a recurring practice with a weekly target
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	Color       string    `json:"color"`       // hex, e.g. "#22C55E"
	WeeklyGoal  int       `json:"weekly_goal"` // completions per Sunday-Saturday week, 1..7
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HabitIDs returns the ids of the given habits in order.
func HabitIDs(habits []Habit) []string {
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return ids
}
