// Package achievements evaluates badge rules against habit statistics and
// reconciles the results with a user's persisted achievement records.
package achievements

import (
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// BadgeDefinition is a static catalog entry
type BadgeDefinition struct {
	ID          string                  `json:"id"`
	Emoji       string                  `json:"emoji"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    constants.BadgeCategory `json:"category"`
	Rarity      constants.Rarity        `json:"rarity"`
	Type        constants.BadgeType     `json:"type"`
	Requirement Requirement             `json:"requirement"`
}

var catalog = []BadgeDefinition{
	// Streaks
	{
		ID: "fire_starter", Emoji: "🔥", Title: "Fire Starter",
		Description: "Keep any habit going for 3 days in a row",
		Category:    constants.CategoryStreak, Rarity: constants.RarityCommon, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 3},
	},
	{
		ID: "week_warrior", Emoji: "⚔️", Title: "Week Warrior",
		Description: "Keep any habit going for 7 days in a row",
		Category:    constants.CategoryStreak, Rarity: constants.RarityUncommon, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 7},
	},
	{
		ID: "fortnight_focus", Emoji: "🎯", Title: "Fortnight Focus",
		Description: "Keep any habit going for 14 days in a row",
		Category:    constants.CategoryStreak, Rarity: constants.RarityRare, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 14},
	},
	{
		ID: "monthly_master", Emoji: "🌙", Title: "Monthly Master",
		Description: "Keep any habit going for 30 days in a row",
		Category:    constants.CategoryStreak, Rarity: constants.RarityEpic, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 30},
	},
	{
		ID: "century_club", Emoji: "💯", Title: "Century Club",
		Description: "Keep any habit going for 100 days in a row",
		Category:    constants.CategoryStreak, Rarity: constants.RarityLegendary, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 100},
	},
	{
		ID: "unstoppable", Emoji: "🚀", Title: "Unstoppable",
		Description: "Reach a best streak of 21 days on any habit",
		Category:    constants.CategoryStreak, Rarity: constants.RarityRare, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindMax, Metric: MetricBestStreak, Threshold: 21},
	},
	{
		ID: "streak_legend", Emoji: "👑", Title: "Streak Legend",
		Description: "Reach a best streak of 50 days on any habit",
		Category:    constants.CategoryStreak, Rarity: constants.RarityEpic, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindMax, Metric: MetricBestStreak, Threshold: 50},
	},

	// Habits
	{
		ID: "first_step", Emoji: "🌱", Title: "First Step",
		Description: "Create your first habit",
		Category:    constants.CategoryHabits, Rarity: constants.RarityCommon, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindHabitCount, Threshold: 1},
	},
	{
		ID: "habit_builder", Emoji: "🧱", Title: "Habit Builder",
		Description: "Track 3 habits at once",
		Category:    constants.CategoryHabits, Rarity: constants.RarityCommon, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindHabitCount, Threshold: 3},
	},
	{
		ID: "habit_architect", Emoji: "🏗️", Title: "Habit Architect",
		Description: "Track 5 habits at once",
		Category:    constants.CategoryHabits, Rarity: constants.RarityUncommon, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindHabitCount, Threshold: 5},
	},
	{
		ID: "habit_collector", Emoji: "🗂️", Title: "Habit Collector",
		Description: "Track 10 habits at once",
		Category:    constants.CategoryHabits, Rarity: constants.RarityRare, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindHabitCount, Threshold: 10},
	},

	// Weekly goals
	{
		ID: "goal_getter", Emoji: "✅", Title: "Goal Getter",
		Description: "Hit the weekly goal on any habit",
		Category:    constants.CategoryGoals, Rarity: constants.RarityCommon, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindAny, Metric: MetricWeeklyGoalPercentage, Threshold: 100},
	},
	{
		ID: "overachiever", Emoji: "🌟", Title: "Overachiever",
		Description: "Reach 150% of the weekly goal on any habit",
		Category:    constants.CategoryGoals, Rarity: constants.RarityUncommon, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindAny, Metric: MetricWeeklyGoalPercentage, Threshold: 150},
	},
	{
		ID: "goal_crusher", Emoji: "💪", Title: "Goal Crusher",
		Description: "Hit the weekly goal on 3 habits in the same week",
		Category:    constants.CategoryGoals, Rarity: constants.RarityRare, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindCountMeeting, Metric: MetricWeeklyGoalPercentage, Threshold: 100, MinHabits: 3},
	},
	{
		ID: "perfect_week", Emoji: "🏆", Title: "Perfect Week",
		Description: "Hit the weekly goal on every habit",
		Category:    constants.CategoryGoals, Rarity: constants.RarityEpic, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindAllMeeting, Metric: MetricWeeklyGoalPercentage, Threshold: 100, MinHabits: 2},
	},

	// Milestones
	{
		ID: "first_check", Emoji: "☑️", Title: "First Check",
		Description: "Complete a habit for the first time",
		Category:    constants.CategoryMilestones, Rarity: constants.RarityCommon, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricTotalCompletions, Threshold: 1},
	},
	{
		ID: "half_century", Emoji: "🎉", Title: "Half Century",
		Description: "Log 50 completions across all habits",
		Category:    constants.CategoryMilestones, Rarity: constants.RarityUncommon, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricTotalCompletions, Threshold: 50},
	},
	{
		ID: "centurion", Emoji: "🛡️", Title: "Centurion",
		Description: "Log 100 completions across all habits",
		Category:    constants.CategoryMilestones, Rarity: constants.RarityRare, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricTotalCompletions, Threshold: 100},
	},
	{
		ID: "five_hundred", Emoji: "💎", Title: "Five Hundred",
		Description: "Log 500 completions across all habits",
		Category:    constants.CategoryMilestones, Rarity: constants.RarityEpic, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricTotalCompletions, Threshold: 500},
	},
	{
		ID: "thousand_strong", Emoji: "🏔️", Title: "Thousand Strong",
		Description: "Log 1000 completions across all habits",
		Category:    constants.CategoryMilestones, Rarity: constants.RarityLegendary, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricTotalCompletions, Threshold: 1000},
	},

	// Consistency
	{
		ID: "consistency_king", Emoji: "📈", Title: "Consistency King",
		Description: "Complete any habit on 80% of the last 30 days",
		Category:    constants.CategoryConsistency, Rarity: constants.RarityRare, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindAny, Metric: MetricThirtyDayRate, Threshold: 80},
	},
	{
		ID: "flawless_month", Emoji: "✨", Title: "Flawless Month",
		Description: "Complete any habit on every one of the last 30 days",
		Category:    constants.CategoryConsistency, Rarity: constants.RarityLegendary, Type: constants.BadgeDynamic,
		Requirement: Requirement{Kind: KindAny, Metric: MetricThirtyDayRate, Threshold: 100},
	},

	// Timing
	{
		ID: "early_bird", Emoji: "🐦", Title: "Early Bird",
		Description: "Complete habits 10 times between 5am and noon",
		Category:    constants.CategoryTiming, Rarity: constants.RarityUncommon, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricMorningCompletions, Threshold: 10},
	},
	{
		ID: "night_owl", Emoji: "🦉", Title: "Night Owl",
		Description: "Complete habits 10 times between 9pm and 5am",
		Category:    constants.CategoryTiming, Rarity: constants.RarityUncommon, Type: constants.BadgePermanent,
		Requirement: Requirement{Kind: KindSum, Metric: MetricNightCompletions, Threshold: 10},
	},
}

// Catalog returns a copy of the built-in badge definitions.
func Catalog() []BadgeDefinition {
	out := make([]BadgeDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a built-in badge by id.
func Lookup(id string) (BadgeDefinition, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

// Evaluate reports, for each definition, whether its requirement holds.
func Evaluate(defs []BadgeDefinition, stats []models.DerivedHabitStats) map[string]bool {
	out := make(map[string]bool, len(defs))
	for _, d := range defs {
		out[d.ID] = d.Requirement.Met(stats)
	}
	return out
}
