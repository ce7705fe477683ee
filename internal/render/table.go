package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitual/internal/stats"
)

// StatsTable lists the derived stats of every habit.
func (r *Renderer) StatsTable(rep stats.Report) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.muted).
		Headers("Habit", "Streak", "Best", "Week", "30d", "Month", "Total").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := r.lg.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(r.title)
			}
			if col > 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		})

	for _, h := range rep.Habits {
		s, _ := rep.StatsFor(h.ID)
		t.Row(
			habitLabel(h.Emoji, h.Name),
			fmt.Sprintf("%d", s.CurrentStreak),
			fmt.Sprintf("%d", s.BestStreak),
			fmt.Sprintf("%d/%d", s.WeeklyCompletions, s.WeeklyGoal),
			fmt.Sprintf("%.0f%%", s.RangeStats.CompletionRate),
			fmt.Sprintf("%.0f%%", s.MonthStats.CompletionRate),
			fmt.Sprintf("%d", s.TotalCompletions),
		)
	}
	return t.Render() + "\n"
}

// Summary prints the roll-up figures under the table.
func (r *Renderer) Summary(s stats.Summary) string {
	lines := []string{
		fmt.Sprintf("Done today      %d/%d", s.CompletedToday, s.Habits),
		fmt.Sprintf("Goals met       %d/%d this week", s.GoalsMetThisWeek, s.Habits),
		fmt.Sprintf("Active streaks  %d (longest %d, ever %d)", s.ActiveStreaks, s.LongestCurrent, s.LongestEver),
		fmt.Sprintf("Completions     %d total, %.0f%% over 30 days", s.TotalCompletions, s.ThirtyDayRate),
	}
	return r.muted.Render(strings.Join(lines, "\n")) + "\n"
}
