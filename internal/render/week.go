package render

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/stats"
)

// WeekProgress shows each habit's days this week against its weekly goal.
func (r *Renderer) WeekProgress(rep stats.Report) string {
	var b strings.Builder
	week := calendar.WeekBoundaries(rep.Today)
	b.WriteString(r.title.Render(fmt.Sprintf("Week of %s", week.Start)))
	b.WriteString("\n")
	if len(rep.Habits) == 0 {
		b.WriteString(r.muted.Render("no habits yet, add one with `habitual habit add`"))
		b.WriteString("\n")
		return b.String()
	}

	dates := calendar.DatesInWeek(rep.Today)
	todayStr := calendar.Format(rep.Today)
	nameWidth := 0
	for _, h := range rep.Habits {
		nameWidth = max(nameWidth, len([]rune(habitLabel(h.Emoji, h.Name))))
	}

	b.WriteString(strings.Repeat(" ", nameWidth+1))
	b.WriteString(r.muted.Render("S M T W T F S"))
	b.WriteString("\n")

	for _, h := range rep.Habits {
		s, _ := rep.StatsFor(h.ID)
		b.WriteString(padRight(habitLabel(h.Emoji, h.Name), nameWidth+1))

		dots := make([]string, len(dates))
		for i, d := range dates {
			switch {
			case d > todayStr:
				dots[i] = r.muted.Render("·")
			case rep.Records.IsCompleted(d, h.ID):
				dots[i] = r.good.Render("●")
			default:
				dots[i] = r.muted.Render("○")
			}
		}
		b.WriteString(strings.Join(dots, " "))

		pct := min(s.WeeklyGoalPercentage, 100)
		fmt.Fprintf(&b, "  %d/%d %3.0f%%", s.WeeklyCompletions, h.WeeklyGoal, pct)
		if s.WeeklyCompletions >= h.WeeklyGoal {
			b.WriteString(" " + r.good.Render("goal met"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
