package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
)

// Calendar draws a month grid. Days where every habit in habitIDs was done
// are marked ✓, partial days •.
func (r *Renderer) Calendar(year int, month time.Month, today time.Time, habitIDs []string, records models.CompletionRecords) string {
	var b strings.Builder
	b.WriteString(r.title.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	b.WriteString(r.muted.Render("Su  Mo  Tu  We  Th  Fr  Sa"))
	b.WriteString("\n")

	for _, week := range calendar.Matrix(year, month, today) {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = r.calendarCell(c, habitIDs, records)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) calendarCell(c calendar.Cell, habitIDs []string, records models.CompletionRecords) string {
	if !c.IsCurrentMonth {
		return r.muted.Render(fmt.Sprintf("%2d ", c.Day))
	}

	done := 0
	for _, id := range habitIDs {
		if records.IsCompleted(c.Date, id) {
			done++
		}
	}
	mark := " "
	style := r.levels[0]
	switch {
	case len(habitIDs) > 0 && done == len(habitIDs):
		mark, style = "✓", r.good
	case done > 0:
		mark, style = "•", r.accent
	}

	day := fmt.Sprintf("%2d", c.Day)
	if c.IsToday {
		return r.title.Underline(true).Render(day) + style.Render(mark)
	}
	return style.Render(day + mark)
}
