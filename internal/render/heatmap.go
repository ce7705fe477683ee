package render

import (
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

var levelGlyphs = [constants.HeatmapLevels + 1]string{"·", "░", "▒", "▓", "█"}

type dayCell struct {
	date   time.Time
	level  int
	future bool
}

// Heatmap draws a single habit's year as a Sunday-first week grid.
func (r *Renderer) Heatmap(title string, cells []models.HeatmapCell) string {
	days := make([]dayCell, 0, len(cells))
	for _, c := range cells {
		d, err := calendar.Parse(c.Date)
		if err != nil {
			continue
		}
		level := 0
		if c.Completed {
			level = constants.HeatmapLevels
		}
		days = append(days, dayCell{date: d, level: level, future: c.IsFuture})
	}
	return r.grid(title, days)
}

// IntensityHeatmap draws the all-habits year using the 0..4 levels.
func (r *Renderer) IntensityHeatmap(title string, cells []models.IntensityCell) string {
	days := make([]dayCell, 0, len(cells))
	for _, c := range cells {
		d, err := calendar.Parse(c.Date)
		if err != nil {
			continue
		}
		days = append(days, dayCell{date: d, level: c.Level, future: c.IsFuture})
	}
	return r.grid(title, days)
}

const rowLabelWidth = 4

func (r *Renderer) grid(title string, days []dayCell) string {
	var b strings.Builder
	b.WriteString(r.title.Render(title))
	b.WriteString("\n")
	if len(days) == 0 {
		b.WriteString(r.muted.Render("no data"))
		b.WriteString("\n")
		return b.String()
	}

	// columns[w][weekday]
	var columns [][7]*dayCell
	lead := int(days[0].date.Weekday())
	for i := range days {
		slot := lead + i
		col := slot / 7
		for len(columns) <= col {
			columns = append(columns, [7]*dayCell{})
		}
		columns[col][slot%7] = &days[i]
	}

	// keep the most recent weeks that are not entirely in the future
	last := len(columns) - 1
	for last > 0 && columnFuture(columns[last]) {
		last--
	}
	fit := max((r.width-rowLabelWidth)/2, 1)
	first := max(last-fit+1, 0)
	columns = columns[first : last+1]

	b.WriteString(strings.Repeat(" ", rowLabelWidth))
	b.WriteString(monthLabels(columns))
	b.WriteString("\n")

	rowLabels := [7]string{"", "Mon", "", "Wed", "", "Fri", ""}
	for wd := 0; wd < 7; wd++ {
		b.WriteString(padRight(rowLabels[wd], rowLabelWidth))
		for _, col := range columns {
			c := col[wd]
			switch {
			case c == nil || c.future:
				b.WriteString("  ")
			default:
				lvl := min(max(c.level, 0), constants.HeatmapLevels)
				b.WriteString(r.levels[lvl].Render(levelGlyphs[lvl]))
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(r.legend())
	return b.String()
}

func columnFuture(col [7]*dayCell) bool {
	for _, c := range col {
		if c != nil && !c.future {
			return false
		}
	}
	return true
}

// monthLabels puts a month abbreviation above the first column of each month
// when there is room for it.
func monthLabels(columns [][7]*dayCell) string {
	line := []rune(strings.Repeat(" ", len(columns)*2))
	next := 0
	for i, col := range columns {
		for _, c := range col {
			if c == nil || c.date.Day() != 1 {
				continue
			}
			pos := i * 2
			label := []rune(c.date.Month().String()[:3])
			if pos >= next && pos+len(label) <= len(line) {
				copy(line[pos:], label)
				next = pos + len(label) + 1
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}

func (r *Renderer) legend() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowLabelWidth))
	b.WriteString(r.muted.Render("Less "))
	for i, g := range levelGlyphs {
		b.WriteString(r.levels[i].Render(g))
		b.WriteString(" ")
	}
	b.WriteString(r.muted.Render("More"))
	b.WriteString("\n")
	return b.String()
}

func padRight(s string, w int) string {
	if n := len([]rune(s)); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
