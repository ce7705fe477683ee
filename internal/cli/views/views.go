// Package views holds the read-only reporting commands.
package views

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/render"
	"github.com/julianstephens/habitual/internal/streaks"
)

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Limit to one habit (name or id)."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	rep, _, err := ctx.Report()
	if err != nil {
		return err
	}
	if c.Habit != "" {
		h, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		s, _ := rep.StatsFor(h.ID)
		rep.Habits = []models.Habit{h}
		rep.Stats = []models.DerivedHabitStats{s}
	}
	if len(rep.Habits) == 0 {
		ctx.Println("No habits yet. Add one with `habitual habit add <name>`.")
		return nil
	}

	r := ctx.Renderer()
	ctx.Printf("%s", r.StatsTable(rep))
	if c.Habit == "" {
		ctx.Printf("%s", r.Summary(rep.Summary))
	}
	return nil
}

type HeatmapCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name or id. All habits when omitted."`
	Year  int    `help:"Year to show, defaults to the current one."`
}

func (c *HeatmapCmd) Run(ctx *cli.Context) error {
	rep, _, err := ctx.Report()
	if err != nil {
		return err
	}
	year := c.Year
	if year == 0 {
		year = rep.Today.Year()
	}

	r := ctx.Renderer()
	if c.Habit == "" {
		cells := streaks.IntensitySeries(models.HabitIDs(rep.Habits), year, rep.Records, rep.Today)
		ctx.Printf("%s", r.IntensityHeatmap(fmt.Sprintf("All habits %d", year), cells))
		return nil
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	cells := streaks.HeatmapSeries(h.ID, year, rep.Records, rep.Today)
	ctx.Printf("%s", r.Heatmap(fmt.Sprintf("%s %s %d", h.Emoji, h.Name, year), cells))
	return nil
}

type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM), defaults to the current one."`
	Habit string `help:"Only count this habit."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	rep, _, err := ctx.Report()
	if err != nil {
		return err
	}

	year, month := rep.Today.Year(), rep.Today.Month()
	if c.Month != "" {
		t, err := time.Parse(constants.MonthFormat, c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", c.Month)
		}
		year, month = t.Year(), t.Month()
	}

	ids := models.HabitIDs(rep.Habits)
	if c.Habit != "" {
		h, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		ids = []string{h.ID}
	}

	ctx.Printf("%s", ctx.Renderer().Calendar(year, month, rep.Today, ids, rep.Records))
	return nil
}

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	rep, _, err := ctx.Report()
	if err != nil {
		return err
	}
	ctx.Printf("%s", ctx.Renderer().WeekProgress(rep))
	return nil
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	rep, _, err := ctx.Report()
	if err != nil {
		return err
	}
	ctx.Printf("%s", ctx.Renderer().Insights(render.BuildInsights(rep)))
	return nil
}

// TodayCmd is the default view: what is done today and this week.
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	rep, _, err := ctx.Report()
	if err != nil {
		return err
	}
	ctx.Printf("%s\n", calendar.Format(rep.Today))
	ctx.Printf("%s", ctx.Renderer().WeekProgress(rep))
	return nil
}
