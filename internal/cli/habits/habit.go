package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Mark   HabitMarkCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Emoji       string `help:"Emoji shown next to the name." default:"${default_emoji}"`
	Color       string `help:"Hex colour (#RRGGBB)." default:"${default_color}"`
	Goal        int    `help:"Days per week to aim for (1-7)." default:"${default_goal}"`
	Description string `help:"Optional description."`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := c.form().Run(); err != nil {
			return err
		}
	}

	habit := models.Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(c.Name),
		Emoji:       c.Emoji,
		Color:       c.Color,
		WeeklyGoal:  c.Goal,
		Description: strings.TrimSpace(c.Description),
		CreatedAt:   ctx.Clock().UTC(),
	}
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}

	if err := ctx.Store.AddHabit(ctx.UserID, habit); err != nil {
		return err
	}
	ctx.Printf("Added habit: %s %s (goal %d/week)\n", habit.Emoji, habit.Name, habit.WeeklyGoal)

	if _, err := ctx.Reconcile(); err != nil {
		return err
	}
	return nil
}

func (c *HabitAddCmd) form() *huh.Form {
	goals := make([]huh.Option[int], 0, constants.MaxWeeklyGoal)
	for g := constants.MinWeeklyGoal; g <= constants.MaxWeeklyGoal; g++ {
		goals = append(goals, huh.NewOption(fmt.Sprintf("%d day(s) a week", g), g))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					return validation.ValidateHabit(models.Habit{Name: s, WeeklyGoal: constants.DefaultWeeklyGoal})
				}),
			huh.NewInput().Title("Emoji").Value(&c.Emoji),
			huh.NewSelect[int]().Title("Weekly goal").Options(goals...).Value(&c.Goal),
			huh.NewInput().
				Title("Colour").
				Value(&c.Color).
				Validate(func(s string) error {
					return validation.ValidateHabit(models.Habit{Name: "x", Color: s, WeeklyGoal: constants.DefaultWeeklyGoal})
				}),
			huh.NewText().Title("Description").Value(&c.Description),
		),
	)
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetHabits(ctx.UserID)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with `habitual habit add <name>`.")
		return nil
	}

	for _, h := range habits {
		ctx.Printf("%s %-24s goal %d/week  %s\n", h.Emoji, h.Name, h.WeeklyGoal, shortID(h.ID))
		if h.Description != "" {
			ctx.Printf("   %s\n", h.Description)
		}
	}
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit name or id."`
	Name        *string `help:"New name."`
	Emoji       *string `help:"New emoji."`
	Color       *string `help:"New hex colour."`
	Goal        *int    `help:"New weekly goal (1-7)."`
	Description *string `help:"New description."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		habit.Name = strings.TrimSpace(*c.Name)
		updated = true
	}
	if c.Emoji != nil {
		habit.Emoji = *c.Emoji
		updated = true
	}
	if c.Color != nil {
		habit.Color = *c.Color
		updated = true
	}
	if c.Goal != nil {
		habit.WeeklyGoal = *c.Goal
		updated = true
	}
	if c.Description != nil {
		habit.Description = strings.TrimSpace(*c.Description)
		updated = true
	}
	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(ctx.UserID, habit); err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s %s\n", habit.Emoji, habit.Name)

	// a goal change can complete or break goal badges
	if _, err := ctx.Reconcile(); err != nil {
		return err
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and all of its history?", habit.Name)).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.DeleteHabit(ctx.UserID, habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Name)

	if _, err := ctx.Reconcile(); err != nil {
		return err
	}
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Day to toggle (YYYY-MM-DD), defaults to today."`
}

// ErrFutureDate is returned when marking a day that has not happened yet
var ErrFutureDate = errors.New("cannot mark a future day")

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	loc, _, err := ctx.Location()
	if err != nil {
		return err
	}

	at := ctx.Clock()
	today := calendar.DateOf(at, loc)

	day := today
	if c.Date != "" {
		if day, err = calendar.Parse(c.Date); err != nil {
			return err
		}
		if day.After(today) {
			return fmt.Errorf("%w: %s", ErrFutureDate, c.Date)
		}
	}
	dayStr := calendar.Format(day)

	records, err := ctx.Store.GetCompletionRecords(ctx.UserID)
	if err != nil {
		return err
	}

	if records.IsCompleted(dayStr, habit.ID) {
		if err := ctx.Store.UnmarkCompletion(ctx.UserID, dayStr, habit.ID); err != nil {
			return err
		}
		ctx.Printf("○ %s unmarked for %s\n", habit.Name, dayStr)
	} else {
		// only same-day marks carry a time of day
		if !day.Equal(today) {
			at = time.Time{}
		}
		if err := ctx.Store.MarkCompletion(ctx.UserID, dayStr, habit.ID, at); err != nil {
			return err
		}
		ctx.Printf("● %s done for %s\n", habit.Name, dayStr)
	}

	if _, err := ctx.Reconcile(); err != nil {
		return err
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
