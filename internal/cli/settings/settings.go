package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used to decide what day it is, or Local."`
	NotificationsEnabled *bool   `help:"Announce newly earned badges."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !calendar.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("unknown timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(ctx.UserID, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")

	// a new timezone can move "today" and with it the current streaks
	if c.Timezone != nil {
		if _, err := ctx.Reconcile(); err != nil {
			return err
		}
	}
	return nil
}
