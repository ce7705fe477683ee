package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/badges"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/cli/views"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/notifier"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to the TOML config file." type:"path"`
	DB      string `name:"db" help:"SQLite database path, overrides the config file." type:"path"`
	User    string `help:"User id whose data is read and written."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check habits and completions for inconsistencies."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Notify   system.NotifyCmd   `cmd:"" hidden:"" help:"Send a notification to the tray app."`

	Today    views.TodayCmd    `cmd:"" help:"Show today's date and this week's progress."`
	Stats    views.StatsCmd    `cmd:"" help:"Show streaks and completion rates."`
	Heatmap  views.HeatmapCmd  `cmd:"" help:"Show a yearly completion heatmap."`
	Calendar views.CalendarCmd `cmd:"" help:"Show a month calendar of completions."`
	Week     views.WeekCmd     `cmd:"" help:"Show progress toward weekly goals."`
	Insights views.InsightsCmd `cmd:"" help:"Show observations about your habits."`

	Habit  habits.HabitCmd     `cmd:"" help:"Manage habits and mark completions."`
	Mark   habits.HabitMarkCmd `cmd:"" help:"Toggle a habit's completion (shortcut for habit mark)."`
	Badges badges.BadgesCmd    `cmd:"" help:"Show and re-check achievements."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, statistics and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"default_emoji": constants.DefaultHabitEmoji,
			"default_color": constants.DefaultHabitColor,
			"default_goal":  fmt.Sprint(constants.DefaultWeeklyGoal),
		},
	)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	appCtx := &cli.Context{
		Config: cfg,
		UserID: cfg.UserID,
	}

	command := ctx.Command()
	if !strings.HasPrefix(command, "keyring") {
		store, err := cli.OpenStore(cfg, appCtx.Credentials())
		if err != nil {
			apperrors.Fatal(err)
		}
		appCtx.Store = store
		defer store.Close()

		// init creates the database; everything else expects it
		if !strings.HasPrefix(command, "init") {
			if err := store.Load(); err != nil {
				apperrors.Fatal(err)
			}
		}

		enabled := cfg.Notify
		if s, err := store.GetSettings(cfg.UserID); err == nil {
			enabled = enabled && s.NotificationsEnabled
		}
		// the CLI and TUI render badges themselves, so no terminal fallback
		appCtx.Notifier = notifier.New(notifier.WithEnabled(enabled), notifier.WithOutput(io.Discard))
	}

	if err := ctx.Run(appCtx); err != nil {
		var partial *apperrors.PartialError
		if errors.As(err, &partial) {
			apperrors.Warn(err)
			os.Exit(2)
		}
		apperrors.Fatal(err)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if CLI.DB != "" {
		cfg.DBPath = CLI.DB
	}
	if CLI.User != "" {
		cfg.UserID = CLI.User
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}
