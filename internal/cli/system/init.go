package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Back up and delete the existing SQLite database before initializing."`
	Source string `help:"SQLite path or PostgreSQL connection string to copy the current user's data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("--force is only supported for the SQLite store")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		abs, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = abs
		}
		if src, err := filepath.Abs(c.Source); err == nil && src == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	saved, err := backup.NewManager(dbPath).Create()
	if err != nil {
		return fmt.Errorf("refusing to delete database without a backup: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	logger.Info("database reset", "path", dbPath, "backup", saved)
	ctx.Printf("Deleted existing database at: %s (backup: %s)\n", dbPath, filepath.Base(saved))
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if !postgres.LooksLikeConnString(source) {
		return sqlite.NewStore(source), nil
	}
	if _, err := postgres.ValidateConnString(source); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, errors.New("PostgreSQL source connection string contains embedded credentials, use HABITUAL_DB_CONNECTION or .pgpass instead")
		}
		return nil, err
	}
	return postgres.New(source), nil
}

// copyFrom copies settings, habits, completions and achievement records of
// the current user from source into the freshly initialized store.
func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Println("  Copying settings...")
	settings, err := src.GetSettings(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(ctx.UserID, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Copying habits...")
	habits, err := src.GetHabits(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := ctx.Store.AddHabit(ctx.UserID, h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("    Copied %d habits\n", len(habits))

	ctx.Println("  Copying completions...")
	records, err := src.GetCompletionRecords(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get completions from source: %w", err)
	}
	count := 0
	for _, day := range records.Dates() {
		rec := records[day]
		for _, id := range rec.HabitIDs() {
			if err := ctx.Store.MarkCompletion(ctx.UserID, day, id, rec.HabitDetails[id].CompletedAt); err != nil {
				return fmt.Errorf("failed to copy completion %s/%s: %w", day, id, err)
			}
			count++
		}
	}
	ctx.Printf("    Copied %d completions\n", count)

	ctx.Println("  Copying achievements...")
	achieved, err := src.GetAchievementRecords(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get achievements from source: %w", err)
	}
	for id, rec := range achieved {
		if err := ctx.Store.WriteAchievementRecord(ctx.UserID, id, rec); err != nil {
			return fmt.Errorf("failed to copy achievement %s: %w", id, err)
		}
	}
	ctx.Printf("    Copied %d achievement records\n", len(achieved))
	return nil
}
