package system

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/achievements"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name  string
	needs bool // requires a reachable database
	warn  bool // failures are warnings
	run   func(*cli.Context) error
}

var checks = []check{
	{name: "Schema version", needs: true, run: checkSchemaVersion},
	{name: "Migrations complete", needs: true, run: checkMigrationsComplete},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Data validation", needs: true, run: checkValidation},
	{name: "Clock/timezone", needs: true, run: checkClockTimezone},
	{name: "Achievement records", needs: true, run: checkAchievements},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needs && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(ctx.UserID); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	_, err := m.MigrationStatus()
	return err
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitual migrate')", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	list, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		return errors.New("no backups found, consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result, err := validateData(ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s), run 'habitual validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, _, err := ctx.Location(); err != nil {
		return err
	}
	return nil
}

// checkAchievements looks for records that the reconciler could not have
// written.
func checkAchievements(ctx *cli.Context) error {
	records, err := ctx.Store.GetAchievementRecords(ctx.UserID)
	if err != nil {
		return err
	}
	var problems []string
	for id, rec := range records {
		def, ok := achievements.Lookup(id)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: unknown badge", id))
		case rec.Type != def.Type:
			problems = append(problems, fmt.Sprintf("%s: stored as %s, defined as %s", id, rec.Type, def.Type))
		case rec.Type == constants.BadgePermanent && !rec.IsCurrentlyEarned:
			problems = append(problems, fmt.Sprintf("%s: permanent badge marked as lost", id))
		case rec.CompletionCount < 1:
			problems = append(problems, fmt.Sprintf("%s: completion count %d", id, rec.CompletionCount))
		case rec.LastCompletedAt.Before(rec.FirstCompletedAt):
			problems = append(problems, fmt.Sprintf("%s: last earned before first earned", id))
		case !calendar.ValidateTimezone(rec.Timezone):
			problems = append(problems, fmt.Sprintf("%s: unknown timezone %q", id, rec.Timezone))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%d inconsistent record(s): %v", len(problems), problems)
	}
	return nil
}
