package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errors.New("this store does not support migrations")
	}

	st, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if c.Status {
		ctx.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		for _, p := range st.Pending {
			ctx.Printf("  pending: %03d %s\n", p.Version, p.Name)
		}
		return nil
	}

	if len(st.Pending) > 0 {
		ctx.PerformAutomaticBackup()
	}
	count, err := m.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
