package system

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out := newContext(t, filepath.Join(t.TempDir(), "habitual.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	// missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Backups present: WARNING") {
		t.Errorf("expected a backup warning:\n%s", out.String())
	}
}

func TestDoctorCmd_NotInitialized(t *testing.T) {
	ctx, out := newContext(t, filepath.Join(t.TempDir(), "missing.db"))

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the database does not exist")
	}
	if !strings.Contains(out.String(), "SKIPPED") {
		t.Errorf("dependent checks should be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_FutureSchema(t *testing.T) {
	ctx, _ := newContext(t, filepath.Join(t.TempDir(), "habitual.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}
	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on a schema newer than the binary")
	}
}

func TestDoctorCmd_InconsistentAchievement(t *testing.T) {
	ctx, out := newContext(t, filepath.Join(t.TempDir(), "habitual.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}
	rec := models.AchievementRecord{BadgeID: "first_step", Type: "permanent", IsCurrentlyEarned: false,
		FirstCompletedAt: testNow, LastCompletedAt: testNow, CompletionCount: 1, Timezone: "UTC"}
	if err := ctx.Store.WriteAchievementRecord(testUser, rec.BadgeID, rec); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should flag a lost permanent badge")
	}
	if !strings.Contains(out.String(), "permanent badge marked as lost") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestValidateCmd(t *testing.T) {
	ctx, out := newContext(t, filepath.Join(t.TempDir(), "habitual.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	if err := (&ValidateCmd{}).Run(ctx); err != nil {
		t.Fatalf("validate on empty data failed: %v", err)
	}
	if !strings.Contains(out.String(), "No conflicts detected") {
		t.Errorf("output = %q", out.String())
	}

	// a completion for a habit that no longer exists
	if err := ctx.Store.MarkCompletion(testUser, "2024-09-01", "ghost", testNow); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&ValidateCmd{}).Run(ctx); err == nil {
		t.Error("validate should report the unknown habit")
	}
	if !strings.Contains(out.String(), "deleted habit") {
		t.Errorf("output = %q", out.String())
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, out := newContext(t, filepath.Join(t.TempDir(), "habitual.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&MigrateCmd{Status: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Schema version:") {
		t.Errorf("status output = %q", out.String())
	}
}

func TestMigrateCmd_AppliesPending(t *testing.T) {
	ctx, out := newContext(t, filepath.Join(t.TempDir(), "habitual.db"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}
	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DROP INDEX idx_achievements_earned"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 1"); err != nil {
		t.Fatal(err)
	}

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully applied 3 migration") {
		t.Errorf("output = %q", out.String())
	}
}
