package habits

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/validation"
)

const testUser = "tester"

var testNow = time.Date(2024, 9, 18, 8, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.SaveSettings(testUser, models.Settings{Timezone: "UTC"}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	var out bytes.Buffer
	return &cli.Context{
		Store:  store,
		UserID: testUser,
		Out:    &out,
		Now:    func() time.Time { return testNow },
	}, &out
}

func addHabit(t *testing.T, ctx *cli.Context, name string) models.Habit {
	t.Helper()
	cmd := &HabitAddCmd{Name: name, Emoji: "🏃", Color: "#22C55E", Goal: 3}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add %q failed: %v", name, err)
	}
	h, err := ctx.Store.GetHabitByName(testUser, name)
	if err != nil {
		t.Fatalf("GetHabitByName(%q) error = %v", name, err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	h := addHabit(t, ctx, "Morning Run")
	if h.ID == "" || h.WeeklyGoal != 3 || !h.CreatedAt.Equal(testNow) {
		t.Errorf("stored habit = %+v", h)
	}
	if !strings.Contains(out.String(), "First Step") {
		t.Errorf("adding the first habit should earn First Step, output:\n%s", out.String())
	}

	dup := &HabitAddCmd{Name: "morning run", Goal: 3}
	if err := dup.Run(ctx); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("duplicate add error = %v, want ErrDuplicateHabit", err)
	}
}

func TestHabitAddCmdValidation(t *testing.T) {
	ctx, _ := setupTestDB(t)

	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{"missing name", HabitAddCmd{Goal: 3}},
		{"goal too high", HabitAddCmd{Name: "Run", Goal: 8}},
		{"goal zero", HabitAddCmd{Name: "Run", Goal: 0}},
		{"bad colour", HabitAddCmd{Name: "Run", Goal: 3, Color: "green"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, validation.ErrInvalidHabit) {
				t.Errorf("Run() error = %v, want ErrInvalidHabit", err)
			}
		})
	}
}

func TestHabitMarkCmdToggles(t *testing.T) {
	ctx, _ := setupTestDB(t)
	h := addHabit(t, ctx, "Read")

	mark := &HabitMarkCmd{Habit: "read"}
	if err := mark.Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	records, _ := ctx.Store.GetCompletionRecords(testUser)
	detail, ok := records.Detail("2024-09-18", h.ID)
	if !ok || !detail.CompletedAt.Equal(testNow) {
		t.Errorf("today's detail = %+v, %v; want completed at %v", detail, ok, testNow)
	}

	if err := mark.Run(ctx); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	records, _ = ctx.Store.GetCompletionRecords(testUser)
	if records.IsCompleted("2024-09-18", h.ID) {
		t.Error("second mark should unmark today")
	}
}

func TestHabitMarkCmdPastAndFuture(t *testing.T) {
	ctx, _ := setupTestDB(t)
	h := addHabit(t, ctx, "Read")

	past := &HabitMarkCmd{Habit: h.ID, Date: "2024-09-15"}
	if err := past.Run(ctx); err != nil {
		t.Fatalf("marking a past day failed: %v", err)
	}
	records, _ := ctx.Store.GetCompletionRecords(testUser)
	if !records.IsCompleted("2024-09-15", h.ID) {
		t.Error("past day not marked")
	}
	if _, ok := records.Detail("2024-09-15", h.ID); ok {
		t.Error("past day should carry no time of day")
	}

	future := &HabitMarkCmd{Habit: h.ID, Date: "2024-09-19"}
	if err := future.Run(ctx); !errors.Is(err, ErrFutureDate) {
		t.Errorf("future mark error = %v, want ErrFutureDate", err)
	}

	bad := &HabitMarkCmd{Habit: h.ID, Date: "2024-13-01"}
	if err := bad.Run(ctx); err == nil {
		t.Error("expected an error for an invalid date")
	}
}

func TestHabitMarkCmdStreakBadge(t *testing.T) {
	ctx, out := setupTestDB(t)
	h := addHabit(t, ctx, "Stretch")

	for _, day := range []string{"2024-09-16", "2024-09-17", ""} {
		if err := (&HabitMarkCmd{Habit: h.ID, Date: day}).Run(ctx); err != nil {
			t.Fatalf("mark %q failed: %v", day, err)
		}
	}
	if !strings.Contains(out.String(), "Fire Starter") {
		t.Errorf("three days in a row should earn Fire Starter, output:\n%s", out.String())
	}

	recs, err := ctx.Store.GetAchievementRecords(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if !recs["fire_starter"].IsCurrentlyEarned {
		t.Errorf("fire_starter record = %+v", recs["fire_starter"])
	}

	// losing today's mark breaks the current streak and the dynamic badge
	if err := (&HabitMarkCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	recs, _ = ctx.Store.GetAchievementRecords(testUser)
	if recs["fire_starter"].IsCurrentlyEarned {
		t.Error("fire_starter should be lost after unmarking today")
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	h := addHabit(t, ctx, "Read")

	name, goal := "Read fiction", 5
	if err := (&HabitEditCmd{Habit: "Read", Name: &name, Goal: &goal}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	got, err := ctx.Store.GetHabit(testUser, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != name || got.WeeklyGoal != goal {
		t.Errorf("edited habit = %+v", got)
	}

	bad := 9
	if err := (&HabitEditCmd{Habit: h.ID, Goal: &bad}).Run(ctx); !errors.Is(err, validation.ErrInvalidHabit) {
		t.Errorf("invalid edit error = %v, want ErrInvalidHabit", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	h := addHabit(t, ctx, "Read")
	if err := (&HabitMarkCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitDeleteCmd{Habit: "Read", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetHabit(testUser, h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit after delete error = %v", err)
	}
	records, _ := ctx.Store.GetCompletionRecords(testUser)
	if records.IsCompleted("2024-09-18", h.ID) {
		t.Error("completions should be removed with the habit")
	}

	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No habits yet") {
		t.Errorf("list after delete = %q", out.String())
	}
}
