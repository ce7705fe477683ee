package badges

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

const testUser = "tester"

var testNow = time.Date(2024, 9, 18, 8, 0, 0, 0, time.UTC)

// setupTestDB with data seeds a habit whose 3 day streak ended on 09-16 and
// a fire_starter record still marked earned from that streak.
func setupTestDB(t *testing.T, withData bool) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.SaveSettings(testUser, models.Settings{Timezone: "UTC"}); err != nil {
		t.Fatal(err)
	}

	if withData {
		h := models.Habit{ID: "run", Name: "Run", Emoji: "🏃", WeeklyGoal: 3, CreatedAt: testNow.AddDate(0, 0, -7)}
		if err := store.AddHabit(testUser, h); err != nil {
			t.Fatal(err)
		}
		for _, day := range []string{"2024-09-14", "2024-09-15", "2024-09-16"} {
			if err := store.MarkCompletion(testUser, day, "run", time.Time{}); err != nil {
				t.Fatal(err)
			}
		}
		earnedAt := time.Date(2024, 9, 16, 21, 0, 0, 0, time.UTC)
		rec := models.AchievementRecord{
			BadgeID:           "fire_starter",
			Type:              constants.BadgeDynamic,
			IsCurrentlyEarned: true,
			FirstCompletedAt:  earnedAt,
			LastCompletedAt:   earnedAt,
			CompletionCount:   1,
			Timezone:          "UTC",
		}
		if err := store.WriteAchievementRecord(testUser, rec.BadgeID, rec); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	return &cli.Context{
		Store:  store,
		UserID: testUser,
		Out:    &out,
		Now:    func() time.Time { return testNow },
	}, store, &out
}

func TestBadgesListRevokesBrokenStreak(t *testing.T) {
	ctx, store, out := setupTestDB(t, true)

	if err := (&BadgesListCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records, err := store.GetAchievementRecords(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if rec := records["fire_starter"]; rec.IsCurrentlyEarned {
		t.Errorf("fire_starter = %+v, want revoked after the streak broke", rec)
	}
	for _, want := range []string{"Fire Starter", "lost", "First Step", "Week Warrior"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestBadgesListEarnedFilter(t *testing.T) {
	ctx, _, out := setupTestDB(t, true)

	if err := (&BadgesListCmd{Earned: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"First Step", "First Check"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing earned badge %q:\n%s", want, got)
		}
	}
	for _, absent := range []string{"Fire Starter", "Week Warrior", "Century Club"} {
		if strings.Contains(got, absent) {
			t.Errorf("output lists %q, which is not earned:\n%s", absent, got)
		}
	}
}

func TestBadgesListEarnedEmpty(t *testing.T) {
	ctx, _, out := setupTestDB(t, false)

	if err := (&BadgesListCmd{Earned: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No badges earned yet.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBadgesCheck(t *testing.T) {
	ctx, _, out := setupTestDB(t, true)

	if err := (&BadgesCheckCmd{}).Run(ctx); err != nil {
		t.Fatalf("first check error = %v", err)
	}
	if !strings.Contains(out.String(), "Badge earned:") || !strings.Contains(out.String(), "First Step") {
		t.Errorf("first check output = %q, want a First Step banner", out.String())
	}
	if strings.Contains(out.String(), "No new badges.") {
		t.Errorf("first check output = %q, should not report nothing new", out.String())
	}

	out.Reset()
	if err := (&BadgesCheckCmd{}).Run(ctx); err != nil {
		t.Fatalf("second check error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "No new badges." {
		t.Errorf("second check output = %q, want %q", got, "No new badges.")
	}
}

type readOnlyStore struct {
	*sqlite.Store
}

func (s readOnlyStore) WriteAchievementRecord(string, string, models.AchievementRecord) error {
	return errors.New("database is locked")
}

func TestBadgesListReportsFailedWrites(t *testing.T) {
	ctx, store, out := setupTestDB(t, false)
	if err := store.AddHabit(testUser, models.Habit{ID: "read", Name: "Read", WeeklyGoal: 3, CreatedAt: testNow}); err != nil {
		t.Fatal(err)
	}
	ctx.Store = readOnlyStore{store}

	err := (&BadgesListCmd{}).Run(ctx)
	var partial *apperrors.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("Run() error = %v, want *PartialError", err)
	}
	if !strings.Contains(out.String(), "First Step") {
		t.Errorf("badges should still be listed after a failed save:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Badge earned:") {
		t.Errorf("unsaved badge was announced:\n%s", out.String())
	}
}
