package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func setupTestSQLiteStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addHabit(t *testing.T, s *Store, userID, id, name string) models.Habit {
	t.Helper()
	h := models.Habit{
		ID:         id,
		Name:       name,
		Emoji:      "🏃",
		Color:      "#22C55E",
		WeeklyGoal: 3,
		CreatedAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := s.AddHabit(userID, h); err != nil {
		t.Fatalf("AddHabit(%s) error = %v", name, err)
	}
	return h
}

func TestInitWritesDefaultSettings(t *testing.T) {
	store := setupTestSQLiteStore(t)

	settings, err := store.GetSettings("u1")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	want := models.Settings{Timezone: constants.DefaultTimezone, NotificationsEnabled: constants.DefaultNotificationsEnabled}
	if settings != want {
		t.Errorf("GetSettings() = %+v, want %+v", settings, want)
	}

	settings.Timezone = "Europe/Berlin"
	settings.NotificationsEnabled = false
	if err := store.SaveSettings("u1", settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if got, _ := store.GetSettings("u1"); got != settings {
		t.Errorf("GetSettings() after save = %+v, want %+v", got, settings)
	}
}

func TestSettingsArePerUser(t *testing.T) {
	store := setupTestSQLiteStore(t)

	if err := store.SaveSettings("u1", models.Settings{Timezone: "Asia/Tokyo", NotificationsEnabled: true}); err != nil {
		t.Fatalf("SaveSettings(u1) error = %v", err)
	}

	got, err := store.GetSettings("u2")
	if err != nil {
		t.Fatalf("GetSettings(u2) error = %v", err)
	}
	if got.Timezone != constants.DefaultTimezone {
		t.Errorf("GetSettings(u2).Timezone = %q, want the shared default %q", got.Timezone, constants.DefaultTimezone)
	}

	shared := models.Settings{Timezone: "Europe/Paris", NotificationsEnabled: false}
	if err := store.SaveSettings(constants.SharedSettingsUser, shared); err != nil {
		t.Fatalf("SaveSettings(shared) error = %v", err)
	}
	if got, _ := store.GetSettings("u2"); got != shared {
		t.Errorf("GetSettings(u2) = %+v, want inherited %+v", got, shared)
	}
	if got, _ := store.GetSettings("u1"); got.Timezone != "Asia/Tokyo" {
		t.Errorf("GetSettings(u1).Timezone = %q, want its own Asia/Tokyo", got.Timezone)
	}
}

func TestSettingsMigrationKeepsGlobalRowsAsDefaults(t *testing.T) {
	store := setupTestSQLiteStore(t)
	db := store.GetDB()

	// rebuild the pre-migration single-user table
	for _, stmt := range []string{
		"DROP TABLE settings",
		"CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL)",
		"INSERT INTO settings (key, value) VALUES ('timezone', 'Asia/Tokyo'), ('notifications_enabled', 'false')",
		"UPDATE schema_version SET version = 3",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	if _, err := store.Migrate(func(string) {}); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	got, err := store.GetSettings("anyone")
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	want := models.Settings{Timezone: "Asia/Tokyo", NotificationsEnabled: false}
	if got != want {
		t.Errorf("GetSettings() after migration = %+v, want %+v", got, want)
	}
}

func TestInitIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitual.db")
	for i := 0; i < 2; i++ {
		store := NewStore(path)
		if err := store.Init(); err != nil {
			t.Fatalf("Init() pass %d error = %v", i, err)
		}
		store.Close()
	}
}

func TestLoadBeforeInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitual.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	st, err := reopened.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(st.Pending) != 0 || st.Current != st.Latest {
		t.Errorf("MigrationStatus() = %+v, want fully migrated", st)
	}
}

func TestHabitCRUD(t *testing.T) {
	store := setupTestSQLiteStore(t)
	h := addHabit(t, store, "u1", "h1", "Run")
	addHabit(t, store, "u2", "h2", "Run")

	got, err := store.GetHabit("u1", "h1")
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got != h {
		t.Errorf("GetHabit() = %+v, want %+v", got, h)
	}

	if _, err := store.GetHabitByName("u1", "run"); err != nil {
		t.Errorf("GetHabitByName() is case-sensitive: %v", err)
	}
	if _, err := store.GetHabit("u2", "h1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit() across users error = %v, want ErrNotFound", err)
	}

	if err := store.AddHabit("u1", models.Habit{ID: "h3", Name: "Run", WeeklyGoal: 1}); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("AddHabit() duplicate error = %v, want ErrDuplicateHabit", err)
	}

	h.Name = "Morning run"
	h.WeeklyGoal = 5
	if err := store.UpdateHabit("u1", h); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	if got, _ := store.GetHabit("u1", "h1"); got.Name != "Morning run" || got.WeeklyGoal != 5 {
		t.Errorf("GetHabit() after update = %+v", got)
	}
	if err := store.UpdateHabit("u1", models.Habit{ID: "nope", Name: "x", WeeklyGoal: 1}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateHabit() missing error = %v, want ErrNotFound", err)
	}

	habits, err := store.GetHabits("u1")
	if err != nil {
		t.Fatalf("GetHabits() error = %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("GetHabits() returned %d habits, want 1", len(habits))
	}
}

func TestHabitNamesUniqueIgnoringCase(t *testing.T) {
	store := setupTestSQLiteStore(t)
	addHabit(t, store, "u1", "h1", "Morning Run")
	other := addHabit(t, store, "u1", "h2", "Read")

	dup := models.Habit{ID: "h3", Name: "morning run", WeeklyGoal: 3, CreatedAt: time.Now()}
	if err := store.AddHabit("u1", dup); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("AddHabit(%q) error = %v, want ErrDuplicateHabit", dup.Name, err)
	}

	other.Name = "MORNING RUN"
	if err := store.UpdateHabit("u1", other); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("UpdateHabit() rename error = %v, want ErrDuplicateHabit", err)
	}

	// other users keep their own namespace
	addHabit(t, store, "u2", "h4", "morning run")
}

func TestDeleteHabitRemovesCompletions(t *testing.T) {
	store := setupTestSQLiteStore(t)
	addHabit(t, store, "u1", "h1", "Run")
	addHabit(t, store, "u1", "h2", "Read")

	for _, day := range []string{"2024-01-01", "2024-01-02"} {
		if err := store.MarkCompletion("u1", day, "h1", time.Time{}); err != nil {
			t.Fatalf("MarkCompletion() error = %v", err)
		}
	}
	if err := store.MarkCompletion("u1", "2024-01-01", "h2", time.Time{}); err != nil {
		t.Fatalf("MarkCompletion() error = %v", err)
	}

	if err := store.DeleteHabit("u1", "h1"); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}

	records, err := store.GetCompletionRecords("u1")
	if err != nil {
		t.Fatalf("GetCompletionRecords() error = %v", err)
	}
	if _, ok := records["2024-01-02"]; ok {
		t.Error("a day whose only completion was deleted should be absent")
	}
	if records.IsCompleted("2024-01-01", "h1") || !records.IsCompleted("2024-01-01", "h2") {
		t.Errorf("records after delete = %+v", records)
	}
	if err := store.DeleteHabit("u1", "h1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteHabit() twice error = %v, want ErrNotFound", err)
	}
}

func TestCompletionsRoundTrip(t *testing.T) {
	store := setupTestSQLiteStore(t)
	addHabit(t, store, "u1", "h1", "Run")
	at := time.Date(2024, 1, 1, 6, 30, 0, 0, time.FixedZone("PST", -8*60*60))

	if err := store.MarkCompletion("u1", "2024-01-01", "h1", at); err != nil {
		t.Fatalf("MarkCompletion() error = %v", err)
	}
	// marking again keeps one row and refreshes the timestamp
	later := at.Add(time.Hour)
	if err := store.MarkCompletion("u1", "2024-01-01", "h1", later); err != nil {
		t.Fatalf("MarkCompletion() again error = %v", err)
	}

	records, err := store.GetCompletionRecords("u1")
	if err != nil {
		t.Fatalf("GetCompletionRecords() error = %v", err)
	}
	d, ok := records.Detail("2024-01-01", "h1")
	if !ok || !d.CompletedAt.Equal(later) {
		t.Errorf("Detail() = %v, %v; want %v", d.CompletedAt, ok, later)
	}

	if err := store.UnmarkCompletion("u1", "2024-01-01", "h1"); err != nil {
		t.Fatalf("UnmarkCompletion() error = %v", err)
	}
	records, _ = store.GetCompletionRecords("u1")
	if len(records) != 0 {
		t.Errorf("records after unmark = %+v, want empty", records)
	}
}

func TestWriteAchievementRecordPreservesFirstCompletedAt(t *testing.T) {
	store := setupTestSQLiteStore(t)
	first := time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC)

	rec := models.AchievementRecord{
		BadgeID:           "fire_starter",
		Type:              constants.BadgeDynamic,
		IsCurrentlyEarned: true,
		FirstCompletedAt:  first,
		LastCompletedAt:   first,
		CompletionCount:   1,
		Timezone:          "UTC",
	}
	if err := store.WriteAchievementRecord("u1", rec.BadgeID, rec); err != nil {
		t.Fatalf("WriteAchievementRecord() error = %v", err)
	}

	later := first.Add(48 * time.Hour)
	rec.FirstCompletedAt = later
	rec.LastCompletedAt = later
	rec.CompletionCount = 2
	if err := store.WriteAchievementRecord("u1", rec.BadgeID, rec); err != nil {
		t.Fatalf("WriteAchievementRecord() update error = %v", err)
	}

	records, err := store.GetAchievementRecords("u1")
	if err != nil {
		t.Fatalf("GetAchievementRecords() error = %v", err)
	}
	got := records["fire_starter"]
	if !got.FirstCompletedAt.Equal(first) {
		t.Errorf("FirstCompletedAt = %v, want %v", got.FirstCompletedAt, first)
	}
	if !got.LastCompletedAt.Equal(later) || got.CompletionCount != 2 || !got.IsCurrentlyEarned {
		t.Errorf("record = %+v", got)
	}
	if got.Type != constants.BadgeDynamic || got.Timezone != "UTC" {
		t.Errorf("record type/timezone = %q/%q", got.Type, got.Timezone)
	}

	if other, _ := store.GetAchievementRecords("u2"); len(other) != 0 {
		t.Errorf("records leaked across users: %+v", other)
	}
}
