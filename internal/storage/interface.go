package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	// ErrNotFound is returned when a habit or setting does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load before `habitual init` has run
	ErrNotInitialized = errors.New("storage not initialized, run 'habitual init' first")
	// ErrDuplicateHabit is returned when a user already has a habit with the same name
	ErrDuplicateHabit = errors.New("a habit with that name already exists")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings. Users inherit the values stored under
	// constants.SharedSettingsUser and may override them.
	GetSettings(userID string) (models.Settings, error)
	SaveSettings(userID string, settings models.Settings) error

	// Habits
	AddHabit(userID string, habit models.Habit) error
	GetHabit(userID, id string) (models.Habit, error)
	GetHabitByName(userID, name string) (models.Habit, error)
	GetHabits(userID string) ([]models.Habit, error)
	UpdateHabit(userID string, habit models.Habit) error
	// DeleteHabit removes the habit and every completion that references it.
	DeleteHabit(userID, id string) error

	// Completions
	MarkCompletion(userID, day, habitID string, completedAt time.Time) error
	UnmarkCompletion(userID, day, habitID string) error
	GetCompletionRecords(userID string) (models.CompletionRecords, error)

	// Achievements
	GetAchievementRecords(userID string) (map[string]models.AchievementRecord, error)
	// WriteAchievementRecord upserts a record. An existing row keeps its
	// original first_completed_at.
	WriteAchievementRecord(userID, badgeID string, record models.AchievementRecord) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	MigrationStatus() (migration.Status, error)
	Migrate(logFn func(string)) (int, error)
}
