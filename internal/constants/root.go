package constants

import "time"

// BadgeType distinguishes badges that can be lost from those that cannot
type BadgeType string

// Rarity ranks how hard a badge is to earn
type Rarity string

// BadgeCategory groups badges for display
type BadgeCategory string

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultUserID      = "local"

	// SharedSettingsUser owns the installation-wide settings every user inherits
	SharedSettingsUser = ""
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for month arguments (YYYY-MM)
	MonthFormat = "2006-01"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Environment variables
	EnvDBConnection = "HABITUAL_DB_CONNECTION"
	EnvConfigPath   = "HABITUAL_CONFIG"

	// Habit constraints
	MinWeeklyGoal     = 1
	MaxWeeklyGoal     = 7
	DefaultWeeklyGoal = 3
	DefaultHabitEmoji = "✅"
	DefaultHabitColor = "#22C55E"
	MaxHabitNameLen   = 64

	// Statistics windows
	RollingWindowDays = 30
	HeatmapLevels     = 4

	// Achievement writes
	AchievementWriteAttempts   = 3
	AchievementWriteRetryDelay = 100 * time.Millisecond

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	TrayProcessPrefix      = "habitual-tray"

	// Badge types
	BadgePermanent BadgeType = "permanent"
	BadgeDynamic   BadgeType = "dynamic"

	// Rarities
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"

	// Badge categories
	CategoryStreak      BadgeCategory = "streak"
	CategoryHabits      BadgeCategory = "habits"
	CategoryGoals       BadgeCategory = "goals"
	CategoryMilestones  BadgeCategory = "milestones"
	CategoryConsistency BadgeCategory = "consistency"
	CategoryTiming      BadgeCategory = "timing"
)
