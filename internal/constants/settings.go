package constants

const (
	// General Settings
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
)
