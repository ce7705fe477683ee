package models

// Settings represents user settings stored in the database
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local"
	NotificationsEnabled bool   `json:"notifications_enabled"` // announce newly earned badges
}
