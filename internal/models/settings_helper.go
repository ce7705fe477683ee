package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitual/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Unknown keys are ignored.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			if value != "" {
				settings.Timezone = value
			}
		case constants.SettingNotificationsEnabled:
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.NotificationsEnabled = enabled
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
	}
}
