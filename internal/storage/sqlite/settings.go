package sqlite

import (
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// GetSettings returns the installation defaults overlaid with userID's own
// values.
func (s *Store) GetSettings(userID string) (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings WHERE user_id = '' OR user_id = ? ORDER BY user_id", userID)
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if len(data) == 0 {
		return models.Settings{}, storage.ErrNotFound
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(userID string, settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (user_id, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(userID, key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
