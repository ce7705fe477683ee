package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) MarkCompletion(userID, day, habitID string, completedAt time.Time) error {
	var at sql.NullString
	if !completedAt.IsZero() {
		at = sql.NullString{String: completedAt.UTC().Format(timeLayout), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO completions (user_id, day, habit_id, completed_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, day, habit_id) DO UPDATE SET completed_at = excluded.completed_at`,
		userID, day, habitID, at,
	)
	return err
}

func (s *Store) UnmarkCompletion(userID, day, habitID string) error {
	_, err := s.db.Exec("DELETE FROM completions WHERE user_id = ? AND day = ? AND habit_id = ?", userID, day, habitID)
	return err
}

func (s *Store) GetCompletionRecords(userID string) (models.CompletionRecords, error) {
	rows, err := s.db.Query("SELECT day, habit_id, completed_at FROM completions WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := models.CompletionRecords{}
	for rows.Next() {
		var day, habitID string
		var completedAt sql.NullString
		if err := rows.Scan(&day, &habitID, &completedAt); err != nil {
			return nil, err
		}

		var at time.Time
		if completedAt.Valid {
			at, err = time.Parse(timeLayout, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse completed_at for %s on %s: %w", habitID, day, err)
			}
		}
		records.Add(day, habitID, at)
	}
	return records, rows.Err()
}
