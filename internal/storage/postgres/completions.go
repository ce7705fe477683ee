package postgres

import (
	"database/sql"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) MarkCompletion(userID, day, habitID string, completedAt time.Time) error {
	var at sql.NullTime
	if !completedAt.IsZero() {
		at = sql.NullTime{Time: completedAt.UTC(), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO completions (user_id, day, habit_id, completed_at) VALUES ($1, $2::date, $3, $4)
		ON CONFLICT (user_id, day, habit_id) DO UPDATE SET completed_at = EXCLUDED.completed_at`,
		userID, day, habitID, at,
	)
	return err
}

func (s *Store) UnmarkCompletion(userID, day, habitID string) error {
	_, err := s.db.Exec("DELETE FROM completions WHERE user_id = $1 AND day = $2::date AND habit_id = $3", userID, day, habitID)
	return err
}

func (s *Store) GetCompletionRecords(userID string) (models.CompletionRecords, error) {
	rows, err := s.db.Query(`
		SELECT to_char(day, 'YYYY-MM-DD'), habit_id, completed_at
		FROM completions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := models.CompletionRecords{}
	for rows.Next() {
		var day, habitID string
		var completedAt sql.NullTime
		if err := rows.Scan(&day, &habitID, &completedAt); err != nil {
			return nil, err
		}

		var at time.Time
		if completedAt.Valid {
			at = completedAt.Time.UTC()
		}
		records.Add(day, habitID, at)
	}
	return records, rows.Err()
}
