package postgres

import (
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) GetAchievementRecords(userID string) (map[string]models.AchievementRecord, error) {
	rows, err := s.db.Query(`
		SELECT badge_id, type, is_currently_earned, first_completed_at, last_completed_at, completion_count, timezone
		FROM achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]models.AchievementRecord)
	for rows.Next() {
		var rec models.AchievementRecord
		var typ string
		if err := rows.Scan(&rec.BadgeID, &typ, &rec.IsCurrentlyEarned, &rec.FirstCompletedAt, &rec.LastCompletedAt, &rec.CompletionCount, &rec.Timezone); err != nil {
			return nil, err
		}
		rec.Type = constants.BadgeType(typ)
		rec.FirstCompletedAt = rec.FirstCompletedAt.UTC()
		rec.LastCompletedAt = rec.LastCompletedAt.UTC()
		records[rec.BadgeID] = rec
	}
	return records, rows.Err()
}

func (s *Store) WriteAchievementRecord(userID, badgeID string, rec models.AchievementRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO achievements (user_id, badge_id, type, is_currently_earned, first_completed_at, last_completed_at, completion_count, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, badge_id) DO UPDATE SET
			type = EXCLUDED.type,
			is_currently_earned = EXCLUDED.is_currently_earned,
			last_completed_at = EXCLUDED.last_completed_at,
			completion_count = EXCLUDED.completion_count,
			timezone = EXCLUDED.timezone`,
		userID, badgeID, string(rec.Type), rec.IsCurrentlyEarned,
		rec.FirstCompletedAt.UTC(), rec.LastCompletedAt.UTC(),
		max(rec.CompletionCount, 1), rec.Timezone,
	)
	return err
}
