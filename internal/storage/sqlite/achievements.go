package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) GetAchievementRecords(userID string) (map[string]models.AchievementRecord, error) {
	rows, err := s.db.Query(`
		SELECT badge_id, type, is_currently_earned, first_completed_at, last_completed_at, completion_count, timezone
		FROM achievements WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]models.AchievementRecord)
	for rows.Next() {
		var rec models.AchievementRecord
		var typ, first, last string
		if err := rows.Scan(&rec.BadgeID, &typ, &rec.IsCurrentlyEarned, &first, &last, &rec.CompletionCount, &rec.Timezone); err != nil {
			return nil, err
		}
		rec.Type = constants.BadgeType(typ)

		if rec.FirstCompletedAt, err = time.Parse(timeLayout, first); err != nil {
			return nil, fmt.Errorf("failed to parse first_completed_at for %s: %w", rec.BadgeID, err)
		}
		if rec.LastCompletedAt, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("failed to parse last_completed_at for %s: %w", rec.BadgeID, err)
		}
		records[rec.BadgeID] = rec
	}
	return records, rows.Err()
}

func (s *Store) WriteAchievementRecord(userID, badgeID string, rec models.AchievementRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO achievements (user_id, badge_id, type, is_currently_earned, first_completed_at, last_completed_at, completion_count, timezone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, badge_id) DO UPDATE SET
			type = excluded.type,
			is_currently_earned = excluded.is_currently_earned,
			last_completed_at = excluded.last_completed_at,
			completion_count = excluded.completion_count,
			timezone = excluded.timezone`,
		userID, badgeID, string(rec.Type), rec.IsCurrentlyEarned,
		rec.FirstCompletedAt.UTC().Format(timeLayout), rec.LastCompletedAt.UTC().Format(timeLayout),
		max(rec.CompletionCount, 1), rec.Timezone,
	)
	return err
}
