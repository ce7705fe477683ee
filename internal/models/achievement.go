package models

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// AchievementRecord is the persisted state of one badge for one user.
// Records are never deleted; dynamic badges toggle IsCurrentlyEarned.
type AchievementRecord struct {
	BadgeID           string              `json:"badge_id"`
	Type              constants.BadgeType `json:"type"`
	IsCurrentlyEarned bool                `json:"is_currently_earned"`
	FirstCompletedAt  time.Time           `json:"first_completed_at"`
	LastCompletedAt   time.Time           `json:"last_completed_at"`
	CompletionCount   int                 `json:"completion_count"`
	Timezone          string              `json:"timezone"`
}
