package achievements

import (
	"sort"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// BadgeProgress joins a definition with the user's state for display
type BadgeProgress struct {
	Badge    BadgeDefinition
	Record   models.AchievementRecord
	Recorded bool
	Earned   bool
	Progress float64 // 0..1
}

// Progress builds display rows for defs in catalog order.
func Progress(defs []BadgeDefinition, stats []models.DerivedHabitStats, records map[string]models.AchievementRecord) []BadgeProgress {
	out := make([]BadgeProgress, len(defs))
	for i, d := range defs {
		rec, ok := records[d.ID]
		out[i] = BadgeProgress{
			Badge:    d,
			Record:   rec,
			Recorded: ok,
			Earned:   ok && rec.IsCurrentlyEarned,
			Progress: d.Requirement.Progress(stats),
		}
	}
	return out
}

var rarityRank = map[constants.Rarity]int{
	constants.RarityCommon:    0,
	constants.RarityUncommon:  1,
	constants.RarityRare:      2,
	constants.RarityEpic:      3,
	constants.RarityLegendary: 4,
}

// RarityRank orders rarities from common (0) to legendary (4)
func RarityRank(r constants.Rarity) int {
	return rarityRank[r]
}

// Priority scores a row: earned badges first by rarity, then unearned ones
// by how close they are.
func Priority(p BadgeProgress) float64 {
	if p.Earned {
		return 2 + float64(RarityRank(p.Badge.Rarity))/10
	}
	return p.Progress
}

// SortByPriority returns a new slice ordered by descending Priority, ties
// broken by badge id. items is left untouched.
func SortByPriority(items []BadgeProgress) []BadgeProgress {
	out := append([]BadgeProgress(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := Priority(out[i]), Priority(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].Badge.ID < out[j].Badge.ID
	})
	return out
}
