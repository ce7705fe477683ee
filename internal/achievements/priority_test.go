package achievements

import (
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func TestSortByPriority(t *testing.T) {
	items := []BadgeProgress{
		{Badge: BadgeDefinition{ID: "near", Rarity: constants.RarityCommon}, Progress: 0.9},
		{Badge: BadgeDefinition{ID: "common_earned", Rarity: constants.RarityCommon}, Earned: true, Progress: 1},
		{Badge: BadgeDefinition{ID: "far", Rarity: constants.RarityLegendary}, Progress: 0.1},
		{Badge: BadgeDefinition{ID: "epic_earned", Rarity: constants.RarityEpic}, Earned: true, Progress: 1},
		{Badge: BadgeDefinition{ID: "also_near", Rarity: constants.RarityRare}, Progress: 0.9},
	}

	got := SortByPriority(items)
	want := []string{"epic_earned", "common_earned", "also_near", "near", "far"}
	for i, id := range want {
		if got[i].Badge.ID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].Badge.ID, id)
		}
	}
	if items[0].Badge.ID != "near" {
		t.Error("SortByPriority reordered its input")
	}
}

func TestProgressRows(t *testing.T) {
	defs := []BadgeDefinition{dynamicBadge, permanentBadge}
	records := map[string]models.AchievementRecord{
		"streaky": {BadgeID: "streaky", IsCurrentlyEarned: false, CompletionCount: 1},
	}

	rows := Progress(defs, streak(1), records)
	if !rows[0].Recorded || rows[0].Earned {
		t.Errorf("streaky row = %+v, want recorded but not earned", rows[0])
	}
	if rows[1].Recorded {
		t.Errorf("forever row = %+v, want unrecorded", rows[1])
	}
	if rows[0].Progress <= 0 || rows[0].Progress >= 1 {
		t.Errorf("streaky progress = %v, want between 0 and 1", rows[0].Progress)
	}
}
