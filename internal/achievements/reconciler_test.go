package achievements

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
)

type fakeWriter struct {
	mu      sync.Mutex
	saved   map[string]models.AchievementRecord
	calls   map[string]int
	failFor map[string]int // badge id -> number of calls that fail
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		saved:   make(map[string]models.AchievementRecord),
		calls:   make(map[string]int),
		failFor: make(map[string]int),
	}
}

func (f *fakeWriter) WriteAchievementRecord(userID, badgeID string, rec models.AchievementRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[badgeID]++
	if f.failFor[badgeID] > 0 {
		f.failFor[badgeID]--
		return errors.New("connection reset")
	}
	f.saved[badgeID] = rec
	return nil
}

func (f *fakeWriter) GetAchievementRecords(userID string) (map[string]models.AchievementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.AchievementRecord, len(f.saved))
	for k, v := range f.saved {
		out[k] = v
	}
	return out, nil
}

var (
	fixedNow = time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC)

	dynamicBadge = BadgeDefinition{
		ID: "streaky", Type: constants.BadgeDynamic, Rarity: constants.RarityCommon,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 3},
	}
	permanentBadge = BadgeDefinition{
		ID: "forever", Type: constants.BadgePermanent, Rarity: constants.RarityRare,
		Requirement: Requirement{Kind: KindMax, Metric: MetricCurrentStreak, Threshold: 3},
	}
)

func newTestReconciler(w Writer, defs ...BadgeDefinition) *Reconciler {
	return NewReconciler(w,
		WithCatalog(defs),
		WithClock(func() time.Time { return fixedNow }),
		WithTimezone("UTC"),
		WithRetry(2, 0),
	)
}

func streak(n int) []models.DerivedHabitStats {
	return []models.DerivedHabitStats{{HabitID: "run", CurrentStreak: n}}
}

func TestScenarioFireStarterFromStats(t *testing.T) {
	habits := []models.Habit{{ID: "run", WeeklyGoal: 3}}
	records := models.CompletionRecords{}
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		records.Add(d, "run", time.Time{})
	}
	derived := stats.NewBuilder(stats.WithClock(func() time.Time { return fixedNow }), stats.WithLocation(time.UTC)).
		Build(habits, records)

	fireStarter, _ := Lookup("fire_starter")
	if !fireStarter.Requirement.Met(derived) {
		t.Fatal("fire_starter requirement not met by three-day streak")
	}

	w := newFakeWriter()
	res := newTestReconciler(w, fireStarter).Reconcile("u1", derived, nil)

	if len(res.NewlyEarned) != 1 || res.NewlyEarned[0].Badge.ID != "fire_starter" {
		t.Fatalf("NewlyEarned = %+v, want fire_starter", res.NewlyEarned)
	}
	rec := res.Records["fire_starter"]
	if rec.CompletionCount != 1 || !rec.IsCurrentlyEarned {
		t.Errorf("record = %+v, want count 1 and earned", rec)
	}
	if !rec.FirstCompletedAt.Equal(fixedNow) || rec.Timezone != "UTC" {
		t.Errorf("record timestamps = %v / %q", rec.FirstCompletedAt, rec.Timezone)
	}
	if _, ok := w.saved["fire_starter"]; !ok {
		t.Error("record was not written")
	}
}

func TestScenarioDynamicRevokeAndReEarn(t *testing.T) {
	w := newFakeWriter()
	r := newTestReconciler(w, dynamicBadge)

	first := r.Reconcile("u1", streak(3), nil)
	if len(first.NewlyEarned) != 1 {
		t.Fatalf("first pass NewlyEarned = %d, want 1", len(first.NewlyEarned))
	}

	second := r.Reconcile("u1", streak(0), first.Records)
	rec := second.Records["streaky"]
	if rec.IsCurrentlyEarned || rec.CompletionCount != 1 {
		t.Errorf("after losing: %+v, want not earned with count 1", rec)
	}
	if len(second.NewlyEarned) != 0 {
		t.Errorf("losing a badge announced %d badges", len(second.NewlyEarned))
	}

	third := r.Reconcile("u1", streak(4), second.Records)
	rec = third.Records["streaky"]
	if !rec.IsCurrentlyEarned || rec.CompletionCount != 2 {
		t.Errorf("after re-earning: %+v, want earned with count 2", rec)
	}
	if len(third.NewlyEarned) != 1 {
		t.Errorf("re-earn NewlyEarned = %d, want 1", len(third.NewlyEarned))
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	w := newFakeWriter()
	r := newTestReconciler(w, Catalog()...)
	s := []models.DerivedHabitStats{
		{HabitID: "a", CurrentStreak: 8, BestStreak: 25, TotalCompletions: 60, WeeklyGoalPercentage: 100},
		{HabitID: "b", CurrentStreak: 1, BestStreak: 1, TotalCompletions: 1, WeeklyGoalPercentage: 33},
	}

	first := r.Reconcile("u1", s, nil)
	if len(first.NewlyEarned) == 0 {
		t.Fatal("expected badges on the first pass")
	}
	writes := len(w.saved)

	second := r.Reconcile("u1", s, first.Records)
	if len(second.NewlyEarned) != 0 {
		t.Errorf("second pass NewlyEarned = %d, want 0", len(second.NewlyEarned))
	}
	for id, rec := range second.Records {
		if rec != first.Records[id] {
			t.Errorf("record %q changed on second pass: %+v -> %+v", id, first.Records[id], rec)
		}
	}
	total := 0
	for _, n := range w.calls {
		total += n
	}
	if total != writes {
		t.Errorf("second pass wrote %d times", total-writes)
	}
}

func TestPermanentBadgeIsMonotonic(t *testing.T) {
	w := newFakeWriter()
	r := newTestReconciler(w, permanentBadge)

	res := r.Reconcile("u1", streak(3), nil)
	for _, n := range []int{0, 1, 5, 0} {
		res = r.Reconcile("u1", streak(n), res.Records)
		rec := res.Records["forever"]
		if !rec.IsCurrentlyEarned || rec.CompletionCount != 1 {
			t.Fatalf("permanent record with streak %d = %+v, want earned with count 1", n, rec)
		}
		if len(res.NewlyEarned) != 0 {
			t.Fatalf("permanent badge announced again with streak %d", n)
		}
	}
}

func TestPermanentRecordStoredUnearnedIsRepaired(t *testing.T) {
	w := newFakeWriter()
	r := newTestReconciler(w, permanentBadge)
	persisted := map[string]models.AchievementRecord{
		"forever": {BadgeID: "forever", Type: constants.BadgePermanent, CompletionCount: 1},
	}

	res := r.Reconcile("u1", streak(5), persisted)
	if rec := res.Records["forever"]; !rec.IsCurrentlyEarned || rec.CompletionCount != 1 {
		t.Errorf("record = %+v, want earned with count 1", rec)
	}
	if len(res.NewlyEarned) != 0 {
		t.Error("repair should not be announced")
	}
}

func TestWriteFailureDoesNotAbortPass(t *testing.T) {
	w := newFakeWriter()
	w.failFor["streaky"] = 10
	r := newTestReconciler(w, dynamicBadge, permanentBadge)

	res := r.Reconcile("u1", streak(3), nil)

	if len(res.Failed) != 1 || res.Failed[0].BadgeID != "streaky" {
		t.Fatalf("Failed = %+v, want streaky", res.Failed)
	}
	if _, ok := res.Records["streaky"]; ok {
		t.Error("failed badge should keep its previous (absent) record")
	}
	if len(res.NewlyEarned) != 1 || res.NewlyEarned[0].Badge.ID != "forever" {
		t.Errorf("NewlyEarned = %+v, want only forever", res.NewlyEarned)
	}
	if w.calls["streaky"] != 2 {
		t.Errorf("streaky write attempts = %d, want 2", w.calls["streaky"])
	}
	if got := res.FailedIDs(); len(got) != 1 || got[0] != "streaky" {
		t.Errorf("FailedIDs() = %v", got)
	}
}

func TestWriteRetrySucceeds(t *testing.T) {
	w := newFakeWriter()
	w.failFor["streaky"] = 1
	r := newTestReconciler(w, dynamicBadge)

	res := r.Reconcile("u1", streak(3), nil)
	if len(res.Failed) != 0 {
		t.Errorf("Failed = %+v, want none", res.Failed)
	}
	if len(res.NewlyEarned) != 1 {
		t.Errorf("NewlyEarned = %d, want 1", len(res.NewlyEarned))
	}
}

func TestReconcileDoesNotMutatePersisted(t *testing.T) {
	w := newFakeWriter()
	r := newTestReconciler(w, dynamicBadge)
	persisted := map[string]models.AchievementRecord{
		"streaky": {BadgeID: "streaky", Type: constants.BadgeDynamic, IsCurrentlyEarned: true, CompletionCount: 1},
	}

	r.Reconcile("u1", streak(0), persisted)
	if !persisted["streaky"].IsCurrentlyEarned {
		t.Error("Reconcile modified the persisted map")
	}
}

type slowWriter struct {
	inFlight map[string]*int32
	maxSeen  int32
	mu       sync.Mutex
}

func (s *slowWriter) WriteAchievementRecord(userID, badgeID string, rec models.AchievementRecord) error {
	s.mu.Lock()
	counter, ok := s.inFlight[badgeID]
	if !ok {
		counter = new(int32)
		s.inFlight[badgeID] = counter
	}
	s.mu.Unlock()

	n := atomic.AddInt32(counter, 1)
	for {
		seen := atomic.LoadInt32(&s.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&s.maxSeen, seen, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(counter, -1)
	return nil
}

func TestConcurrentPassesSerializeWritesPerBadge(t *testing.T) {
	w := &slowWriter{inFlight: make(map[string]*int32)}
	r := newTestReconciler(w, dynamicBadge, permanentBadge)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Reconcile("u1", streak(3), nil)
		}()
	}
	wg.Wait()

	if w.maxSeen > 1 {
		t.Errorf("saw %d concurrent writes for one badge, want at most 1", w.maxSeen)
	}
}

func TestServiceEvaluate(t *testing.T) {
	w := newFakeWriter()
	svc := NewService(w, WithCatalog([]BadgeDefinition{dynamicBadge}), WithClock(func() time.Time { return fixedNow }))

	res, err := svc.Evaluate("u1", streak(3))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(res.NewlyEarned) != 1 {
		t.Fatalf("NewlyEarned = %d, want 1", len(res.NewlyEarned))
	}

	res, err = svc.Evaluate("u1", streak(3))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(res.NewlyEarned) != 0 {
		t.Errorf("second Evaluate() NewlyEarned = %d, want 0", len(res.NewlyEarned))
	}
}

type brokenStore struct{ fakeWriter }

func (*brokenStore) GetAchievementRecords(string) (map[string]models.AchievementRecord, error) {
	return nil, errors.New("database is locked")
}

func TestServiceEvaluateLoadError(t *testing.T) {
	svc := NewService(&brokenStore{})
	if _, err := svc.Evaluate("u1", nil); err == nil {
		t.Error("Evaluate() expected error when records cannot be loaded")
	}
}
