package achievements

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Writer persists a single achievement record
type Writer interface {
	WriteAchievementRecord(userID, badgeID string, record models.AchievementRecord) error
}

// Earned is a badge that became earned during a pass
type Earned struct {
	Badge  BadgeDefinition
	Record models.AchievementRecord
}

// Failure is a badge whose updated record could not be saved
type Failure struct {
	BadgeID string
	Err     error
}

// Result is the outcome of one reconciliation pass.
// Records holds every known record after the pass; a badge listed in Failed
// keeps its previous record there.
type Result struct {
	Records     map[string]models.AchievementRecord
	NewlyEarned []Earned
	Failed      []Failure
}

// FailedIDs returns the ids of badges that failed to persist
func (r Result) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.BadgeID
	}
	return ids
}

// Reconciler diffs rule results against persisted achievement records.
// It is safe for concurrent use; writes for the same user and badge are
// serialized.
type Reconciler struct {
	catalog    []BadgeDefinition
	writer     Writer
	now        func() time.Time
	timezone   string
	attempts   int
	retryDelay time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithCatalog replaces the built-in badge catalog
func WithCatalog(defs []BadgeDefinition) Option {
	return func(r *Reconciler) {
		r.catalog = append([]BadgeDefinition(nil), defs...)
	}
}

// WithClock sets the clock used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithTimezone sets the timezone stamped on new records
func WithTimezone(tz string) Option {
	return func(r *Reconciler) { r.timezone = tz }
}

// WithRetry bounds how many times a failing write is attempted
func WithRetry(attempts int, delay time.Duration) Option {
	return func(r *Reconciler) {
		r.attempts = max(attempts, 1)
		r.retryDelay = delay
	}
}

// NewReconciler creates a reconciler writing through w
func NewReconciler(w Writer, opts ...Option) *Reconciler {
	r := &Reconciler{
		catalog:    Catalog(),
		writer:     w,
		now:        time.Now,
		timezone:   constants.DefaultTimezone,
		attempts:   constants.AchievementWriteAttempts,
		retryDelay: constants.AchievementWriteRetryDelay,
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the definitions this reconciler evaluates
func (r *Reconciler) Catalog() []BadgeDefinition {
	return append([]BadgeDefinition(nil), r.catalog...)
}

// Reconcile evaluates every badge against stats and persists the records
// that changed. Badges are independent: a failed write is retried a bounded
// number of times, then reported in Result.Failed while the pass continues.
// Neither stats nor persisted is modified.
func (r *Reconciler) Reconcile(userID string, stats []models.DerivedHabitStats, persisted map[string]models.AchievementRecord) Result {
	res := Result{Records: make(map[string]models.AchievementRecord, len(persisted))}
	for id, rec := range persisted {
		res.Records[id] = rec
	}

	now := r.now()
	for _, def := range r.catalog {
		prev, exists := persisted[def.ID]
		next, changed, announce := r.transition(def, def.Requirement.Met(stats), prev, exists, now)
		if !changed {
			continue
		}

		if err := r.write(userID, def.ID, next); err != nil {
			logger.Error("Failed to save achievement", "user", userID, "badge", def.ID, "error", err)
			res.Failed = append(res.Failed, Failure{BadgeID: def.ID, Err: err})
			continue
		}

		res.Records[def.ID] = next
		if announce {
			logger.Info("Achievement earned", "user", userID, "badge", def.ID, "count", next.CompletionCount)
			res.NewlyEarned = append(res.NewlyEarned, Earned{Badge: def, Record: next})
		} else {
			logger.Info("Achievement revoked", "user", userID, "badge", def.ID)
		}
	}
	return res
}

// transition computes the next record for one badge. changed reports whether
// it must be written; announce whether it counts as newly earned.
func (r *Reconciler) transition(def BadgeDefinition, earned bool, prev models.AchievementRecord, exists bool, now time.Time) (next models.AchievementRecord, changed, announce bool) {
	switch {
	case earned && !exists:
		return models.AchievementRecord{
			BadgeID:           def.ID,
			Type:              def.Type,
			IsCurrentlyEarned: true,
			FirstCompletedAt:  now,
			LastCompletedAt:   now,
			CompletionCount:   1,
			Timezone:          r.timezone,
		}, true, true

	case earned && prev.IsCurrentlyEarned:
		return prev, false, false

	case earned && def.Type == constants.BadgeDynamic:
		next = prev
		next.Type = def.Type
		next.IsCurrentlyEarned = true
		next.CompletionCount++
		next.LastCompletedAt = now
		return next, true, true

	case earned:
		// a permanent record stored as not earned is repaired quietly
		next = prev
		next.Type = def.Type
		next.IsCurrentlyEarned = true
		return next, true, false

	case exists && prev.IsCurrentlyEarned && def.Type == constants.BadgeDynamic:
		next = prev
		next.IsCurrentlyEarned = false
		return next, true, false
	}
	return prev, false, false
}

// write saves rec while holding the badge's lock, retrying failures.
func (r *Reconciler) write(userID, badgeID string, rec models.AchievementRecord) error {
	lock := r.lockFor(userID, badgeID)
	lock.Lock()
	defer lock.Unlock()

	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = r.writer.WriteAchievementRecord(userID, badgeID, rec); err == nil {
			return nil
		}
		logger.Warn("Achievement write failed", "badge", badgeID, "attempt", attempt, "error", err)
		if attempt < r.attempts && r.retryDelay > 0 {
			time.Sleep(r.retryDelay)
		}
	}
	return fmt.Errorf("writing achievement %s after %d attempts: %w", badgeID, r.attempts, err)
}

func (r *Reconciler) lockFor(userID, badgeID string) *sync.Mutex {
	key := userID + "/" + badgeID
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}
