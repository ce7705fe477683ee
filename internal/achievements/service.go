package achievements

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
)

// Store is the persistence the service needs
type Store interface {
	Writer
	GetAchievementRecords(userID string) (map[string]models.AchievementRecord, error)
}

// Service loads a user's records and reconciles them against fresh stats
type Service struct {
	store      Store
	reconciler *Reconciler
}

// NewService creates a service backed by store
func NewService(store Store, opts ...Option) *Service {
	return &Service{
		store:      store,
		reconciler: NewReconciler(store, opts...),
	}
}

// Catalog returns the definitions the service evaluates
func (s *Service) Catalog() []BadgeDefinition {
	return s.reconciler.Catalog()
}

// Evaluate reconciles the user's persisted records with stats. It fails only
// when the existing records cannot be read; write failures are reported in
// Result.Failed.
func (s *Service) Evaluate(userID string, stats []models.DerivedHabitStats) (Result, error) {
	persisted, err := s.store.GetAchievementRecords(userID)
	if err != nil {
		return Result{}, fmt.Errorf("loading achievements: %w", err)
	}
	return s.reconciler.Reconcile(userID, stats, persisted), nil
}
