package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// ErrInvalidHabit is wrapped by every habit field error
var ErrInvalidHabit = errors.New("invalid habit")

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateHabit checks the user-editable fields of a habit
func ValidateHabit(h models.Habit) error {
	name := strings.TrimSpace(h.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidHabit)
	case utf8.RuneCountInString(name) > constants.MaxHabitNameLen:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidHabit, constants.MaxHabitNameLen)
	case h.WeeklyGoal < constants.MinWeeklyGoal || h.WeeklyGoal > constants.MaxWeeklyGoal:
		return fmt.Errorf("%w: weekly goal %d out of range %d..%d", ErrInvalidHabit, h.WeeklyGoal, constants.MinWeeklyGoal, constants.MaxWeeklyGoal)
	case h.Color != "" && !hexColor.MatchString(h.Color):
		return fmt.Errorf("%w: color %q is not a #RRGGBB hex value", ErrInvalidHabit, h.Color)
	case utf8.RuneCountInString(h.Emoji) > 8:
		return fmt.Errorf("%w: emoji %q is too long", ErrInvalidHabit, h.Emoji)
	}
	return nil
}

// ConflictType represents the type of data problem found
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictUnknownHabit       ConflictType = "unknown_habit"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictFutureCompletion   ConflictType = "future_completion"
	ConflictOrphanDetail       ConflictType = "orphan_detail"
)

// Conflict represents a detected problem in stored habit data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	HabitIDs    []string // habits involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks habits and completions for inconsistencies
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateData reports problems in a user's habits and completion records.
// Unknown habit ids are reported but are harmless to the statistics engine,
// which ignores them.
func (v *Validator) ValidateData(habits []models.Habit, records models.CompletionRecords, today time.Time) ValidationResult {
	var result ValidationResult

	known := make(map[string]bool, len(habits))
	byName := make(map[string][]string)
	for _, h := range habits {
		known[h.ID] = true
		key := strings.ToLower(strings.TrimSpace(h.Name))
		byName[key] = append(byName[key], h.ID)
		if err := ValidateHabit(h); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %q: %v", h.Name, err),
				HabitIDs:    []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := byName[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name %q (%d habits)", name, len(ids)),
				HabitIDs:    ids,
			})
		}
	}

	days := make([]string, 0, len(records))
	for day := range records {
		days = append(days, day)
	}
	sort.Strings(days)

	todayCivil := calendar.Civil(today)
	for _, day := range days {
		rec := records[day]
		d, err := calendar.Parse(day)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Completion record has invalid date %q", day),
				Date:        day,
			})
			continue
		}
		if d.After(todayCivil) && len(rec.CompletedHabits) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureCompletion,
				Description: fmt.Sprintf("Completions recorded for future date %s", day),
				Date:        day,
				HabitIDs:    rec.HabitIDs(),
			})
		}

		var unknown []string
		for _, id := range rec.HabitIDs() {
			if !known[id] {
				unknown = append(unknown, id)
			}
		}
		if len(unknown) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownHabit,
				Description: fmt.Sprintf("%s references %d deleted habit(s)", day, len(unknown)),
				Date:        day,
				HabitIDs:    unknown,
			})
		}

		var orphans []string
		for id := range rec.HabitDetails {
			if !rec.Has(id) {
				orphans = append(orphans, id)
			}
		}
		if len(orphans) > 0 {
			sort.Strings(orphans)
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanDetail,
				Description: fmt.Sprintf("%s has details for habits not marked complete", day),
				Date:        day,
				HabitIDs:    orphans,
			})
		}
	}

	return result
}
