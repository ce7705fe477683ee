package models

import (
	"sort"
	"time"
)

// CompletionDetail holds per-habit metadata for a completed day
type CompletionDetail struct {
	CompletedAt time.Time `json:"completed_at"`
}

// CompletionRecord lists the habits completed on a single day.
// Every key of HabitDetails is also present in CompletedHabits.
type CompletionRecord struct {
	Date            string                      `json:"date"` // YYYY-MM-DD format
	CompletedHabits map[string]struct{}         `json:"completed_habits"`
	HabitDetails    map[string]CompletionDetail `json:"habit_details"`
}

// NewCompletionRecord builds a record for date with the given habits completed
// and no details.
func NewCompletionRecord(date string, habitIDs ...string) CompletionRecord {
	rec := CompletionRecord{
		Date:            date,
		CompletedHabits: make(map[string]struct{}, len(habitIDs)),
		HabitDetails:    make(map[string]CompletionDetail),
	}
	for _, id := range habitIDs {
		rec.CompletedHabits[id] = struct{}{}
	}
	return rec
}

// Has reports whether habitID is completed in this record
func (r CompletionRecord) Has(habitID string) bool {
	_, ok := r.CompletedHabits[habitID]
	return ok
}

// HabitIDs returns the completed habit ids sorted
func (r CompletionRecord) HabitIDs() []string {
	ids := make([]string, 0, len(r.CompletedHabits))
	for id := range r.CompletedHabits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CompletionRecords is a snapshot of a user's completions keyed by day.
// A missing day and a day with an empty set mean the same thing.
type CompletionRecords map[string]CompletionRecord

// IsCompleted reports whether habitID was completed on day
func (rs CompletionRecords) IsCompleted(day, habitID string) bool {
	rec, ok := rs[day]
	if !ok {
		return false
	}
	return rec.Has(habitID)
}

// Detail returns the completion detail for habitID on day, if any
func (rs CompletionRecords) Detail(day, habitID string) (CompletionDetail, bool) {
	rec, ok := rs[day]
	if !ok || !rec.Has(habitID) {
		return CompletionDetail{}, false
	}
	d, ok := rec.HabitDetails[habitID]
	return d, ok
}

// Dates returns every day that has at least one completion, ascending
func (rs CompletionRecords) Dates() []string {
	days := make([]string, 0, len(rs))
	for day, rec := range rs {
		if len(rec.CompletedHabits) > 0 {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// Add marks habitID completed on day. It is meant for building a snapshot
// (store reads, tests); the engine never calls it.
func (rs CompletionRecords) Add(day, habitID string, completedAt time.Time) {
	rec, ok := rs[day]
	if !ok {
		rec = NewCompletionRecord(day)
	}
	rec.CompletedHabits[habitID] = struct{}{}
	if !completedAt.IsZero() {
		rec.HabitDetails[habitID] = CompletionDetail{CompletedAt: completedAt}
	}
	rs[day] = rec
}
