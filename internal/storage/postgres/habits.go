package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const habitColumns = "id, name, emoji, color, weekly_goal, description, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	if err := row.Scan(&h.ID, &h.Name, &h.Emoji, &h.Color, &h.WeeklyGoal, &h.Description, &h.CreatedAt); err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt = h.CreatedAt.UTC()
	return h, nil
}

func (s *Store) AddHabit(userID string, habit models.Habit) error {
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO habits (id, user_id, name, emoji, color, weekly_goal, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		habit.ID, userID, habit.Name, habit.Emoji, habit.Color, habit.WeeklyGoal, habit.Description, habit.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateHabit, habit.Name)
	}
	return err
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE user_id = $1 AND id = $2", userID, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(userID, name string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE user_id = $1 AND lower(name) = lower($2)", userID, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabits(userID string) ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT "+habitColumns+" FROM habits WHERE user_id = $1 ORDER BY created_at, name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(userID string, habit models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits SET name = $1, emoji = $2, color = $3, weekly_goal = $4, description = $5
		WHERE user_id = $6 AND id = $7`,
		habit.Name, habit.Emoji, habit.Color, habit.WeeklyGoal, habit.Description, userID, habit.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", storage.ErrDuplicateHabit, habit.Name)
		}
		return err
	}
	return requireRow(res, "habit "+habit.ID)
}

func (s *Store) DeleteHabit(userID, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions WHERE user_id = $1 AND habit_id = $2", userID, id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := requireRow(res, "habit "+id); err != nil {
		return err
	}
	return tx.Commit()
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
