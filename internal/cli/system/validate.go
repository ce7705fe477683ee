package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validateData(ctx)
	if err != nil {
		return err
	}
	ctx.Println(strings.TrimSuffix(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflict(s)", len(result.Conflicts))
	}
	return nil
}

func validateData(ctx *cli.Context) (validation.ValidationResult, error) {
	loc, _, err := ctx.Location()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	habits, err := ctx.Store.GetHabits(ctx.UserID)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get habits: %w", err)
	}
	records, err := ctx.Store.GetCompletionRecords(ctx.UserID)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get completions: %w", err)
	}
	today := calendar.DateOf(ctx.Clock(), loc)
	return validation.New().ValidateData(habits, records, today), nil
}
