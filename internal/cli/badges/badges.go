// Package badges lists achievements and re-runs reconciliation on demand.
package badges

import (
	"errors"

	"github.com/julianstephens/habitual/internal/achievements"
	"github.com/julianstephens/habitual/internal/cli"
	apperrors "github.com/julianstephens/habitual/internal/errors"
)

type BadgesCmd struct {
	List  BadgesListCmd  `cmd:"" default:"1" help:"Show earned badges and progress toward the rest."`
	Check BadgesCheckCmd `cmd:"" help:"Re-evaluate badges against the current statistics."`
}

type BadgesListCmd struct {
	Earned bool `help:"Only show badges that are currently earned."`
}

// Run reconciles before listing so badges lost to a broken streak show as
// lost. A partial save still lists, then reports the failure.
func (c *BadgesListCmd) Run(ctx *cli.Context) error {
	res, reconcileErr := ctx.Reconcile()
	var partial *apperrors.PartialError
	if reconcileErr != nil && !errors.As(reconcileErr, &partial) {
		return reconcileErr
	}
	rep, loc, err := ctx.Report()
	if err != nil {
		return err
	}

	rows := achievements.SortByPriority(achievements.Progress(achievements.Catalog(), rep.Stats, res.Records))
	if c.Earned {
		kept := rows[:0]
		for _, r := range rows {
			if r.Earned {
				kept = append(kept, r)
			}
		}
		rows = kept
		if len(rows) == 0 {
			ctx.Println("No badges earned yet.")
			return reconcileErr
		}
	}

	ctx.Printf("%s", ctx.Renderer().Badges(rows, loc))
	return reconcileErr
}

type BadgesCheckCmd struct{}

func (c *BadgesCheckCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Reconcile()
	if err != nil {
		return err
	}
	if len(res.NewlyEarned) == 0 {
		ctx.Println("No new badges.")
	}
	return nil
}
