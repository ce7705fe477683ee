package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	m := tui.NewModel(ctx.Store, ctx.UserID,
		tui.WithClock(ctx.Clock),
		tui.WithAnnouncer(ctx.Notifier),
	)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
