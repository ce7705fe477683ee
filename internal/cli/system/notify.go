package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
)

type textNotifier interface {
	Notify(text string) error
}

// NotifyCmd pushes free text to the tray app.
type NotifyCmd struct {
	Text []string `arg:"" help:"Message to send."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	n, ok := ctx.Notifier.(textNotifier)
	if !ok {
		return errors.New("notifications are not configured")
	}
	if err := n.Notify(strings.Join(c.Text, " ")); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
