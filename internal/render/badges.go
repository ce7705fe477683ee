package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/achievements"
	"github.com/julianstephens/habitual/internal/constants"
)

const progressBarWidth = 12

// Badges lists badge rows in the order given. Earned badges show when they
// were last earned in loc; the rest show progress.
func (r *Renderer) Badges(rows []achievements.BadgeProgress, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	earned := 0
	for _, p := range rows {
		if p.Earned {
			earned++
		}
	}
	b.WriteString(r.title.Render(fmt.Sprintf("Badges %d/%d", earned, len(rows))))
	b.WriteString("\n")

	for _, p := range rows {
		rarity := r.rarityStyle(p.Badge.Rarity).Render(fmt.Sprintf("[%s]", p.Badge.Rarity))
		fmt.Fprintf(&b, "%s %-18s %s\n", p.Badge.Emoji, p.Badge.Title, rarity)

		status := ""
		switch {
		case p.Earned:
			status = r.good.Render("earned " + p.Record.LastCompletedAt.In(loc).Format(constants.DateFormat))
			if p.Record.CompletionCount > 1 {
				status += r.muted.Render(fmt.Sprintf(" (%dx)", p.Record.CompletionCount))
			}
		case p.Recorded:
			status = r.warn.Render("lost ") + r.progress(p.Progress)
		default:
			status = r.progress(p.Progress)
		}
		fmt.Fprintf(&b, "   %s\n   %s\n", r.muted.Render(p.Badge.Description), status)
	}
	return b.String()
}

func (r *Renderer) progress(fraction float64) string {
	return r.accent.Render(bar(fraction, progressBarWidth)) + fmt.Sprintf(" %3.0f%%", fraction*100)
}

func (r *Renderer) rarityStyle(rarity constants.Rarity) lipgloss.Style {
	switch rarity {
	case constants.RarityLegendary, constants.RarityEpic:
		return r.accent
	case constants.RarityRare:
		return r.good
	default:
		return r.muted
	}
}

// NewlyEarned is the short banner printed after a completion is toggled.
func (r *Renderer) NewlyEarned(earned []achievements.Earned) string {
	var b strings.Builder
	for _, e := range earned {
		fmt.Fprintf(&b, "%s %s %s\n", e.Badge.Emoji, r.accent.Render("Badge earned:"), r.title.Render(e.Badge.Title))
	}
	return b.String()
}
