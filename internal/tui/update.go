package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

const chromeHeight = 6 // tabs, status line and help

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		w, ht := msg.Width-h, msg.Height-v-chromeHeight
		m.habits.SetSize(w, ht)
		m.stats.SetSize(w, ht)
		m.badges.SetSize(w, ht)
		m.insights.SetSize(w, ht)
		m.reload()
		return m, nil

	case habitlist.ToggleHabitMsg:
		m.toggle(msg.ID)
		return m, nil

	case tea.KeyMsg:
		if m.state == StateToday && m.habits.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.habits, cmd = m.habits.Update(msg)
	case StateStats:
		m.stats, cmd = m.stats.Update(msg)
	case StateBadges:
		m.badges, cmd = m.badges.Update(msg)
	case StateInsights:
		m.insights, cmd = m.insights.Update(msg)
	}
	return m, cmd
}
