package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/achievements"
	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/render"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
	"github.com/julianstephens/habitual/internal/tui/components/panel"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateStats
	StateBadges
	StateInsights
)

var tabTitles = []string{"Today", "Stats", "Badges", "Insights"}

// Announcer delivers newly earned badges outside the TUI
type Announcer interface {
	AnnounceBadges(earned []achievements.Earned) int
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithAnnouncer forwards new badges to a. A nil announcer is ignored.
func WithAnnouncer(a Announcer) Option {
	return func(m *Model) { m.announcer = a }
}

// WithOutput sets the writer used to detect the color profile.
func WithOutput(w io.Writer) Option {
	return func(m *Model) { m.out = w }
}

type Model struct {
	store     storage.Provider
	userID    string
	now       func() time.Time
	announcer Announcer
	out       io.Writer

	state    SessionState
	keys     KeyMap
	help     help.Model
	habits   habitlist.Model
	stats    panel.Model
	badges   panel.Model
	insights panel.Model

	report stats.Report
	status string
	err    error

	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, userID string, opts ...Option) Model {
	m := Model{
		store:    store,
		userID:   userID,
		now:      time.Now,
		out:      os.Stdout,
		state:    StateToday,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		habits:   habitlist.New(nil, 0, 0),
		stats:    panel.New(0, 0, "No statistics yet."),
		badges:   panel.New(0, 0, "No badges yet."),
		insights: panel.New(0, 0, "Not enough data for insights yet."),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	if m.state == StateToday {
		keys = append(keys, m.keys.Toggle)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}
	var actions []key.Binding
	if m.state == StateToday {
		actions = []key.Binding{m.keys.Toggle}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) location() (*time.Location, string, error) {
	settings, err := m.store.GetSettings(m.userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := calendar.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, "", err
	}
	return loc, settings.Timezone, nil
}

// reload rebuilds the report and every panel from the store.
func (m *Model) reload() {
	loc, _, err := m.location()
	if err != nil {
		m.err = err
		return
	}
	b := stats.NewBuilder(stats.WithClock(m.now), stats.WithLocation(loc))
	rep, err := b.BuildReport(m.store, m.userID)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.report = rep

	items := make([]habitlist.Item, len(rep.Habits))
	today := calendar.Format(rep.Today)
	for i, h := range rep.Habits {
		s, _ := rep.StatsFor(h.ID)
		items[i] = habitlist.Item{Habit: h, Done: rep.Records.IsCompleted(today, h.ID), Stats: s}
	}
	m.habits.SetItems(items)
	m.renderPanels(loc)
}

func (m *Model) renderPanels(loc *time.Location) {
	r := render.New(m.out, render.WithWidth(max(m.width-2, 40)))
	if len(m.report.Habits) == 0 {
		m.stats.SetContent("")
		m.insights.SetContent("")
	} else {
		m.stats.SetContent(r.StatsTable(m.report) + "\n" + r.Summary(m.report.Summary) + "\n" + r.WeekProgress(m.report))
		m.insights.SetContent(r.Insights(render.BuildInsights(m.report)))
	}

	records, err := m.store.GetAchievementRecords(m.userID)
	if err != nil {
		logger.Warn("failed to load achievements", "error", err)
		return
	}
	rows := achievements.SortByPriority(achievements.Progress(achievements.Catalog(), m.report.Stats, records))
	m.badges.SetContent(r.Badges(rows, loc))
}

// refresh reloads, then reconciles badges against the fresh stats.
func (m *Model) refresh() {
	m.reload()
	if m.err != nil {
		return
	}
	m.reconcile()
}

// toggle flips today's completion of habitID, then reconciles badges.
func (m *Model) toggle(habitID string) {
	day := calendar.Format(m.report.Today)
	var err error
	if m.report.Records.IsCompleted(day, habitID) {
		err = m.store.UnmarkCompletion(m.userID, day, habitID)
	} else {
		err = m.store.MarkCompletion(m.userID, day, habitID, m.now())
	}
	if err != nil {
		m.err = fmt.Errorf("failed to update completion: %w", err)
		return
	}
	m.refresh()
}

func (m *Model) reconcile() {
	_, tz, err := m.location()
	if err != nil {
		m.err = err
		return
	}
	svc := achievements.NewService(m.store, achievements.WithClock(m.now), achievements.WithTimezone(tz))
	res, err := svc.Evaluate(m.userID, m.report.Stats)
	if err != nil {
		m.err = err
		return
	}

	m.status = ""
	if n := len(res.NewlyEarned); n > 0 {
		e := res.NewlyEarned[0]
		m.status = fmt.Sprintf("%s Badge earned: %s", e.Badge.Emoji, e.Badge.Title)
		if n > 1 {
			m.status += fmt.Sprintf(" (+%d more)", n-1)
		}
		if m.announcer != nil {
			m.announcer.AnnounceBadges(res.NewlyEarned)
		}
	}
	if len(res.Failed) > 0 {
		m.err = fmt.Errorf("%d badge(s) could not be saved: %v", len(res.Failed), res.FailedIDs())
	}

	loc, _, _ := m.location()
	m.renderPanels(loc)
}
