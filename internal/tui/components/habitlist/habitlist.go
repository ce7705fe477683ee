package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

// ToggleHabitMsg asks the parent to mark or unmark today's completion.
type ToggleHabitMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
	Done  bool
	Stats models.DerivedHabitStats
}

func (i Item) Title() string {
	check := "[ ]"
	if i.Done {
		check = "[x]"
	}
	return fmt.Sprintf("%s %s %s", check, i.Habit.Emoji, i.Habit.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("streak %d | best %d | week %d/%d",
		i.Stats.CurrentStreak, i.Stats.BestStreak, i.Stats.WeeklyCompletions, i.Habit.WeeklyGoal)
	if i.Stats.WeeklyCompletions >= i.Habit.WeeklyGoal {
		desc += " | goal met"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m/space", "mark today"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}
	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the rows and keeps the cursor where it was.
func (m *Model) SetItems(items []Item) {
	idx := m.list.Index()
	m.list.SetItems(toListItems(items))
	if idx < len(items) {
		m.list.Select(idx)
	}
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether the user is typing a filter query.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Toggle) {
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Add one with `habitual habit add <name>`."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
