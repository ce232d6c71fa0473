// Package menu is the TUI set picker shown at startup.
package menu

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/abhisek/quizrunner/internal/router"
	"github.com/abhisek/quizrunner/internal/screen"
	"github.com/abhisek/quizrunner/internal/ui/components"
	"github.com/abhisek/quizrunner/internal/ui/layout"
	"github.com/abhisek/quizrunner/internal/ui/theme"
)

// Starter loads the set behind entry and returns the screen that runs it.
type Starter func(entry questionset.Entry) (screen.Screen, error)

// MenuScreen lists the discovered question sets.
type MenuScreen struct {
	base    string
	start   Starter
	entries []questionset.Entry
	menu    components.Menu
	errMsg  string

	history func() screen.Screen
}

var _ screen.Screen = (*MenuScreen)(nil)
var _ screen.KeyHintProvider = (*MenuScreen)(nil)

// New creates a MenuScreen over entries discovered under base.
func New(base string, entries []questionset.Entry, start Starter) *MenuScreen {
	m := &MenuScreen{base: base, start: start}
	m.setEntries(entries)
	return m
}

// WithHistory enables the h key, which pushes the screen open returns.
func (m *MenuScreen) WithHistory(open func() screen.Screen) *MenuScreen {
	m.history = open
	return m
}

func (m *MenuScreen) setEntries(entries []questionset.Entry) {
	m.entries = entries
	selected := m.menu.Selected

	items := make([]components.MenuItem, len(entries))
	for i, e := range entries {
		items[i] = components.MenuItem{Label: e.Rel, Action: m.startAction(e)}
		if e.HasProgress {
			items[i].Badge = strings.TrimSpace(questionset.ContinueLabel)
		}
	}
	m.menu = components.NewMenu(items)
	if selected < len(items) {
		m.menu.Selected = selected
	}
}

func (m *MenuScreen) startAction(e questionset.Entry) func() tea.Cmd {
	return func() tea.Cmd {
		scr, err := m.start(e)
		if err != nil {
			m.errMsg = err.Error()
			return nil
		}
		m.errMsg = ""
		return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	}
}

func (m *MenuScreen) Init() tea.Cmd {
	return nil
}

func (m *MenuScreen) Title() string {
	return "Question sets"
}

func (m *MenuScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
	}
	if m.history != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (m *MenuScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumeMsg:
		// Progress changed; the set that was just played may now sort first.
		if entries, err := questionset.Discover(m.base); err == nil {
			m.setEntries(entries)
		}
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "h":
			if m.history != nil {
				scr := m.history()
				return m, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
			}
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *MenuScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Choose a question set"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf("%d set(s) in %s", len(m.entries), m.base)))
	b.WriteString("\n\n")

	listHeight := height - 6
	list := m.menu.View(listHeight)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(min(width-8, 80)).Render(list)))

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(m.errMsg))
	}
	return b.String()
}
