package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrunner/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label string
	// Badge is rendered before the label in the badge style.
	Badge    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu that scrolls when it has more items
// than fit.
type Menu struct {
	Items    []MenuItem
	Selected int
	offset   int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.move(m.Selected-1, -1)
	case "down", "j":
		m.move(m.Selected+1, 1)
	case "home", "g":
		m.move(0, 1)
	case "end", "G":
		m.move(len(m.Items)-1, -1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// move selects the first enabled item from start walking in dir.
func (m *Menu) move(start, dir int) {
	for i := start; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// View renders at most height items, keeping the selection visible. A
// height of zero or less renders every item.
func (m *Menu) View(height int) string {
	first, last := 0, len(m.Items)
	if height > 0 && len(m.Items) > height {
		if m.Selected < m.offset {
			m.offset = m.Selected
		}
		if m.Selected >= m.offset+height {
			m.offset = m.Selected - height + 1
		}
		first, last = m.offset, m.offset+height
	}

	var b strings.Builder
	for i := first; i < last; i++ {
		item := m.Items[i]
		label := item.Label
		if item.Badge != "" {
			label = theme.Badge.Render(item.Badge) + " " + label
		}
		switch {
		case i == m.Selected:
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render("  ▸ " + label))
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("    " + label))
		default:
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("    " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
