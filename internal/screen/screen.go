// Package screen defines what the router and app frame need from a TUI
// screen. It has no dependencies on concrete screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrunner/internal/ui/layout"
)

// Screen is one page of the TUI. View draws only the area between header
// and footer; the app frame owns the rest.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider puts a short status, like "3 left", at the right of the
// header.
type StatusProvider interface {
	Status() string
}

// Closer is called for screens still on the stack when the program exits,
// so a quiz in progress can write its journal end marker.
type Closer interface {
	Close()
}

// ResumeMsg tells a screen it is active again after the screen above it was
// popped.
type ResumeMsg struct{}
