// Package router keeps the stack of TUI screens. Screens never hold a
// reference to the router; they navigate by returning one of the Msg types
// below from a command.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrunner/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen and returns to the one below.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the current screen for Screen, e.g. quiz to
// summary, so that popping skips the finished screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens; only the top one receives input.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Push makes s the active screen and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the active screen and sends screen.ResumeMsg to the one that
// becomes active. The root screen is never popped; callers decide what
// popping it means.
func (r *Router) Pop() tea.Cmd {
	if r.top() < 1 {
		return nil
	}
	r.stack[r.top()] = nil
	r.stack = r.stack[:r.top()]
	return func() tea.Msg { return screen.ResumeMsg{} }
}

// Replace swaps the active screen for s and returns s's Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

// Active is the screen on top, nil only for an empty router.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int { return len(r.stack) }

// Close calls Close on every screen.Closer in the stack, top down. Used when
// the program quits with screens still open.
func (r *Router) Close() {
	for i := r.top(); i >= 0; i-- {
		if c, ok := r.stack[i].(screen.Closer); ok {
			c.Close()
		}
	}
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch nav := msg.(type) {
	case PushScreenMsg:
		return r.Push(nav.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(nav.Screen)
	}

	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
