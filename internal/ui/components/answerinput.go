package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrunner/internal/ui/theme"
)

// SelectionChars accepts the characters of an option selection such as
// "1, 3".
func SelectionChars(r rune) bool {
	return (r >= '0' && r <= '9') || r == ',' || r == ' ' || r == ';'
}

// AnswerInput is the one-line field the quiz screen reads selections from.
// Keys outside Accept are swallowed before they reach the textinput, and
// after grading a ✓ or ✗ follows the typed answer.
type AnswerInput struct {
	field  textinput.Model
	Accept func(r rune) bool

	graded  bool
	correct bool
}

// NewAnswerInput returns a focused input limited to limit characters.
func NewAnswerInput(placeholder string, accept func(rune) bool, limit int) AnswerInput {
	field := textinput.New()
	field.Placeholder = placeholder
	field.CharLimit = limit
	field.Focus()
	return AnswerInput{field: field, Accept: accept}
}

func (a AnswerInput) Init() tea.Cmd {
	return a.field.Focus()
}

func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.Text != "" && a.rejects(key.Text) {
		return a, nil
	}
	var cmd tea.Cmd
	a.field, cmd = a.field.Update(msg)
	return a, cmd
}

func (a AnswerInput) rejects(text string) bool {
	if a.Accept == nil {
		return false
	}
	return strings.ContainsFunc(text, func(r rune) bool { return !a.Accept(r) })
}

func (a AnswerInput) View() string {
	v := a.field.View()
	switch {
	case !a.graded:
		return v
	case a.correct:
		return v + " " + theme.Correct.Render("✓")
	default:
		return v + " " + theme.Incorrect.Render("✗")
	}
}

func (a AnswerInput) Value() string {
	return a.field.Value()
}

// Grade freezes the mark shown after the answer.
func (a *AnswerInput) Grade(correct bool) {
	a.graded, a.correct = true, correct
}

// SetValue replaces the typed text.
func (a *AnswerInput) SetValue(s string) {
	a.field.SetValue(s)
}
