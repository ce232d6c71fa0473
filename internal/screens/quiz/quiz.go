// Package quiz is the TUI screen that runs one question set.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrunner/internal/explain"
	"github.com/abhisek/quizrunner/internal/question"
	"github.com/abhisek/quizrunner/internal/router"
	"github.com/abhisek/quizrunner/internal/screen"
	"github.com/abhisek/quizrunner/internal/screens/summary"
	"github.com/abhisek/quizrunner/internal/session"
	"github.com/abhisek/quizrunner/internal/ui/components"
	"github.com/abhisek/quizrunner/internal/ui/layout"
)

const explainTimeout = 45 * time.Second

// Options configure a QuizScreen.
type Options struct {
	// Explainer explains wrong answers automatically and any answer on
	// request. Nil disables explanations.
	Explainer *explain.Service

	// Warnings are load problems shown on the status line.
	Warnings []error
}

// QuizScreen presents the questions of a session one at a time.
type QuizScreen struct {
	sess *session.Session
	opts Options

	current *question.Question
	turn    session.Turn
	input   components.AnswerInput

	inputErr    string
	outcome     *session.Outcome
	confirmQuit bool
	finished    bool

	explaining  bool
	explanation *explain.Explanation
	explainErr  string

	warnings []string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a QuizScreen over s.
func New(s *session.Session, opts Options) *QuizScreen {
	q := &QuizScreen{
		sess:  s,
		opts:  opts,
		input: newInput(),
	}
	for _, w := range opts.Warnings {
		q.warn(w)
	}
	return q
}

func newInput() components.AnswerInput {
	return components.NewAnswerInput("e.g. 1,3", components.SelectionChars, 40)
}

func (q *QuizScreen) Init() tea.Cmd {
	return q.advance()
}

func (q *QuizScreen) Title() string {
	return filepath.Base(q.sess.Set().Dir)
}

// Status shows the cumulative tally for the set.
func (q *QuizScreen) Status() string {
	sum := q.sess.Summary()
	return fmt.Sprintf("✓ %d  ✗ %d  %d left  ", sum.UniqueCorrect, sum.UniqueIncorrect, sum.Remaining)
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case q.outcome != nil:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if q.opts.Explainer.Enabled() && q.explanation == nil && !q.explaining {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
		}
		return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
	}
	hints := []layout.KeyHint{
		{Key: "1-9", Description: "Options"},
		{Key: "Enter", Description: "Submit"},
	}
	if q.current != nil && q.current.HasImage() {
		hints = append(hints, layout.KeyHint{Key: "O", Description: "Image"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case imageOpenedMsg:
		if msg.Err != nil {
			q.warn(msg.Err)
		}
		return q, nil

	case explanationMsg:
		return q.handleExplanation(msg)

	case tea.KeyPressMsg:
		return q.handleKey(msg)
	}

	if q.outcome == nil && !q.confirmQuit {
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if q.confirmQuit {
		switch key {
		case "y", "Y":
			q.confirmQuit = false
			q.sess.Quit()
			return q, q.finish()
		case "n", "N", "esc":
			q.confirmQuit = false
		}
		return q, nil
	}

	// Feedback view.
	if q.outcome != nil {
		switch key {
		case "enter", "space", "n":
			return q, q.advance()
		case "e", "E":
			return q, q.requestExplanation()
		case "q", "Q", "esc":
			q.confirmQuit = true
		}
		return q, nil
	}

	switch key {
	case "esc", "q", "Q":
		q.confirmQuit = true
		return q, nil
	case "o", "O":
		return q, q.openImage()
	case "enter":
		return q.submit()
	}

	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	q.inputErr = ""
	return q, cmd
}

// advance presents the next question, or ends the session when the pool is
// empty.
func (q *QuizScreen) advance() tea.Cmd {
	q.outcome = nil
	q.explaining = false
	q.explanation = nil
	q.explainErr = ""
	q.inputErr = ""

	next, ok := q.sess.Next()
	if !ok {
		return q.finish()
	}
	q.current = next
	q.turn = q.sess.Turn()
	q.input = newInput()
	return tea.Batch(q.input.Init(), q.openImage())
}

func (q *QuizScreen) openImage() tea.Cmd {
	cur := q.current
	if cur == nil || !cur.HasImage() {
		return nil
	}
	s := q.sess
	return func() tea.Msg {
		return imageOpenedMsg{Err: s.ShowImage(cur)}
	}
}

func (q *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	if q.current == nil {
		return q, nil
	}
	selection, err := q.current.ReadSelection(q.input.Value())
	if err != nil {
		q.inputErr = question.SelectionHint(err, len(q.current.Options))
		return q, nil
	}

	out, err := q.sess.Answer(selection)
	if errors.Is(err, session.ErrNotPresenting) {
		return q, nil
	}
	if err != nil {
		q.warn(err)
	}
	q.outcome = &out
	q.input.Grade(out.Correct)

	if !out.Correct {
		return q, q.requestExplanation()
	}
	return q, nil
}

func (q *QuizScreen) requestExplanation() tea.Cmd {
	svc := q.opts.Explainer
	if !svc.Enabled() || q.outcome == nil || q.explaining || q.explanation != nil {
		return nil
	}
	q.explaining = true
	q.explainErr = ""

	cur := *q.outcome.Question
	selection := q.outcome.Selection
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
		defer cancel()
		e, err := svc.Explain(ctx, cur, selection)
		return explanationMsg{QuestionID: cur.ID, Explanation: e, Err: err}
	}
}

func (q *QuizScreen) handleExplanation(msg explanationMsg) (screen.Screen, tea.Cmd) {
	// The learner may have moved on.
	if q.outcome == nil || q.outcome.Question.ID != msg.QuestionID {
		return q, nil
	}
	q.explaining = false
	if msg.Err != nil {
		q.explainErr = msg.Err.Error()
		return q, nil
	}
	q.explanation = msg.Explanation
	return q, nil
}

// finish closes the session and swaps in the summary screen.
func (q *QuizScreen) finish() tea.Cmd {
	q.finished = true
	sum, err := q.sess.Finish()
	if err != nil {
		q.warn(err)
	}
	warnings := append([]string(nil), q.warnings...)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum, warnings)}
	}
}

// Close finalizes the session when the program exits mid-question.
func (q *QuizScreen) Close() {
	if q.finished {
		return
	}
	q.finished = true
	q.sess.Quit()
	_, _ = q.sess.Finish()
}

func (q *QuizScreen) warn(err error) {
	q.warnings = append(q.warnings, err.Error())
}
