package session

import (
	"context"
	"errors"

	"github.com/abhisek/quizrunner/internal/question"
)

// ErrQuit is returned by a Presenter when the learner asks to stop.
var ErrQuit = errors.New("quit")

// Presenter is the terminal side of a session: it shows questions, collects
// selections and reports results. Warn receives non-fatal problems such as
// image or save failures.
type Presenter interface {
	Present(ctx context.Context, q *question.Question, turn Turn) ([]int, error)
	ShowResult(ctx context.Context, out Outcome) error
	Warn(err error)
}

// Run drives s to completion through p: pick, present, grade, record, save,
// until the pool is empty or the learner quits. Quitting is not an error.
func Run(ctx context.Context, s *Session, p Presenter) (Summary, error) {
	for {
		if ctx.Err() != nil {
			s.Quit()
			break
		}

		q, ok := s.Next()
		if !ok {
			break
		}
		if err := s.ShowImage(q); err != nil {
			p.Warn(err)
		}

		selection, err := p.Present(ctx, q, s.Turn())
		if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
			s.Quit()
			break
		}
		if err != nil {
			s.Quit()
			sum, _ := s.Finish()
			return sum, err
		}

		out, err := s.Answer(selection)
		if err != nil {
			p.Warn(err)
		}

		if err := p.ShowResult(ctx, out); err != nil {
			if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
				s.Quit()
				break
			}
			s.Quit()
			sum, _ := s.Finish()
			return sum, err
		}
	}

	sum, err := s.Finish()
	if err != nil {
		p.Warn(err)
	}
	return sum, nil
}
