// Package session drives one pass over a question set: it picks questions
// from the pool of unsolved cards, grades answers, and persists progress
// after every answer.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/question"
	"github.com/abhisek/quizrunner/internal/questionset"
	"github.com/abhisek/quizrunner/internal/store"
)

// ErrNotPresenting is returned by Answer when no question is on screen.
var ErrNotPresenting = errors.New("no question is being presented")

// Session is the explicit state of one quiz run. It is not safe for
// concurrent use; the TUI only touches it from its Update loop.
type Session struct {
	set   *questionset.Set
	store *progress.Store
	opts  Options

	pool    []*question.Question
	current *question.Question
	last    *question.Question
	phase   Phase

	asked   int
	correct int

	startedAt   time.Time
	presentedAt time.Time
	finishedAt  time.Time
	started     bool
	ended       bool

	// startErr is a failed start marker, reported with the next answer.
	startErr error
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// New creates a session over set, recording into st. The pool starts with
// every question that was never answered correctly, or every question when
// IncludeSolved is set.
func New(set *questionset.Set, st *progress.Store, opts Options) *Session {
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.New().String()
	}

	s := &Session{set: set, store: st, opts: opts, phase: PhaseIdle}
	for _, q := range set.Questions {
		if opts.IncludeSolved || !st.Get(q.ID).Solved() {
			s.pool = append(s.pool, q)
		}
	}
	s.startedAt = opts.Now()
	return s
}

// ID returns the session's journal identifier.
func (s *Session) ID() string { return s.opts.SessionID }

// Set returns the question set being studied.
func (s *Session) Set() *questionset.Set { return s.set }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Pool returns the IDs of the questions still to be answered correctly.
func (s *Session) Pool() []string {
	ids := make([]string, len(s.pool))
	for i, q := range s.pool {
		ids[i] = q.ID
	}
	return ids
}

// Current returns the question on screen, or nil.
func (s *Session) Current() *question.Question {
	if s.phase != PhasePresenting {
		return nil
	}
	return s.current
}

// Record returns the stored record for a question.
func (s *Session) Record(id string) progress.Record {
	return s.store.Get(id)
}

// Turn describes the current question's position in the session.
func (s *Session) Turn() Turn {
	return Turn{Number: s.asked + 1, Remaining: len(s.pool), Total: len(s.set.Questions)}
}

// Next moves to the next question. It returns false, and the session becomes
// done, when the pool is empty. Calling Next while a question is already
// presented returns that question again.
func (s *Session) Next() (*question.Question, bool) {
	switch s.phase {
	case PhaseDone, PhaseQuit:
		return nil, false
	case PhasePresenting:
		return s.current, true
	}

	if len(s.pool) == 0 {
		s.finish(PhaseDone)
		return nil, false
	}

	s.begin()
	s.current = s.pick()
	s.phase = PhasePresenting
	s.presentedAt = s.opts.Now()
	return s.current, true
}

// pick chooses uniformly from the pool, skipping the previous question
// unless it is the only one left.
func (s *Session) pick() *question.Question {
	candidates := s.pool
	if len(s.pool) > 1 && s.last != nil {
		candidates = make([]*question.Question, 0, len(s.pool)-1)
		for _, q := range s.pool {
			if q != s.last {
				candidates = append(candidates, q)
			}
		}
	}
	return candidates[s.opts.Rand.IntN(len(candidates))]
}

// ShowImage opens the current question's sidecar image, if any.
// A failure is an *opener.Error the caller should only warn about.
func (s *Session) ShowImage(q *question.Question) error {
	if s.opts.Opener == nil || q == nil || !q.HasImage() {
		return nil
	}
	return s.opts.Opener.Open(q.ImagePath)
}

// Answer grades selection against the current question, records the result
// and saves progress. The Outcome is valid even when the returned error is
// non-nil; errors are save or journal failures the caller should report.
func (s *Session) Answer(selection []int) (Outcome, error) {
	if s.phase != PhasePresenting || s.current == nil {
		return Outcome{}, ErrNotPresenting
	}
	q := s.current
	ok := q.Grade(selection)

	s.store.Record(q.ID, ok)
	s.asked++
	if ok {
		s.correct++
		s.removeFromPool(q)
	}
	s.last = q
	s.phase = PhaseAnswered

	var errs []error
	if s.startErr != nil {
		errs = append(errs, s.startErr)
		s.startErr = nil
	}
	if err := s.store.Save(); err != nil {
		errs = append(errs, err)
	}
	if err := s.journalAnswer(q, selection, ok); err != nil {
		errs = append(errs, err)
	}

	return Outcome{
		Question:  q,
		Selection: selection,
		Correct:   ok,
		Record:    s.store.Get(q.ID),
		Remaining: len(s.pool),
	}, errors.Join(errs...)
}

func (s *Session) removeFromPool(q *question.Question) {
	for i, p := range s.pool {
		if p == q {
			s.pool = append(s.pool[:i], s.pool[i+1:]...)
			return
		}
	}
}

// Quit stops the session. Answers already given stay saved. A session whose
// pool is already empty ends as done rather than quit.
func (s *Session) Quit() {
	if s.phase.Finished() {
		return
	}
	if len(s.pool) == 0 {
		s.finish(PhaseDone)
		return
	}
	s.finish(PhaseQuit)
}

func (s *Session) finish(p Phase) {
	s.phase = p
	s.current = nil
	s.finishedAt = s.opts.Now()
}

// Finish journals the end of the session and returns its summary. It quits
// the session first if it is still running. Safe to call more than once.
func (s *Session) Finish() (Summary, error) {
	s.Quit()
	sum := s.Summary()
	if s.ended || !s.started {
		return sum, nil
	}
	s.ended = true
	if s.opts.Journal == nil {
		return sum, nil
	}
	err := s.opts.Journal.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:       s.opts.SessionID,
		SetDir:          s.set.Dir,
		Action:          store.ActionEnd,
		QuestionsServed: sum.Asked,
		CorrectAnswers:  sum.Correct,
		DurationSecs:    int(sum.Duration.Seconds()),
	})
	if err != nil {
		return sum, fmt.Errorf("journal session end: %w", err)
	}
	return sum, nil
}

// begin journals the session start the first time a question is presented.
func (s *Session) begin() {
	if s.started {
		return
	}
	s.started = true
	if s.opts.Journal == nil {
		return
	}
	err := s.opts.Journal.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID: s.opts.SessionID,
		SetDir:    s.set.Dir,
		Action:    store.ActionStart,
	})
	if err != nil {
		s.startErr = fmt.Errorf("journal session start: %w", err)
	}
}

func (s *Session) journalAnswer(q *question.Question, selection []int, ok bool) error {
	if s.opts.Journal == nil {
		return nil
	}
	err := s.opts.Journal.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:  s.opts.SessionID,
		SetDir:     s.set.Dir,
		QuestionID: q.ID,
		Selection:  question.FormatSelection(selection),
		Correct:    ok,
		TimeMs:     s.opts.Now().Sub(s.presentedAt).Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("journal answer: %w", err)
	}
	return nil
}
