package session

import (
	"time"

	"github.com/abhisek/quizrunner/internal/opener"
	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/question"
	"github.com/abhisek/quizrunner/internal/store"
)

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseIdle       Phase = iota // Created, nothing presented yet
	PhasePresenting              // A question is waiting for an answer
	PhaseAnswered                // The last answer was graded
	PhaseDone                    // Pool exhausted
	PhaseQuit                    // Learner stopped early
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePresenting:
		return "presenting"
	case PhaseAnswered:
		return "answered"
	case PhaseDone:
		return "done"
	case PhaseQuit:
		return "quit"
	}
	return "unknown"
}

// Finished reports whether the session has reached a terminal phase.
func (p Phase) Finished() bool {
	return p == PhaseDone || p == PhaseQuit
}

// Chooser picks an index in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type Chooser interface {
	IntN(n int) int
}

// Options configure a Session.
type Options struct {
	// IncludeSolved keeps questions answered correctly in earlier sessions
	// in the pool until they are answered correctly again.
	IncludeSolved bool

	// Rand drives question selection. Defaults to the global source.
	Rand Chooser

	// Opener shows sidecar images. Nil disables images.
	Opener opener.ImageOpener

	// Journal records answers and session markers. Nil disables it.
	Journal store.EventRepo

	// SessionID identifies the session in the journal. Defaults to a new UUID.
	SessionID string

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Outcome is the graded result of one answer.
type Outcome struct {
	Question  *question.Question
	Selection []int
	Correct   bool

	// Record is the question's cumulative record after this answer.
	Record progress.Record

	// Remaining is the pool size after this answer.
	Remaining int
}

// Turn describes the question currently on screen.
type Turn struct {
	Number    int // 1-based count of questions presented this session
	Remaining int // pool size, including the current question
	Total     int // questions in the set
}
