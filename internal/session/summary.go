package session

import "time"

// Summary reports cumulative and per-session results for a set.
type Summary struct {
	SetDir string

	// Total is the number of questions in the set.
	Total int
	// UniqueCorrect counts questions answered correctly at least once.
	UniqueCorrect int
	// UniqueIncorrect counts questions attempted but never answered correctly.
	UniqueIncorrect int
	// Ratio is UniqueCorrect / Total, 0 for an empty set.
	Ratio float64

	// Asked and Correct are this session's tally.
	Asked   int
	Correct int

	Remaining int
	Duration  time.Duration
	Quit      bool
}

// Summary computes the current summary. Cumulative counts cover only the
// questions present in the set.
func (s *Session) Summary() Summary {
	sum := Summary{
		SetDir:    s.set.Dir,
		Total:     len(s.set.Questions),
		Asked:     s.asked,
		Correct:   s.correct,
		Remaining: len(s.pool),
		Quit:      s.phase == PhaseQuit,
	}
	for _, q := range s.set.Questions {
		r := s.store.Get(q.ID)
		switch {
		case r.Solved():
			sum.UniqueCorrect++
		case r.Failed():
			sum.UniqueIncorrect++
		}
	}
	if sum.Total > 0 {
		sum.Ratio = float64(sum.UniqueCorrect) / float64(sum.Total)
	}

	end := s.finishedAt
	if !s.phase.Finished() {
		end = s.opts.Now()
	}
	sum.Duration = end.Sub(s.startedAt)
	return sum
}

// Accuracy is this session's correct / asked ratio.
func (sum Summary) Accuracy() float64 {
	if sum.Asked == 0 {
		return 0
	}
	return float64(sum.Correct) / float64(sum.Asked)
}
