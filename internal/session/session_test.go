package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizrunner/internal/opener"
	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/store"
)

func TestTwoQuestionScenario(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"q1.txt": "10", "q2.txt": "01"})
	s := New(set, progress.New(dir), Options{Rand: firstChooser{}})

	assert.Len(t, s.Pool(), 2)

	q, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, "q1.txt", q.ID)
	out, err := s.Answer([]int{1})
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Len(t, s.Pool(), 1)

	q, ok = s.Next()
	require.True(t, ok)
	require.Equal(t, "q2.txt", q.ID)
	out, err = s.Answer([]int{1})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Len(t, s.Pool(), 1)

	q, ok = s.Next()
	require.True(t, ok)
	require.Equal(t, "q2.txt", q.ID, "single-question pool may repeat")
	out, err = s.Answer([]int{2})
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Empty(t, s.Pool())

	_, ok = s.Next()
	assert.False(t, ok)
	assert.Equal(t, PhaseDone, s.Phase())

	saved := loadStore(t, dir)
	assert.Equal(t, progress.Record{Attempts: 1, Correct: 1}, saved.Get("q1.txt"))
	assert.Equal(t, progress.Record{Attempts: 2, Correct: 1}, saved.Get("q2.txt"))

	sum := s.Summary()
	assert.Equal(t, 3, sum.Asked)
	assert.Equal(t, 2, sum.Correct)
	assert.Equal(t, 2, sum.UniqueCorrect)
	assert.Equal(t, 0, sum.UniqueIncorrect)
	assert.InDelta(t, 1.0, sum.Ratio, 1e-9)
	assert.False(t, sum.Quit)
}

func TestPool_ExcludesSolved(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "1", "b.txt": "1", "c.txt": "1"})
	st := progress.New(dir)
	st.Record("a.txt", true)
	st.Record("b.txt", false)

	s := New(set, st, Options{})
	assert.Equal(t, []string{"b.txt", "c.txt"}, s.Pool())

	all := New(set, st, Options{IncludeSolved: true})
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, all.Pool())
}

func TestNeverPresentsSolvedQuestion(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		dir := t.TempDir()
		set := writeSet(t, dir, map[string]string{
			"a.txt": "10", "b.txt": "01", "c.txt": "11", "d.txt": "10", "e.txt": "01",
		})
		st := progress.New(dir)
		st.Record("c.txt", true)
		st.Record("e.txt", false)
		st.Record("e.txt", true)

		rng := rand.New(rand.NewPCG(seed, 7))
		s := New(set, st, Options{Rand: rng})
		solved := map[string]bool{"c.txt": true, "e.txt": true}

		var last string
		for turn := 0; turn < 200; turn++ {
			q, ok := s.Next()
			if !ok {
				break
			}
			if solved[q.ID] {
				t.Fatalf("seed %d: re-presented solved question %s", seed, q.ID)
			}
			if q.ID == last && len(s.Pool()) > 1 {
				t.Fatalf("seed %d: %s presented twice in a row with pool %v", seed, q.ID, s.Pool())
			}
			last = q.ID

			sel := []int{1}
			if rng.IntN(2) == 0 {
				sel = q.CorrectSet()
			}
			out, err := s.Answer(sel)
			require.NoError(t, err)
			if out.Correct {
				solved[q.ID] = true
			}
		}
		assert.Equal(t, PhaseDone, s.Phase(), "seed %d", seed)
	}
}

func TestIncludeSolved_LeavesPoolOnceAnswered(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "1"})
	st := progress.New(dir)
	st.Record("a.txt", true)

	s := New(set, st, Options{IncludeSolved: true})
	q, ok := s.Next()
	require.True(t, ok)
	_, err := s.Answer(q.CorrectSet())
	require.NoError(t, err)

	_, ok = s.Next()
	assert.False(t, ok)
	assert.Equal(t, progress.Record{Attempts: 2, Correct: 2}, st.Get("a.txt"))
}

func TestAnswer_RequiresPresentedQuestion(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "1"})
	s := New(set, progress.New(dir), Options{})

	_, err := s.Answer([]int{1})
	assert.ErrorIs(t, err, ErrNotPresenting)

	q1, _ := s.Next()
	q2, _ := s.Next()
	assert.Same(t, q1, q2, "Next while presenting returns the same question")
}

func TestAnswer_SaveFailureKeepsSessionRunning(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "10", "b.txt": "01"})
	st := progress.New(filepath.Join(dir, "gone"))
	s := New(set, st, Options{Rand: firstChooser{}})

	s.Next()
	out, err := s.Answer([]int{1})
	var saveErr *progress.SaveError
	require.True(t, errors.As(err, &saveErr), "got %v", err)
	assert.True(t, out.Correct)
	assert.Equal(t, progress.Record{Attempts: 1, Correct: 1}, out.Record)

	q, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "b.txt", q.ID)
}

func TestQuit(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "1", "b.txt": "1"})
	s := New(set, progress.New(dir), Options{})

	s.Next()
	s.Quit()
	assert.Equal(t, PhaseQuit, s.Phase())
	assert.Nil(t, s.Current())
	_, ok := s.Next()
	assert.False(t, ok)
	assert.True(t, s.Summary().Quit)

	_, err := os.Stat(progress.Path(dir))
	assert.True(t, errors.Is(err, os.ErrNotExist), "quit before answering writes nothing")
}

func TestShowImage(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "1"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0o644))
	set.Questions[0].ImagePath = filepath.Join(dir, "a.png")

	var opened []string
	s := New(set, progress.New(dir), Options{Opener: opener.Func(func(p string) error {
		opened = append(opened, p)
		return &opener.Error{Path: p, Err: errors.New("no display")}
	})})

	q, _ := s.Next()
	err := s.ShowImage(q)
	var oErr *opener.Error
	assert.True(t, errors.As(err, &oErr))
	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, opened)

	noImages := New(set, progress.New(dir), Options{})
	assert.NoError(t, noImages.ShowImage(q))
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "10"})
	db, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	clock := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
	s := New(set, progress.New(dir), Options{Journal: db.EventRepo(), SessionID: "sess-1", Now: clock.Now})

	s.Next()
	_, err = s.Answer([]int{2})
	require.NoError(t, err)
	s.Next()
	_, err = s.Answer([]int{1})
	require.NoError(t, err)

	sum, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Asked)
	_, err = s.Finish()
	require.NoError(t, err)

	repo := db.EventRepo()
	answers, err := repo.QueryAnswers(t.Context(), store.QueryOpts{SessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "2", answers[0].Selection)
	assert.False(t, answers[0].Correct)
	assert.True(t, answers[1].Correct)
	assert.Equal(t, int64(1000), answers[0].TimeMs)

	sums, err := repo.QuerySessionSummaries(t.Context(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sums, 1, "Finish journals the end once")
	assert.Equal(t, dir, sums[0].SetDir)
	assert.Equal(t, 1, sums[0].CorrectAnswers)
}

// failingStart journals everything except the session start marker.
type failingStart struct {
	store.EventRepo
}

func (f failingStart) AppendSessionEvent(ctx context.Context, d store.SessionEventData) error {
	if d.Action == store.ActionStart {
		return errors.New("disk full")
	}
	return f.EventRepo.AppendSessionEvent(ctx, d)
}

func TestJournal_StartFailureReportedWithFirstAnswer(t *testing.T) {
	dir := t.TempDir()
	set := writeSet(t, dir, map[string]string{"a.txt": "10"})
	db, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	s := New(set, progress.New(dir), Options{Journal: failingStart{db.EventRepo()}, SessionID: "sess-1"})

	s.Next()
	out, err := s.Answer([]int{2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal session start")
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, out.Correct, "the outcome is still graded")

	s.Next()
	_, err = s.Answer([]int{1})
	assert.NoError(t, err, "the start failure is reported once")
}

func TestLoad_CorruptProgressBackedUp(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, map[string]string{"a.txt": "1"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(progress.Path(dir), []byte("{broken"), 0o644))

	src, err := Load(dir, questionsetDefaults())
	require.NoError(t, err)
	require.Len(t, src.Warnings, 2)
	var cErr *progress.CorruptFileError
	assert.True(t, errors.As(src.Warnings[1], &cErr))
	assert.Equal(t, 0, src.Store.Len())

	_, err = os.Stat(progress.Path(dir) + ".corrupt")
	assert.NoError(t, err)
}

func TestLoad_AdoptsLegacyNames(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, map[string]string{"part/a.txt": "1"})
	require.NoError(t, os.WriteFile(progress.Path(dir),
		[]byte(`{"stats": {"a.txt": {"correct": 1, "incorrect": 2}}}`), 0o644))

	src, err := Load(dir, questionsetDefaults())
	require.NoError(t, err)
	assert.Empty(t, src.Warnings)
	assert.Equal(t, progress.Record{Attempts: 3, Correct: 1}, src.Store.Get("part/a.txt"))

	s := src.NewSession(Options{})
	assert.Empty(t, s.Pool())
}
