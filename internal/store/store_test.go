package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo().(*eventRepo)
	ctx := context.Background()

	if n, err := repo.lastSequence(ctx); err != nil || n != 0 {
		t.Fatalf("lastSequence on empty journal = %d, %v", n, err)
	}

	appends := []func() error{
		func() error {
			return repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", SetDir: "/a", Action: ActionStart})
		},
		func() error {
			return repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", SetDir: "/a", QuestionID: "q1.txt", Selection: "1"})
		},
		func() error {
			return repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "explain", Success: true})
		},
	}
	var last int64
	for i, appendFn := range appends {
		if err := appendFn(); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		n, err := repo.lastSequence(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if n != last+1 {
			t.Fatalf("after append %d sequence = %d, want %d", i, n, last+1)
		}
		last = n
	}
}

func TestFailedInsertKeepsSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo().(*eventRepo)
	ctx := context.Background()

	if err := repo.appendEvent(ctx, "answer_events", []string{"no_such_column"}, 1); err == nil {
		t.Fatal("expected insert error")
	}
	if n, err := repo.lastSequence(ctx); err != nil || n != 0 {
		t.Errorf("sequence after failed insert = %d, %v; want 0", n, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.EventRepo().AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", SetDir: "/sets/a", Action: ActionEnd, QuestionsServed: 3,
	}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.EventRepo().QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].QuestionsServed != 3 {
		t.Errorf("summaries after reopen = %+v", got)
	}
}

func TestSessionAndAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	repo := s.EventRepo()
	ctx := context.Background()

	mustAppend := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	mustAppend(repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", SetDir: "/a", Action: ActionStart}))
	mustAppend(repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", SetDir: "/a", QuestionID: "q1.txt", Selection: "1,3", Correct: true, TimeMs: 1200}))
	mustAppend(repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", SetDir: "/a", QuestionID: "q2.txt", Selection: "2", Correct: false}))
	mustAppend(repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", SetDir: "/a", Action: ActionEnd, QuestionsServed: 2, CorrectAnswers: 1, DurationSecs: 30}))
	mustAppend(repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", SetDir: "/b", Action: ActionEnd, QuestionsServed: 1}))

	sums, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sums))
	}
	if sums[0].SessionID != "s2" {
		t.Errorf("newest summary = %q, want s2", sums[0].SessionID)
	}
	if sums[1].CorrectAnswers != 1 || sums[1].DurationSecs != 30 {
		t.Errorf("s1 summary = %+v", sums[1])
	}
	if !sums[1].Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want %v", sums[1].Timestamp, fixed)
	}

	filtered, err := repo.QuerySessionSummaries(ctx, QueryOpts{SetDir: "/a", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].SessionID != "s1" {
		t.Errorf("filtered summaries = %+v", filtered)
	}

	answers, err := repo.QueryAnswers(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 2 {
		t.Fatalf("got %d answers, want 2", len(answers))
	}
	if answers[0].QuestionID != "q1.txt" || !answers[0].Correct || answers[0].Selection != "1,3" {
		t.Errorf("first answer = %+v", answers[0])
	}
	if answers[1].Correct {
		t.Error("second answer should be incorrect")
	}
	if answers[0].Sequence >= answers[1].Sequence {
		t.Error("answers out of sequence order")
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Provider: "anthropic", Model: "m1", Purpose: "explain", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "anthropic", Model: "m1", Purpose: "explain", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "m2", Purpose: "explain", Success: false, ErrorMessage: "rate limited"},
	} {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Model != "m2" || events[0].Success {
		t.Errorf("newest event = %+v", events[0])
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.ErrorMessage != "rate limited" {
		t.Errorf("GetLLMEvent = %+v", e)
	}
	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(999) = %v, %v; want nil, nil", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 1 || byPurpose[0].Calls != 3 || byPurpose[0].InputTokens != 40 {
		t.Errorf("usage by purpose = %+v", byPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 2 || byModel[0].Model != "m1" || byModel[0].AvgLatencyMs != 200 {
		t.Errorf("usage by model = %+v", byModel)
	}
}
