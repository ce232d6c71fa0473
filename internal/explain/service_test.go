package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizrunner/internal/llm"
	"github.com/abhisek/quizrunner/internal/question"
)

func testQuestion() question.Question {
	return question.Question{
		ID:      "geo/capitals.txt",
		Mask:    []bool{false, true, false},
		Text:    "Capital of France?",
		Options: []string{"Berlin", "Paris", "Rome"},
	}
}

func TestExplain_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"Paris has been the capital since 987.","key_point":"Paris."}`),
	})
	svc := NewService(mock, DefaultConfig())

	e, err := svc.Explain(context.Background(), testQuestion(), []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text != "Paris has been the capital since 987." || e.KeyPoint != "Paris." {
		t.Errorf("explanation = %+v", e)
	}
	if e.QuestionID != "geo/capitals.txt" {
		t.Errorf("QuestionID = %q", e.QuestionID)
	}

	call := mock.Calls[0]
	if call.Schema != ExplanationSchema {
		t.Error("expected explanation schema on request")
	}
	msg := call.Messages[0].Content
	for _, want := range []string{"Capital of France?", "* 2. Paris", "  1. Berlin", "chose: 1 (incorrect)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestExplain_Cached(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"x","key_point":"y"}`),
	})
	svc := NewService(mock, DefaultConfig())

	for range 3 {
		if _, err := svc.Explain(context.Background(), testQuestion(), []int{1}); err != nil {
			t.Fatal(err)
		}
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Explain(context.Background(), testQuestion(), nil)
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped ErrRateLimit, got %v", err)
	}

	// Failures are not cached.
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"explanation":"x","key_point":"y"}`)})
	if _, err := svc.Explain(context.Background(), testQuestion(), nil); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestExplain_Disabled(t *testing.T) {
	var svc *Service
	if svc.Enabled() {
		t.Error("nil service should be disabled")
	}
	if _, err := svc.Explain(context.Background(), testQuestion(), nil); !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}
