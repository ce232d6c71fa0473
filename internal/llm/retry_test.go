package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad again")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}})
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	p := WithRetry(mock, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRetry_BackoffRespectsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}
	wait := r.backoff(0, &ErrRateLimit{RetryAfter: 5 * time.Second})
	if wait != 5*time.Second {
		t.Fatalf("backoff = %v, want 5s", wait)
	}

	for attempt := 0; attempt < 10; attempt++ {
		if w := r.backoff(attempt, errors.New("x")); w > 12*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v exceeds MaxWait plus jitter", attempt, w)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want failureClass
	}{
		{"rate limit", &ErrRateLimit{Err: errors.New("429")}, failTransient},
		{"unavailable", &ErrProviderUnavailable{}, failTransient},
		{"plain error", errors.New("connection reset"), failTransient},
		{"invalid reply", &ErrInvalidResponse{Err: errors.New("bad")}, failMalformed},
		{"truncated", &ErrMaxTokensExceeded{}, failFinal},
		{"cancelled", context.Canceled, failFinal},
		{"wrapped deadline", fmt.Errorf("generate: %w", context.DeadlineExceeded), failFinal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// stalledProvider blocks until the caller's context ends.
type stalledProvider struct {
	calls atomic.Int32
}

func (s *stalledProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	s.calls.Add(1)
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *stalledProvider) ModelID() string { return "stalled" }

func TestTimeout_BoundsStalledProviderWithRetries(t *testing.T) {
	stalled := &stalledProvider{}
	p := WithTimeout(WithRetry(stalled, retryConfig()), 50*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Generate took %v, timeout not applied", elapsed)
	}
	if n := stalled.calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1 (a deadline is not retried)", n)
	}
}

func TestWithTimeout_ZeroLeavesProviderUnwrapped(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Errorf("WithTimeout(p, 0) = %T, want the provider itself", p)
	}
}

func TestNewProvider_AppliesTimeout(t *testing.T) {
	cfg := Config{Provider: ProviderMock, Model: "mock", Retry: retryConfig(), Timeout: time.Second}
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*TimeoutProvider); !ok {
		t.Errorf("NewProvider returned %T, want *TimeoutProvider outermost", p)
	}
}
