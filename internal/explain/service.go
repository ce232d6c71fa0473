// Package explain asks an LLM why the correct options of a question are
// correct. Explanations are optional: a nil *Service explains nothing.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/quizrunner/internal/llm"
	"github.com/abhisek/quizrunner/internal/question"
)

// ErrDisabled is returned by a nil Service.
var ErrDisabled = errors.New("explanations are disabled")

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.3,
	}
}

// Explanation is the generated text for one question.
type Explanation struct {
	QuestionID string
	Text       string
	KeyPoint   string
}

// Service generates explanations and caches them per question for the
// lifetime of the process.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[string]*Explanation
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, cache: make(map[string]*Explanation)}
}

// Enabled reports whether s can produce explanations.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	KeyPoint    string `json:"key_point"`
}

// Explain returns the explanation for q given the learner's selection.
// Cached explanations ignore selection.
func (s *Service) Explain(ctx context.Context, q question.Question, selection []int) (*Explanation, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	s.mu.Lock()
	cached, ok := s.cache[q.ID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(q, selection)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explain %s: %w", q.ID, err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}

	e := &Explanation{QuestionID: q.ID, Text: out.Explanation, KeyPoint: out.KeyPoint}
	s.mu.Lock()
	s.cache[q.ID] = e
	s.mu.Unlock()
	return e, nil
}
