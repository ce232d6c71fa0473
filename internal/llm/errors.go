package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider adapters translate SDK failures into one of the error types below
// so the retry decorator and the explain service can tell them apart without
// knowing which backend produced them.

// ErrRateLimit is a 429 from the provider. RetryAfter is zero when the
// provider sent no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the reply was not JSON or failed the request
// schema. Content holds the raw reply.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return "unusable model reply: " + e.Err.Error()
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, network errors and any other
// failure the adapter could not classify.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "model provider unavailable"
	}
	return "model provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the reply stopped at the token limit. Content
// holds the truncated text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model reply truncated at the token limit"
}

// failureClass groups errors by how the retry decorator treats them.
type failureClass int

const (
	// failTransient is retried until attempts run out.
	failTransient failureClass = iota
	// failMalformed is retried once; a second bad reply is final.
	failMalformed
	// failFinal is returned immediately.
	failFinal
)

func classify(err error) failureClass {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return failFinal
	case errors.As(err, &maxTok):
		return failFinal
	case errors.As(err, &invalid):
		return failMalformed
	default:
		return failTransient
	}
}
