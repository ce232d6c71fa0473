package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. See classify for what counts as transient.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p with the retry policy in cfg. At least one attempt is
// always made.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	malformed := 0
	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case failFinal:
			return nil, err
		case failMalformed:
			malformed++
			if malformed > 1 {
				return nil, err
			}
		}
		if attempt+1 >= r.config.MaxAttempts {
			return nil, err
		}

		timer := time.NewTimer(r.backoff(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff is the wait after the given zero-based attempt. A Retry-After hint
// from a rate limit wins; otherwise InitialWait grows by Multiplier per
// attempt, capped at MaxWait, with up to 20% jitter either way.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	base = math.Min(base, float64(r.config.MaxWait))
	jitter := base * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(base+jitter, 0))
}

// TimeoutProvider bounds each Generate call, retries and backoff included.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so a call gives up after d. A non-positive d returns p
// unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
