package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryPolicy bounds the retry decorator.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the second attempt, before jitter.
	BaseDelay time.Duration
	// MaxDelay caps a single delay.
	MaxDelay time.Duration
	// Retryable classifies errors; IsRetryable is used when nil.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns three attempts starting at a two second delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.Retryable == nil {
		p.Retryable = IsRetryable
	}
	return p
}

// delay returns base * 2^attempt * jitter, jitter in [0.5, 1.0), capped at MaxDelay.
func (p RetryPolicy) delay(attempt int, rng *rand.Rand) time.Duration {
	backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	jitter := 0.5 + rng.Float64()*0.5
	d := time.Duration(backoff * jitter)
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

var retryableMarkers = []string{
	"overloaded",
	"unavailable",
	"resource_exhausted",
	"rate limit",
	"ratelimit",
	"too many requests",
	"429",
	"503",
}

// IsRetryable reports whether err is an explicitly transient provider signal.
// When err aggregates several provider failures, it is retryable only if at
// least one of them is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrContentBlocked) {
		return false
	}
	if errors.Is(err, ErrTransientFailure) {
		return true
	}

	var all *AllProvidersFailedError
	if errors.As(err, &all) {
		for _, f := range all.Failures {
			if IsRetryable(f.Err) {
				return true
			}
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range retryableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Retry runs op until it succeeds, returns a non-retryable error, or the policy
// is exhausted. Delays grow exponentially with jitter and are abandoned when ctx
// is cancelled.
func Retry[T any](ctx context.Context, policy RetryPolicy, logger *slog.Logger, op func(context.Context) (T, error)) (T, error) {
	policy = policy.normalized()
	if logger == nil {
		logger = slog.Default()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var zero T
	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			if attempt > 0 {
				logger.InfoContext(ctx, "operation succeeded after retry", "attempt", attempt+1)
			}
			return result, nil
		}

		if !policy.Retryable(err) {
			return zero, err
		}
		if attempt+1 >= policy.MaxAttempts {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_attempts", policy.MaxAttempts,
				"error", err)
			return zero, err
		}

		delay := policy.delay(attempt, rng)
		logger.InfoContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"max_attempts", policy.MaxAttempts,
			"delay_ms", delay.Milliseconds())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.WarnContext(ctx, "retry cancelled during delay",
				"attempt", attempt+1,
				"ctx_err", ctx.Err())
			return zero, fmt.Errorf("%w: %w", err, ctx.Err())
		}
	}
}
