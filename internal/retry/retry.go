// Package retry computes backoff delays for the resume API and drives retries
// in the calling layer. The HTTP client never retries on its own.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/jonathan/resume-editor/internal/apierror"
)

// Policy governs backoff. Attempts are zero-indexed.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy is resolved once at process start.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	MaxDelay:    10 * time.Second,
}

// Delay returns min(base * 2^max(0, attempt), max). It saturates at max
// instead of overflowing.
func Delay(attempt int, p Policy) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if p.BaseDelay <= 0 {
		return min(0, p.MaxDelay)
	}

	d := p.BaseDelay
	if d >= p.MaxDelay {
		return p.MaxDelay
	}
	for i := 0; i < attempt; i++ {
		if d > p.MaxDelay/2 {
			return p.MaxDelay
		}
		d *= 2
	}
	return min(d, p.MaxDelay)
}

// IsRetryable reports whether a failure is transient. Only network and
// server kinds are; validation and unknown need the caller to change something.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch apierror.Classify(err).Kind {
	case apierror.KindNetwork, apierror.KindServer:
		return true
	default:
		return false
	}
}

// Do calls fn until it succeeds, fails with a non-retryable error, the
// context ends, or MaxAttempts calls have been made. The last failure is
// returned classified.
func Do(ctx context.Context, p Policy, logger *slog.Logger, fn func(ctx context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	maxAttempts := max(p.MaxAttempts, 1)

	attempt := 0
	backoff := goretry.BackoffFunc(func() (time.Duration, bool) {
		if attempt+1 >= maxAttempts {
			return 0, true
		}
		next := Delay(attempt, p)
		attempt++
		return next, false
	})

	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		// Caller cancellation is reported as a network failure but retrying
		// a dead context is pointless.
		if ctx.Err() != nil {
			return err
		}
		if attempt+1 < maxAttempts {
			logger.Warn("request failed, retrying",
				"attempt", attempt+1,
				"max_attempts", maxAttempts,
				"delay", Delay(attempt, p),
				"error", err)
		}
		return goretry.RetryableError(err)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apierror.Cancelled(err)
	}
	return apierror.Classify(err)
}
