package service

import (
	"context"
	"errors"
	"time"

	"shipment-tracker/internal/features/tracking/domain"

	"github.com/benbjohnson/clock"
)

// RetryPolicy retries transient courier failures with exponential backoff.
// Only transport errors and 5xx responses qualify; auth failures, 4xx and
// malformed payloads fail fast because retrying cannot fix them.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	clock clock.Clock
	// onRetry is invoked once per retry attempt, before the backoff wait.
	onRetry func()
}

// NewRetryPolicy creates the default policy: three attempts with backoff
// delays of 1s and 2s between them.
func NewRetryPolicy(clk clock.Clock, onRetry func()) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		clock:       clk,
		onRetry:     onRetry,
	}
}

// Do runs fn until it succeeds, exhausts the attempt budget, returns a
// non-retryable error, or the context is cancelled. The last error is
// returned as-is so callers can classify it.
func (p *RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := p.BaseDelay

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			if p.onRetry != nil {
				p.onRetry()
			}

			timer := p.clock.Timer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}

	return err
}

// retryable reports whether the error is worth another attempt.
func retryable(err error) bool {
	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var apiErr *domain.CourierAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}

	return false
}
