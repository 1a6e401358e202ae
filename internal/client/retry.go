package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"scribe/internal/logging"
)

// RetryConfig holds retry configuration used across all adapters.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	RetryDelay time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum backoff delay (cap)
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

func (rc RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if rc.MaxRetries < 0 {
		rc.MaxRetries = 0
	}
	if rc.RetryDelay <= 0 {
		rc.RetryDelay = def.RetryDelay
	}
	if rc.MaxDelay <= 0 {
		rc.MaxDelay = def.MaxDelay
	}
	return rc
}

// CalculateBackoff calculates exponential backoff with jitter.
func CalculateBackoff(baseDelay time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	// baseDelay * 2^attempt
	delay := baseDelay * time.Duration(1<<uint(attempt))
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	// Jitter: up to 25% of delay
	if quarter := int64(delay / 4); quarter > 0 {
		delay += time.Duration(rand.Int63n(quarter))
	}
	return delay
}

// withRetry runs call until it succeeds, fails with a non-retryable error,
// or the attempts are used up.
func withRetry[T any](ctx context.Context, rc RetryConfig, adapter string, call func() (T, error)) (T, error) {
	rc = rc.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := CalculateBackoff(rc.RetryDelay, attempt-1, rc.MaxDelay)
			logging.Info("retrying request", "adapter", adapter, "attempt", attempt, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := call()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			return zero, err
		}
		logging.Warn("request failed, will retry", "adapter", adapter, "attempt", attempt, "error", err)
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", rc.MaxRetries, lastErr)
}
