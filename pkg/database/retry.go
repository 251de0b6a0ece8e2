package database

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// retryAttempts is the fixed cap on store retries.
const retryAttempts = 3

// RetryBackoff returns the delay before retry attempt i (1-based).
// Backoff grows quadratically: 400ms, 1.6s, 3.6s.
func RetryBackoff(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * 400 * time.Millisecond
}

// Retry runs fn up to three times with increasing backoff. It is meant for
// transient store failures; the wrapped call must be idempotent or a single
// transaction, so a repeat cannot double-apply.
func Retry(ctx context.Context, log *zap.Logger, label string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		log.Warn("store call failed",
			zap.String("label", label),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", retryAttempts),
			zap.Error(lastErr))
		if attempt == retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryBackoff(attempt)):
		}
	}
	return lastErr
}
