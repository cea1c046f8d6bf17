package errtax

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sexpruntime/core/internal/logging"
)

// RetryConfig configures exponential-backoff retry. Used only by
// reference capability adapters (internal/llmref), never by the Task
// Executor.
type RetryConfig struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
}

// DefaultRetryConfig returns conservative defaults suitable for an
// outbound capability call.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.25,
	}
}

// RetryableFunc is retried by Retry while it returns a transient error.
type RetryableFunc func(ctx context.Context) error

// Retry runs fn, retrying on transient errors with exponential backoff
// and jitter, up to config.MaxAttempts additional attempts.
func Retry(ctx context.Context, config RetryConfig, logger logging.Logger, fn RetryableFunc) error {
	logger = logging.OrNop(logger)
	var lastErr error

	for attempt := 0; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("retry succeeded after %d attempts", attempt+1)
			}
			return nil
		}
		lastErr = err

		if !IsTransient(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			logger.Warn("max retries (%d) exhausted", config.MaxAttempts+1)
			break
		}

		delay := backoff(attempt, config)
		logger.Debug("retrying in %v (attempt %d/%d)", delay, attempt+2, config.MaxAttempts+1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func backoff(attempt int, config RetryConfig) time.Duration {
	base := float64(config.BaseDelay) * math.Pow(2, float64(attempt))
	if max := float64(config.MaxDelay); base > max {
		base = max
	}
	jitter := base * config.JitterFactor * (rand.Float64()*2 - 1)
	d := time.Duration(base + jitter)
	if d < 0 {
		d = 0
	}
	return d
}
