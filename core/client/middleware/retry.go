package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/leofalp/recordx/core/client"
	"github.com/leofalp/recordx/internal/utils"
)

// RetryConfig holds the tuning parameters for the retry middleware. Zero values
// are replaced with the defaults documented below when NewRetryMiddleware is called.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first failure.
	// A value of 3 means the generator is called at most 4 times (1 original + 3 retries).
	// Default: 3.
	MaxRetries int

	// InitialBackoff is the wait duration before the first retry attempt.
	// Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff so it never exceeds this value.
	// Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier applied to InitialBackoff
	// on successive retries (backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff)).
	// Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds random noise to the computed backoff in the range
	// [0, JitterFraction * backoff] to avoid thundering-herd problems.
	// Default: 0.1 (10% jitter).
	JitterFraction float64

	// RetryableFunc returns true when an error should trigger a retry.
	// The default retries HTTP 429, 500, 502, 503 and 504.
	RetryableFunc func(error) bool
}

// retryableStatusCodes are the HTTP statuses the default policy retries.
var retryableStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// DefaultRetryableFunc returns true for transient HTTP errors. A
// *utils.StatusError is judged by its status code; other errors fall back to
// looking for a "status NNN" fragment in the message, which covers providers
// that flatten the status into text. Context errors are never retried.
func DefaultRetryableFunc(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		for _, code := range retryableStatusCodes {
			if statusErr.StatusCode == code {
				return true
			}
		}
		return false
	}

	msg := err.Error()
	for _, code := range retryableStatusCodes {
		if strings.Contains(msg, fmt.Sprintf("status %d", code)) {
			return true
		}
	}

	return false
}

// applyRetryDefaults fills in zero-valued fields in config with sensible defaults.
func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}

	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}

	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}

	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}

	if config.RetryableFunc == nil {
		config.RetryableFunc = DefaultRetryableFunc
	}
}

// computeBackoff returns the backoff duration for the given attempt (0-indexed).
// backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) + jitter
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}

	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter is intentional
	return time.Duration(base + jitter)
}

// NewRetryMiddleware constructs a Middleware that repeats failed generator
// calls with the same prompts according to config. Zero-valued fields in
// config are replaced with defaults (see RetryConfig).
//
// An attempt that fails with context.DeadlineExceeded while ctx itself is
// still live hit a deadline of its own (see [NewTimeoutMiddleware]) and is
// retried regardless of RetryableFunc.
//
// On exhaustion the returned error wraps both [ErrTransportRetriesExhausted]
// and the last generator error.
func NewRetryMiddleware(config RetryConfig) client.Middleware {
	applyRetryDefaults(&config)

	return func(next client.CompleteFunc) client.CompleteFunc {
		return func(ctx context.Context, systemPrompt, userPrompt string, sampling client.Sampling) (string, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					backoff := computeBackoff(config, attempt-1)
					select {
					case <-ctx.Done():
						return "", fmt.Errorf("%w (last error: %w)", ctx.Err(), lastErr)
					case <-time.After(backoff):
					}
				}

				reply, err := next(ctx, systemPrompt, userPrompt, sampling)
				if err == nil {
					return reply, nil
				}

				lastErr = err

				attemptTimedOut := errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
				if !attemptTimedOut && !config.RetryableFunc(err) {
					return "", err
				}
			}

			return "", fmt.Errorf("%w after %d retries: %w", ErrTransportRetriesExhausted, config.MaxRetries, lastErr)
		}
	}
}
