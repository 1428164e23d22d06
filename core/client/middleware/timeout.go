package middleware

import (
	"context"
	"time"

	"github.com/leofalp/recordx/core/client"
)

// NewTimeoutMiddleware creates a Middleware that enforces a deadline on each
// generator call. The context is canceled once the call returns or the
// deadline expires. A caller context with a shorter deadline still wins.
//
// Placed outside [NewRetryMiddleware] the deadline covers every transport
// retry together; placed inside it, each retry gets its own deadline.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.CompleteFunc) client.CompleteFunc {
		return func(ctx context.Context, systemPrompt, userPrompt string, sampling client.Sampling) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, systemPrompt, userPrompt, sampling)
		}
	}
}
