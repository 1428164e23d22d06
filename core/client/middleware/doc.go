// Package middleware provides transport policies for the recordx generator
// boundary. Each constructor returns a [client.Middleware] ready to be passed
// to [client.WithMiddleware].
//
// # Available Middleware
//
//   - [NewRetryMiddleware]: Retries failed generator calls with exponential
//     backoff and jitter. Useful for transient HTTP 429 / 5xx errors.
//
//   - [NewTimeoutMiddleware]: Adds a deadline to every generator call via
//     context.WithTimeout.
//
//   - [NewLoggingMiddleware]: Emits structured slog entries before and after
//     every generator call, with three verbosity levels (Minimal, Standard,
//     Verbose).
//
// These are independent of the orchestrator's own re-prompt: a transport
// retry repeats the same prompt after a failed call, while the orchestrator
// re-prompts once after a successful call whose text could not be parsed.
//
// # Usage
//
//	c, err := client.New(client.FromProvider(provider),
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 3}),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first. In the example above a call travels
//
//	Timeout → Retry → Logging → Provider
//
// and the reply travels back in reverse.
package middleware
