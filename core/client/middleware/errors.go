package middleware

import "errors"

// ErrTransportRetriesExhausted is returned by the retry middleware when all
// retry attempts have been consumed without a successful generator call. The
// error also wraps the last underlying failure so callers can use
// [errors.Is] / [errors.As] to inspect the root cause.
//
// Example:
//
//	if errors.Is(err, middleware.ErrTransportRetriesExhausted) {
//	    // the server kept failing
//	}
var ErrTransportRetriesExhausted = errors.New("recordx: all transport retry attempts exhausted")
