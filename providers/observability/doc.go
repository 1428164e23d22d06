// Package observability defines the logging, tracing and metrics contract
// used by the recordx extraction engine, its retry orchestrator and its
// transports.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency. A nil Provider is valid everywhere and means "record nothing".
// The active [Span] travels on a [context.Context] via [ContextWithSpan] so
// low-level HTTP helpers can attach events without taking an extra argument.
//
// semconv.go holds the attribute keys, span names and metric names shared by
// all components.
package observability
