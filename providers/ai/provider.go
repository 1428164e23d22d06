package ai

import (
	"context"
)

// StreamProvider is an optional interface for providers that can stream
// replies. Callers detect it via type assertion: provider.(StreamProvider).
// If the provider does not implement it, callers use SendMessage.
type StreamProvider interface {
	Provider
	// StreamMessage sends a chat request and returns a ChatStream that yields
	// deltas as they arrive. Pre-stream errors (bad request, network) are
	// returned directly; mid-stream errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}

// Provider is the interface every chat backend satisfies.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// It fails when the call fails, the context is cancelled, the backend
	// reports an error in its payload or the reply cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// Name identifies the provider in logs and spans ("ollama", "openai").
	Name() string
}
