package ai

import "errors"

var (
	// ErrEmptyContent is returned when a provider answers without any
	// assistant text.
	ErrEmptyContent = errors.New("ai: empty assistant content")

	// ErrProviderReported is returned when the backend embeds an error in an
	// otherwise successful payload (Ollama's {"error": "..."}).
	ErrProviderReported = errors.New("ai: provider reported an error")

	// ErrMissingAPIKey is returned by providers that require an API key when
	// none was configured.
	ErrMissingAPIKey = errors.New("ai: API key is not set")
)
