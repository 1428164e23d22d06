package client

import (
	"errors"
	"fmt"
)

// previewRunes bounds the raw-output preview carried by ExhaustedError.
const previewRunes = 1000

var (
	// ErrRetryExhausted is matched by the error returned when both attempts
	// produced text the extractor could not recover a record from.
	ErrRetryExhausted = errors.New("recordx: retry exhausted")

	// ErrTransport wraps any failure of the generator itself (network, HTTP
	// status, provider-reported error, timeout, empty reply). The
	// orchestrator never retries these.
	ErrTransport = errors.New("recordx: transport failure")

	// ErrEmptyReply is returned when the generator succeeds with no text.
	ErrEmptyReply = errors.New("recordx: generator returned an empty reply")

	// ErrInvalidConfig is returned by New for an unusable Config.
	ErrInvalidConfig = errors.New("recordx: invalid config")
)

// ExhaustedError is returned when every attempt failed to parse. It matches
// both ErrRetryExhausted and the extractor's last error (and through it
// parse.ErrNoRecognizedStructure) with errors.Is.
type ExhaustedError struct {
	// Attempts is the number of generator calls made.
	Attempts int
	// Preview holds at most the first 1000 characters of the last raw reply
	// with newlines escaped, for diagnostics.
	Preview string
	// Err is the extractor error for the last reply.
	Err error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v; last reply preview: %s",
		ErrRetryExhausted, e.Attempts, e.Err, e.Preview)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrRetryExhausted, e.Err}
}
