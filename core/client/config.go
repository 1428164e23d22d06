package client

import (
	"fmt"
	"time"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "phi3:mini"

	// DefaultRetryInstruction is appended to the user prompt on the second
	// attempt.
	DefaultRetryInstruction = "Return ONLY strict JSON. No markdown or code fences. " +
		"Keys: analysis(array), plan(array), output(string)."
)

// Config holds the per-client generation policy.
type Config struct {
	// Model is passed to the generator on every call.
	Model string

	// TemperatureInitial is used for the first attempt.
	TemperatureInitial float64

	// TemperatureRetry is used for the second attempt. It should be lower
	// than TemperatureInitial; 0 asks for the most deterministic reply.
	TemperatureRetry float64

	// Timeout bounds each generator call separately. Zero or negative means
	// no per-call timeout beyond the caller's context.
	Timeout time.Duration

	// RetryInstruction is appended to the user prompt, after a blank line,
	// on the second attempt.
	RetryInstruction string
}

// DefaultConfig returns the stock policy: phi3:mini, temperature 0.2 then
// 0.0, a 120 second timeout per call and [DefaultRetryInstruction].
func DefaultConfig() Config {
	return Config{
		Model:              DefaultModel,
		TemperatureInitial: 0.2,
		TemperatureRetry:   0.0,
		Timeout:            120 * time.Second,
		RetryInstruction:   DefaultRetryInstruction,
	}
}

// Validate reports configuration values the orchestrator cannot work with.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is empty", ErrInvalidConfig)
	}
	if c.TemperatureInitial < 0 || c.TemperatureInitial > 2 {
		return fmt.Errorf("%w: initial temperature %v outside [0, 2]", ErrInvalidConfig, c.TemperatureInitial)
	}
	if c.TemperatureRetry < 0 || c.TemperatureRetry > 2 {
		return fmt.Errorf("%w: retry temperature %v outside [0, 2]", ErrInvalidConfig, c.TemperatureRetry)
	}
	return nil
}

// retryPrompt builds the second-attempt user prompt.
func (c Config) retryPrompt(userPrompt string) string {
	if c.RetryInstruction == "" {
		return userPrompt
	}
	if userPrompt == "" {
		return c.RetryInstruction
	}
	return userPrompt + "\n\n" + c.RetryInstruction
}
