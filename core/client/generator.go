package client

import (
	"context"
	"fmt"

	"github.com/leofalp/recordx/providers/ai"
)

// Sampling carries the per-call generation parameters.
type Sampling struct {
	Model       string
	Temperature float64
}

// CompleteFunc is the generator boundary: it sends one system prompt and one
// user prompt and returns the model's full reply text. Streamed replies must
// already be reassembled. Any error is treated as a transport failure.
type CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string, sampling Sampling) (string, error)

// FromProvider adapts a provider into a CompleteFunc. Providers implementing
// ai.StreamProvider are streamed and collected; others are called through
// SendMessage. A reply without content is an error.
func FromProvider(provider ai.Provider) CompleteFunc {
	return func(ctx context.Context, systemPrompt, userPrompt string, sampling Sampling) (string, error) {
		temperature := sampling.Temperature
		request := ai.NewChatRequest(sampling.Model, systemPrompt, userPrompt, &ai.GenerationConfig{
			Temperature: &temperature,
		})

		var response *ai.ChatResponse
		var err error

		if streamProvider, ok := provider.(ai.StreamProvider); ok {
			var stream *ai.ChatStream
			stream, err = streamProvider.StreamMessage(ctx, request)
			if err == nil {
				response, err = stream.Collect()
			}
		} else {
			response, err = provider.SendMessage(ctx, request)
		}

		if err != nil {
			return "", fmt.Errorf("%s: %w", provider.Name(), err)
		}

		if response == nil || response.Content == "" {
			return "", fmt.Errorf("%s: %w", provider.Name(), ai.ErrEmptyContent)
		}

		return response.Content, nil
	}
}
