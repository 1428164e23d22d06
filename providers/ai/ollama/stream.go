package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/leofalp/recordx/internal/utils"
	"github.com/leofalp/recordx/providers/ai"
	"github.com/leofalp/recordx/providers/observability"
)

// errNoChunks is returned when a stream ends without any content.
var errNoChunks = errors.New("streaming produced no content")

// StreamMessage implements ai.StreamProvider. The returned ChatStream yields
// one content event per NDJSON chunk, a usage event and a done event from the
// final chunk. A chunk carrying an error, a chunk that does not decode, or a
// stream that ends without content terminates iteration with an error.
func (p *OllamaProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	p.annotate(ctx, request, true)

	httpResponse, err := utils.DoPostStream(ctx, p.client, p.baseURL+chatEndpoint, "", requestFromGeneric(request, true))
	if err != nil {
		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Debug(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	scanner := utils.NewNDJSONScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		produced := false
		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			line, scanErr := scanner.Next()
			if errors.Is(scanErr, io.EOF) {
				if !produced {
					yield(ai.StreamEvent{}, fmt.Errorf("%w: %w", ai.ErrEmptyContent, errNoChunks))
				}
				return
			}
			if scanErr != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("NDJSON read error: %w", scanErr))
				return
			}

			var chunk chatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("failed to parse streaming chunk: %w", err))
				return
			}

			if chunk.Error != "" {
				yield(ai.StreamEvent{}, fmt.Errorf("%w: ollama: %s", ai.ErrProviderReported, chunk.Error))
				return
			}

			for _, event := range chunkToStreamEvents(chunk) {
				if event.Type == ai.StreamEventContent {
					produced = true
				}
				if !yield(event, nil) {
					return
				}
			}

			if chunk.Done {
				if !produced {
					yield(ai.StreamEvent{}, fmt.Errorf("%w: %w", ai.ErrEmptyContent, errNoChunks))
				}
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToStreamEvents converts one NDJSON chunk into stream events.
func chunkToStreamEvents(chunk chatResponse) []ai.StreamEvent {
	var events []ai.StreamEvent

	if chunk.Message.Content != "" {
		events = append(events, ai.StreamEvent{
			Type:    ai.StreamEventContent,
			Content: chunk.Message.Content,
			Model:   chunk.Model,
		})
	}

	if !chunk.Done {
		return events
	}

	if usage := chunk.usage(); usage != nil {
		events = append(events, ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage})
	}
	events = append(events, ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: chunk.DoneReason})

	return events
}
