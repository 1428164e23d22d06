package ollama

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/recordx/internal/utils"
	"github.com/leofalp/recordx/providers/ai"
	"github.com/leofalp/recordx/providers/observability"
)

const (
	// DefaultBaseURL is where a local Ollama install listens.
	DefaultBaseURL = "http://127.0.0.1:11434"

	providerName = "ollama"
	chatEndpoint = "/api/chat"
)

// OllamaProvider implements ai.Provider and ai.StreamProvider for Ollama.
type OllamaProvider struct {
	baseURL string
	client  *http.Client
}

// NewOllamaProvider creates a provider for the server named by OLLAMA_HOST,
// or [DefaultBaseURL] when it is unset. A host without a scheme is treated
// as http.
func NewOllamaProvider() *OllamaProvider {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &OllamaProvider{
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{},
	}
}

// WithBaseURL sets the server address.
func (p *OllamaProvider) WithBaseURL(baseURL string) *OllamaProvider {
	p.baseURL = normalizeBaseURL(baseURL)
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *OllamaProvider) WithHttpClient(httpClient *http.Client) *OllamaProvider {
	p.client = httpClient
	return p
}

// BaseURL returns the server address requests are sent to.
func (p *OllamaProvider) BaseURL() string {
	return p.baseURL
}

// Name implements ai.Provider.
func (p *OllamaProvider) Name() string {
	return providerName
}

// SendMessage implements ai.Provider with a single non-streamed request.
func (p *OllamaProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	p.annotate(ctx, request, false)

	httpResponse, resp, err := utils.DoPostSync[chatResponse](ctx, p.client, p.baseURL+chatEndpoint, "", requestFromGeneric(request, false))
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("empty response from Ollama API: %s", httpResponse.Status)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: ollama: %s", ai.ErrProviderReported, resp.Error)
	}

	if resp.Message.Content == "" {
		return nil, fmt.Errorf("%w: raw response: %s", ai.ErrEmptyContent, utils.TruncateString(utils.JSONToString(resp), 800))
	}

	return responseToGeneric(*resp), nil
}

// annotate enriches the span in ctx, if any, and logs the outgoing request.
func (p *OllamaProvider) annotate(ctx context.Context, request ai.ChatRequest, stream bool) {
	attributes := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, providerName),
		observability.String(observability.AttrLLMEndpoint, p.baseURL),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Bool(observability.AttrLLMStream, stream),
	}
	if temperature := request.Temperature(); temperature != nil {
		attributes = append(attributes, observability.Float64(observability.AttrLLMTemperature, *temperature))
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(attributes...)
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "Ollama provider preparing request", attributes...)
	}
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return baseURL
}
