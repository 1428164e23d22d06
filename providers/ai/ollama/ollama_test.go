package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/recordx/internal/utils"
	"github.com/leofalp/recordx/providers/ai"
)

func zeroTemperatureRequest() ai.ChatRequest {
	temperature := 0.0
	return ai.NewChatRequest("phi3:mini", "Return JSON only.", "Write the README.", &ai.GenerationConfig{Temperature: &temperature})
}

func TestNewOllamaProviderReadsHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "localhost:9999")

	if got := NewOllamaProvider().BaseURL(); got != "http://localhost:9999" {
		t.Errorf("expected http://localhost:9999, got %s", got)
	}

	t.Setenv("OLLAMA_HOST", "")
	if got := NewOllamaProvider().BaseURL(); got != DefaultBaseURL {
		t.Errorf("expected %s, got %s", DefaultBaseURL, got)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "http://127.0.0.1:11434/", want: "http://127.0.0.1:11434"},
		{input: "  https://ollama.internal  ", want: "https://ollama.internal"},
		{input: "0.0.0.0:11434", want: "http://0.0.0.0:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeBaseURL(tt.input); got != tt.want {
				t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSendMessageWithValidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected path /api/chat, got %s", r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		if body["stream"] != false {
			t.Errorf("expected stream=false, got %v", body["stream"])
		}

		options, _ := body["options"].(map[string]any)
		if temperature, ok := options["temperature"]; !ok || temperature != 0.0 {
			t.Errorf("expected explicit temperature 0, got options %v", options)
		}

		messages, _ := body["messages"].([]any)
		if len(messages) != 2 {
			t.Fatalf("expected system and user messages, got %v", messages)
		}
		if first, _ := messages[0].(map[string]any); first["role"] != "system" {
			t.Errorf("expected first message to be the system prompt, got %v", first)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"phi3:mini","message":{"role":"assistant","content":"{\"output\":\"x\"}"},"done":true,"done_reason":"stop","prompt_eval_count":12,"eval_count":7}`)
	}))
	defer server.Close()

	provider := NewOllamaProvider().WithBaseURL(server.URL)
	response, err := provider.SendMessage(context.Background(), zeroTemperatureRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if response.Content != `{"output":"x"}` {
		t.Errorf("unexpected content: %q", response.Content)
	}
	if response.FinishReason != "stop" {
		t.Errorf("expected finish reason stop, got %q", response.FinishReason)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 19 {
		t.Errorf("expected 19 total tokens, got %+v", response.Usage)
	}
}

func TestSendMessageFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
	}{
		{
			name:    "error payload on 200",
			status:  http.StatusOK,
			body:    `{"error":"model 'phi3:mini' not found, try pulling it first"}`,
			wantErr: ai.ErrProviderReported,
		},
		{
			name:    "empty assistant content",
			status:  http.StatusOK,
			body:    `{"model":"phi3:mini","message":{"role":"assistant","content":""},"done":true}`,
			wantErr: ai.ErrEmptyContent,
		},
		{
			name:       "non-2xx status",
			status:     http.StatusServiceUnavailable,
			body:       `{"error":"server busy"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewOllamaProvider().WithBaseURL(server.URL).SendMessage(context.Background(), zeroTemperatureRequest())
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}

			if tt.wantStatus != 0 {
				var statusErr *utils.StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.wantStatus {
					t.Errorf("expected status error %d, got %v", tt.wantStatus, err)
				}
			}
		})
	}
}
