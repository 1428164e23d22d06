package openai

import (
	"github.com/leofalp/recordx/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /chat/completions request format
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"` // "chat.completion"
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "content_filter"
}

type chatResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// apiError is the error object some compatible servers return with a 200.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

/*
	CONVERSION FUNCTIONS
*/

// requestToChatCompletion converts ai.ChatRequest to chat completions format
func requestToChatCompletion(request ai.ChatRequest) chatCompletionRequest {
	req := chatCompletionRequest{
		Model: request.Model,
	}

	if request.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}

	for _, message := range request.Messages {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	if config := request.GenerationConfig; config != nil {
		req.Temperature = config.Temperature
		req.TopP = config.TopP
		if config.MaxTokens > 0 {
			maxTokens := config.MaxTokens
			req.MaxTokens = &maxTokens
		}
	}

	return req
}

// chatCompletionToGeneric converts the first choice of a response.
func chatCompletionToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	response := &ai.ChatResponse{
		Id:    resp.ID,
		Model: resp.Model,
	}

	if len(resp.Choices) > 0 {
		response.Content = resp.Choices[0].Message.Content
		response.FinishReason = resp.Choices[0].FinishReason
	}

	if resp.Usage != nil {
		response.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return response
}
