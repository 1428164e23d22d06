package ollama

import (
	"github.com/leofalp/recordx/providers/ai"
)

/*
	/api/chat - INPUT
*/

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptions maps onto Ollama's model options. Temperature is a pointer so
// that 0 is sent rather than falling back to the model default.
type chatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

/*
	/api/chat - OUTPUT

	The same shape is used for the single synchronous reply and for every
	streamed chunk. Only the last streamed chunk has done=true and carries
	the counters.
*/

type chatResponse struct {
	Model           string      `json:"model"`
	CreatedAt       string      `json:"created_at"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
	Error           string      `json:"error,omitempty"`
}

/*
	CONVERSION FUNCTIONS
*/

func requestFromGeneric(request ai.ChatRequest, stream bool) chatRequest {
	chat := chatRequest{
		Model:  request.Model,
		Stream: stream,
	}

	if request.SystemPrompt != "" {
		chat.Messages = append(chat.Messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, message := range request.Messages {
		chat.Messages = append(chat.Messages, chatMessage{Role: string(message.Role), Content: message.Content})
	}

	if config := request.GenerationConfig; config != nil {
		chat.Options = &chatOptions{
			Temperature: config.Temperature,
			TopP:        config.TopP,
			NumPredict:  config.MaxTokens,
		}
	}

	return chat
}

func (r chatResponse) usage() *ai.Usage {
	if r.PromptEvalCount == 0 && r.EvalCount == 0 {
		return nil
	}
	return &ai.Usage{
		PromptTokens:     r.PromptEvalCount,
		CompletionTokens: r.EvalCount,
		TotalTokens:      r.PromptEvalCount + r.EvalCount,
	}
}

func responseToGeneric(r chatResponse) *ai.ChatResponse {
	return &ai.ChatResponse{
		Model:        r.Model,
		Content:      r.Message.Content,
		FinishReason: r.DoneReason,
		Usage:        r.usage(),
	}
}
