package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // All messages except the system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional sampling configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

// GenerationConfig holds sampling parameters. Temperature is a pointer so that
// an explicit 0 (fully deterministic) is sent instead of being dropped.
type GenerationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"` // Sampling temperature [0..2]. Lower => more deterministic.
	TopP        *float64 `json:"top_p,omitempty"`       // Nucleus sampling [0..1]
	MaxTokens   int      `json:"max_tokens,omitempty"`  // Optional cap on generated tokens
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id,omitempty"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model reply
)

// NewChatRequest builds the two-message request used by the extraction
// client: an optional system prompt and one user turn.
func NewChatRequest(model, systemPrompt, userPrompt string, config *GenerationConfig) ChatRequest {
	return ChatRequest{
		Model:            model,
		SystemPrompt:     systemPrompt,
		Messages:         []Message{{Role: RoleUser, Content: userPrompt}},
		GenerationConfig: config,
	}
}

// Temperature returns the requested temperature, or nil when none was set.
func (r ChatRequest) Temperature() *float64 {
	if r.GenerationConfig == nil {
		return nil
	}
	return r.GenerationConfig.Temperature
}
