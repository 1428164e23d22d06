// Package openai implements [ai.Provider] for OpenAI-compatible
// /chat/completions endpoints. Besides api.openai.com this covers Ollama's
// /v1 compatibility layer and most self-hosted gateways.
//
// The API key and base URL default to OPENAI_API_KEY and OPENAI_API_BASE_URL.
package openai
