// Package ollama implements [ai.Provider] and [ai.StreamProvider] against
// Ollama's native /api/chat endpoint.
//
// Synchronous calls send stream=false and read a single JSON reply. Streaming
// calls read newline-delimited JSON chunks and yield one content delta per
// chunk until a chunk reports done. Ollama signals failures either with a
// non-2xx status or with an {"error": "..."} payload on a 200 response; both
// surface as errors, the latter wrapping [ai.ErrProviderReported].
//
// The server address comes from OLLAMA_HOST (default http://127.0.0.1:11434).
package ollama
