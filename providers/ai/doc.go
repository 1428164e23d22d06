// Package ai defines the provider-agnostic chat types used by the generator
// boundary. Each provider package (ollama, openai) maps these types to its
// own wire format, so the orchestrator never sees provider-specific details.
//
// [Provider] covers synchronous chat completions and [StreamProvider] adds
// streamed replies. Requests flow through [ChatRequest], replies come back as
// [ChatResponse], and a [ChatStream] carries incremental deltas that
// [ChatStream.Collect] reassembles into one response.
package ai
