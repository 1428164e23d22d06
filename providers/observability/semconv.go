package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across the extractor, the orchestrator and the transports.

// --- LLM Attributes ---

const (
	// AttrLLMProvider is the name of the transport (e.g. "ollama", "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMStream reports whether the reply was streamed
	AttrLLMStream = "llm.stream"

	// AttrLLMResponseLength is the length of the reply text in bytes
	AttrLLMResponseLength = "llm.response.length"
)

// --- Extraction Attributes ---

const (
	// AttrExtractStrategy is the pipeline stage that recovered the record
	AttrExtractStrategy = "extract.strategy"

	// AttrExtractAttempt is the 1-based generator attempt (1 or 2)
	AttrExtractAttempt = "extract.attempt"

	// AttrExtractInputLength is the raw text length in bytes
	AttrExtractInputLength = "extract.input.length"

	// AttrExtractAnalysisCount is the number of analysis items recovered
	AttrExtractAnalysisCount = "extract.analysis.count"

	// AttrExtractPlanCount is the number of plan items recovered
	AttrExtractPlanCount = "extract.plan.count"

	// AttrExtractPreview is a bounded preview of the raw text
	AttrExtractPreview = "extract.preview"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanExtract covers one Client.Extract call, both attempts included
	SpanExtract = "recordx.extract"

	// SpanGenerate covers one generator call
	SpanGenerate = "recordx.generate"
)

// --- Metric Names ---

const (
	// MetricExtractStrategy counts successful extractions per strategy
	MetricExtractStrategy = "recordx.extract.strategy"

	// MetricExtractFailure counts extraction attempts that recovered nothing
	MetricExtractFailure = "recordx.extract.failure"

	// MetricExtractRetry counts re-prompts issued by the orchestrator
	MetricExtractRetry = "recordx.extract.retry"

	// MetricGenerateDuration records generator call latency in milliseconds
	MetricGenerateDuration = "recordx.generate.duration"
)
