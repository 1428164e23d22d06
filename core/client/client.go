package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leofalp/recordx/core/parse"
	"github.com/leofalp/recordx/internal/utils"
	"github.com/leofalp/recordx/providers/observability"
)

// maxAttempts is the number of generator calls one Extract may make.
const maxAttempts = 2

// Client runs the extraction retry policy. It is immutable after New and
// safe for concurrent use; every Extract call keeps its own state.
type Client struct {
	complete  CompleteFunc
	config    Config
	extractor *parse.Extractor
	observer  observability.Provider
}

// ClientOptions collects the settings applied by the functional options.
type ClientOptions struct {
	Config      Config
	Observer    observability.Provider
	Extractor   *parse.Extractor
	Middlewares []Middleware
}

// WithConfig replaces [DefaultConfig].
func WithConfig(config Config) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Config = config
	}
}

// WithObserver enables spans, metrics and logs for every Extract call.
func WithObserver(observer observability.Provider) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Observer = observer
	}
}

// WithExtractor replaces the default extractor, e.g. to opt into a deeper
// repairer.
func WithExtractor(extractor *parse.Extractor) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Extractor = extractor
	}
}

// WithMiddleware appends generator middlewares. The first one given is the
// outermost wrapper.
func WithMiddleware(middlewares ...Middleware) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// New builds a Client around complete. It fails when complete is nil or the
// configuration is invalid.
func New(complete CompleteFunc, opts ...func(*ClientOptions)) (*Client, error) {
	if complete == nil {
		return nil, errors.New("recordx: generator is nil")
	}

	options := ClientOptions{Config: DefaultConfig()}
	for _, opt := range opts {
		opt(&options)
	}

	if err := options.Config.Validate(); err != nil {
		return nil, err
	}

	extractor := options.Extractor
	if extractor == nil {
		extractor = parse.NewExtractor(parse.WithObserver(options.Observer))
	}

	return &Client{
		complete:  buildChain(complete, options.Middlewares),
		config:    options.Config,
		extractor: extractor,
		observer:  options.Observer,
	}, nil
}

// ExtractWithRetry builds a one-off Client and runs Extract.
func ExtractWithRetry(ctx context.Context, systemPrompt, userPrompt string, complete CompleteFunc, opts ...func(*ClientOptions)) (parse.Record, error) {
	c, err := New(complete, opts...)
	if err != nil {
		return parse.Record{}, err
	}
	return c.Extract(ctx, systemPrompt, userPrompt)
}

// Config returns the policy the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Extract asks the generator for a record. The first attempt uses userPrompt
// and TemperatureInitial; if the reply yields no record, a second attempt
// appends RetryInstruction to userPrompt and uses TemperatureRetry. The
// system prompt is the same for both.
//
// Errors match ErrTransport when the generator failed (returned at once,
// never retried) or ErrRetryExhausted, as an *ExhaustedError, when both
// replies were unusable.
func (c *Client) Extract(ctx context.Context, systemPrompt, userPrompt string) (record parse.Record, err error) {
	var span observability.Span
	if c.observer != nil {
		ctx = observability.ContextWithObserver(ctx, c.observer)
		ctx, span = c.observer.StartSpan(ctx, observability.SpanExtract,
			observability.String(observability.AttrLLMModel, c.config.Model),
		)
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, err.Error())
			} else {
				span.SetStatus(observability.StatusOK, "record extracted")
			}
			span.End()
		}()
	}

	prompts := [maxAttempts]string{userPrompt, c.config.retryPrompt(userPrompt)}
	temperatures := [maxAttempts]float64{c.config.TemperatureInitial, c.config.TemperatureRetry}

	var lastRaw string
	var lastErr error

	for attempt := range maxAttempts {
		if attempt > 0 {
			c.noteRetry(ctx, attempt+1, lastErr)
		}

		sampling := Sampling{Model: c.config.Model, Temperature: temperatures[attempt]}
		raw, genErr := c.generate(ctx, systemPrompt, prompts[attempt], sampling)
		if genErr != nil {
			return parse.Record{}, fmt.Errorf("%w: attempt %d: %w", ErrTransport, attempt+1, genErr)
		}

		result, parseErr := c.extractor.ExtractContext(ctx, raw)
		if parseErr == nil {
			if span != nil {
				span.SetAttributes(
					observability.Int(observability.AttrExtractAttempt, attempt+1),
					observability.String(observability.AttrExtractStrategy, string(result.Strategy)),
				)
			}
			return result.Record, nil
		}

		lastRaw, lastErr = raw, parseErr
	}

	return parse.Record{}, &ExhaustedError{
		Attempts: maxAttempts,
		Preview:  utils.Preview(lastRaw, previewRunes),
		Err:      lastErr,
	}
}

// generate makes one generator call under its own timeout.
func (c *Client) generate(ctx context.Context, systemPrompt, userPrompt string, sampling Sampling) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.complete(ctx, systemPrompt, userPrompt, sampling)

	if c.observer != nil {
		c.observer.Histogram(observability.MetricGenerateDuration).Record(ctx,
			float64(time.Since(start).Milliseconds()),
			observability.String(observability.AttrLLMModel, sampling.Model),
			observability.Float64(observability.AttrLLMTemperature, sampling.Temperature),
		)
	}

	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", ErrEmptyReply
	}

	return raw, nil
}

func (c *Client) noteRetry(ctx context.Context, attempt int, cause error) {
	if c.observer == nil {
		return
	}

	c.observer.Counter(observability.MetricExtractRetry).Add(ctx, 1)
	c.observer.Warn(ctx, "reply not parseable, re-prompting with strict instruction",
		observability.Int(observability.AttrExtractAttempt, attempt),
		observability.Float64(observability.AttrLLMTemperature, c.config.TemperatureRetry),
		observability.Error(cause),
	)
}
