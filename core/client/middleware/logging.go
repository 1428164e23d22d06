package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/recordx/core/client"
	"github.com/leofalp/recordx/internal/utils"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs only the model name, duration and reply length.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the temperature and prompt lengths. This is the
	// recommended default.
	LogLevelStandard

	// LogLevelVerbose adds the user prompt and the reply text, each truncated
	// to 500 characters.
	//
	// WARNING: do not use LogLevelVerbose in production. Prompts and replies
	// may contain sensitive data.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware creates a Middleware that emits structured slog entries
// before and after every generator call. A nil logger means slog.Default().
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next client.CompleteFunc) client.CompleteFunc {
		return func(ctx context.Context, systemPrompt, userPrompt string, sampling client.Sampling) (string, error) {
			logger.InfoContext(ctx, "llm generate",
				buildRequestAttrs(systemPrompt, userPrompt, sampling, level)...,
			)

			start := time.Now()
			reply, err := next(ctx, systemPrompt, userPrompt, sampling)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm generate failed",
					slog.String("model", sampling.Model),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return "", err
			}

			logger.InfoContext(ctx, "llm generate completed",
				buildResponseAttrs(reply, sampling, elapsed, level)...,
			)

			return reply, nil
		}
	}
}

// buildRequestAttrs returns slog attributes for an outgoing call, expanding
// detail according to the requested verbosity level.
func buildRequestAttrs(systemPrompt, userPrompt string, sampling client.Sampling, level LogLevel) []any {
	attrs := []any{
		slog.String("model", sampling.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.Float64("temperature", sampling.Temperature),
			slog.Int("system_prompt_length", len(systemPrompt)),
			slog.Int("user_prompt_length", len(userPrompt)),
		)
	}

	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("user_prompt", utils.TruncateString(userPrompt, truncateLen)))
	}

	return attrs
}

// buildResponseAttrs returns slog attributes for a completed call.
func buildResponseAttrs(reply string, sampling client.Sampling, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", sampling.Model),
		slog.Duration("duration", elapsed),
		slog.Int("reply_length", len(reply)),
	}

	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("reply", utils.TruncateString(reply, truncateLen)))
	}

	return attrs
}
