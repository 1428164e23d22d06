package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leofalp/recordx/core/client"
	"github.com/leofalp/recordx/core/client/middleware"
	"github.com/leofalp/recordx/internal/config"
	"github.com/leofalp/recordx/providers/ai"
	"github.com/leofalp/recordx/providers/ai/ollama"
	"github.com/leofalp/recordx/providers/ai/openai"
	slogobserver "github.com/leofalp/recordx/providers/observability/slog"
)

// app holds what the commands need from the outside world.
type app struct {
	// newProvider builds the transport named by the settings.
	newProvider func(settings config.Settings) (ai.Provider, error)
	// newLogger builds the diagnostics logger writing to w.
	newLogger func(w io.Writer) *slog.Logger
}

func defaultApp() *app {
	return &app{
		newProvider: providerFromSettings,
		newLogger:   slogobserver.NewLoggerFromEnv,
	}
}

func newRootCmd(a *app) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "recordx",
		Short: "Recover analysis/plan/output records from language model replies",
		Long: `recordx prompts a language model for a JSON record with the keys analysis,
plan and output, and recovers the record from fenced, decorated, slightly
malformed or sectioned replies. A reply that cannot be parsed is retried
once with a stricter instruction.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")

	root.AddCommand(newRunCmd(a, &envFiles))
	root.AddCommand(newParseCmd(a))

	return root
}

// providerFromSettings returns the Ollama or OpenAI-compatible transport.
func providerFromSettings(settings config.Settings) (ai.Provider, error) {
	switch settings.Provider {
	case config.ProviderOllama:
		return ollama.NewOllamaProvider().WithBaseURL(settings.OllamaHost), nil
	case config.ProviderOpenAI:
		provider := openai.NewOpenAIProvider().WithAPIKey(settings.OpenAIAPIKey)
		if settings.OpenAIBaseURL != "" {
			provider = provider.WithBaseURL(settings.OpenAIBaseURL)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", settings.Provider)
	}
}

// completeFunc wires a provider into the generator boundary with the
// transport middleware the settings ask for. The attempt timeout sits inside
// the retry middleware so every transport attempt gets its own deadline.
func completeFunc(provider ai.Provider, settings config.Settings, logger *slog.Logger) (client.CompleteFunc, []client.Middleware) {
	middlewares := []client.Middleware{}
	if settings.TransportRetries > 0 {
		middlewares = append(middlewares, middleware.NewRetryMiddleware(middleware.RetryConfig{
			MaxRetries: settings.TransportRetries,
		}))
	}
	if settings.AttemptTimeout > 0 {
		middlewares = append(middlewares, middleware.NewTimeoutMiddleware(settings.AttemptTimeout))
	}
	middlewares = append(middlewares, middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard))

	return client.FromProvider(provider), middlewares
}
