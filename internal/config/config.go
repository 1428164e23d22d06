// Package config loads the command-line settings from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/leofalp/recordx/core/client"
	"github.com/leofalp/recordx/providers/ai/ollama"
)

// Provider names accepted in RECORDX_PROVIDER.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// ErrInvalidSetting is wrapped by every error Load returns for a bad value.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the resolved configuration of one CLI invocation.
type Settings struct {
	Provider         string
	Model            string
	OllamaHost       string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	Timeout          time.Duration
	AttemptTimeout   time.Duration
	Temperature      float64
	RetryTemperature float64
	TransportRetries int
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads envFiles (".env" when none are given) into the process
// environment, then resolves Settings from it. Variables already set in the
// environment win over file values and missing files are ignored.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup resolves Settings through lookup. Unset or blank variables take
// their defaults.
func FromLookup(lookup LookupFunc) (Settings, error) {
	get := func(keys ...string) string {
		for _, key := range keys {
			if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
		return ""
	}

	defaults := client.DefaultConfig()
	settings := Settings{
		Provider:         strings.ToLower(orDefault(get("RECORDX_PROVIDER"), ProviderOllama)),
		Model:            orDefault(get("RECORDX_MODEL", "OLLAMA_MODEL"), defaults.Model),
		OllamaHost:       orDefault(get("OLLAMA_HOST"), ollama.DefaultBaseURL),
		OpenAIAPIKey:     get("OPENAI_API_KEY"),
		OpenAIBaseURL:    get("OPENAI_API_BASE_URL"),
		Timeout:          defaults.Timeout,
		Temperature:      defaults.TemperatureInitial,
		RetryTemperature: defaults.TemperatureRetry,
	}

	var errs []error

	switch settings.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("%w: RECORDX_PROVIDER %q is not %q or %q", ErrInvalidSetting, settings.Provider, ProviderOllama, ProviderOpenAI))
	}

	if raw := get("RECORDX_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			errs = append(errs, fmt.Errorf("%w: RECORDX_TIMEOUT %q is not a non-negative duration", ErrInvalidSetting, raw))
		} else {
			settings.Timeout = timeout
		}
	}

	if raw := get("RECORDX_ATTEMPT_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			errs = append(errs, fmt.Errorf("%w: RECORDX_ATTEMPT_TIMEOUT %q is not a non-negative duration", ErrInvalidSetting, raw))
		} else {
			settings.AttemptTimeout = timeout
		}
	}

	if raw := get("RECORDX_TEMPERATURE"); raw != "" {
		value, err := parseTemperature("RECORDX_TEMPERATURE", raw)
		errs = append(errs, err)
		if err == nil {
			settings.Temperature = value
		}
	}

	if raw := get("RECORDX_RETRY_TEMPERATURE"); raw != "" {
		value, err := parseTemperature("RECORDX_RETRY_TEMPERATURE", raw)
		errs = append(errs, err)
		if err == nil {
			settings.RetryTemperature = value
		}
	}

	if raw := get("RECORDX_TRANSPORT_RETRIES"); raw != "" {
		retries, err := strconv.Atoi(raw)
		if err != nil || retries < 0 {
			errs = append(errs, fmt.Errorf("%w: RECORDX_TRANSPORT_RETRIES %q is not a non-negative integer", ErrInvalidSetting, raw))
		} else {
			settings.TransportRetries = retries
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// ClientConfig maps the settings onto the orchestrator policy. The retry
// instruction keeps its default.
func (s Settings) ClientConfig() client.Config {
	config := client.DefaultConfig()
	config.Model = s.Model
	config.TemperatureInitial = s.Temperature
	config.TemperatureRetry = s.RetryTemperature
	config.Timeout = s.Timeout
	return config
}

func parseTemperature(key, raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 2 {
		return 0, fmt.Errorf("%w: %s %q is not a number in [0, 2]", ErrInvalidSetting, key, raw)
	}
	return value, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
