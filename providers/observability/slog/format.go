package slog

import (
	"os"
	"strings"
)

// Format selects how Handler renders records.
type Format string

const (
	// FormatCompact is one line per record with the attributes as a JSON
	// object: 2026-01-02 15:04:05  INFO message {"key":"value"}
	FormatCompact Format = "compact"

	// FormatJSON is one JSON object per record, for log collectors.
	FormatJSON Format = "json"
)

// ParseFormat maps "compact" or "json" (case-insensitive) to a Format.
// Anything else yields FormatCompact.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatCompact
}

// GetFormatFromEnv reads RECORDX_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv("RECORDX_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return ParseFormat(os.Getenv("LOG_FORMAT"))
}
