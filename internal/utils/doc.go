// Package utils provides shared low-level helpers used throughout recordx:
// JSON POST helpers for synchronous and streaming (NDJSON) calls to model
// servers, JSON rendering that leaves HTML characters alone, and bounded text
// previews for error messages.
package utils
