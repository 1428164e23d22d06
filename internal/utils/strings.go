package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// MarshalJSON encodes value like json.Marshal but without escaping <, > and
// &, which model output (Markdown, HTML snippets, shell commands) is full of.
// When indent is true the output uses two-space indentation.
func MarshalJSON(value any, indent bool) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// JSONToString serialises object to its JSON representation and returns it as a
// string. When the optional indent argument is true the output is
// pretty-printed with two-space indentation. On marshalling failure it returns
// a JSON-formatted error string rather than panicking, so the result is always
// safe to use in log output.
func JSONToString(object any, indent ...bool) string {
	encoded, err := MarshalJSON(object, len(indent) > 0 && indent[0])
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen runes, appending a suffix that
// records the original total length so callers know data was omitted.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", headRunes(s, maxLen), len(s))
}

// Preview returns the first maxRunes runes of s on a single line, with
// newlines written as a literal \n. It is meant for error messages that must
// show what a model actually returned without flooding the terminal.
func Preview(s string, maxRunes int) string {
	head := headRunes(s, maxRunes)
	head = strings.ReplaceAll(head, "\r\n", "\n")
	return strings.ReplaceAll(head, "\n", `\n`)
}

// headRunes returns the prefix of s holding at most n runes, never splitting
// a multi-byte character.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for index := range s {
		if count == n {
			return s[:index]
		}
		count++
	}
	return s
}
