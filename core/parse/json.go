package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// decodeJSON decodes exactly one JSON value from text. Numbers are kept as
// json.Number so structured items round-trip without float rounding, and any
// non-whitespace after the value is an error.
func decodeJSON(text string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected content after JSON value at offset %d", decoder.InputOffset())
	}

	return value, nil
}

// decodeObject decodes text and requires the result to be a JSON object.
func decodeObject(text string) (map[string]any, error) {
	value, err := decodeJSON(text)
	if err != nil {
		return nil, err
	}

	object, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decoded a JSON %s, want an object", jsonKind(value))
	}

	return object, nil
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}
