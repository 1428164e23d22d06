package parse

import (
	"encoding/json"
	"reflect"

	"github.com/leofalp/recordx/internal/utils"
)

// ItemKind tells the two [Item] variants apart.
type ItemKind int

const (
	// ItemText is a plain string entry.
	ItemText ItemKind = iota
	// ItemStructured is any other JSON value (object, array, number, bool),
	// kept exactly as the model produced it.
	ItemStructured
)

// Item is one entry of the analysis or plan list. Models return these either
// as bare strings or as objects of their own design ({"step": 1, "task": ...}),
// so an Item is a tagged variant over both instead of an untyped value.
// The zero Item is an empty text item.
type Item struct {
	kind  ItemKind
	text  string
	value any
}

// NewText returns a text item.
func NewText(text string) Item {
	return Item{kind: ItemText, text: text}
}

// NewStructured returns a structured item holding value. A string value
// produces a text item, so callers can pass decoded JSON through unchecked.
func NewStructured(value any) Item {
	if text, ok := value.(string); ok {
		return NewText(text)
	}
	return Item{kind: ItemStructured, value: value}
}

// Kind reports which variant the item holds.
func (i Item) Kind() ItemKind {
	return i.kind
}

// Text returns the string of a text item, or "" for a structured item.
func (i Item) Text() string {
	return i.text
}

// Value returns the item as a plain decoded JSON value: a string for text
// items, otherwise the structured value (maps, slices, json.Number, bool).
func (i Item) Value() any {
	if i.kind == ItemText {
		return i.text
	}
	return i.value
}

// String renders text items verbatim and structured items as compact JSON.
func (i Item) String() string {
	if i.kind == ItemText {
		return i.text
	}
	return utils.JSONToString(i.value)
}

// Equal reports whether two items hold the same variant and value.
func (i Item) Equal(other Item) bool {
	if i.kind != other.kind {
		return false
	}
	if i.kind == ItemText {
		return i.text == other.text
	}
	return reflect.DeepEqual(i.value, other.value)
}

// MarshalJSON encodes the item as its plain JSON value.
func (i Item) MarshalJSON() ([]byte, error) {
	return utils.MarshalJSON(i.Value(), false)
}

// MarshalYAML encodes the item as its plain YAML value. JSON numbers become
// YAML numbers rather than quoted strings.
func (i Item) MarshalYAML() (any, error) {
	return plainValue(i.Value()), nil
}

// itemsFromValue converts a decoded JSON value into a list of items.
// Lists map element-wise, a single string becomes one text item, null
// becomes an empty list and anything else becomes one structured item.
func itemsFromValue(value any) []Item {
	switch typed := value.(type) {
	case nil:
		return []Item{}
	case []any:
		items := make([]Item, 0, len(typed))
		for _, element := range typed {
			items = append(items, NewStructured(element))
		}
		return items
	default:
		return []Item{NewStructured(typed)}
	}
}

// plainValue rewrites json.Number values into int64 or float64 so that
// non-JSON encoders see numbers instead of strings.
func plainValue(value any) any {
	switch typed := value.(type) {
	case json.Number:
		if asInt, err := typed.Int64(); err == nil {
			return asInt
		}
		if asFloat, err := typed.Float64(); err == nil {
			return asFloat
		}
		return typed.String()
	case []any:
		out := make([]any, len(typed))
		for index, element := range typed {
			out[index] = plainValue(element)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, element := range typed {
			out[key] = plainValue(element)
		}
		return out
	default:
		return value
	}
}
