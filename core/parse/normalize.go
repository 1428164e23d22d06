package parse

import (
	"slices"
	"strings"

	"github.com/leofalp/recordx/internal/utils"
)

const (
	fieldAnalysis = "analysis"
	fieldPlan     = "plan"
	fieldOutput   = "output"
)

// outputKeys are the keys accepted for the output field, in priority order.
var outputKeys = []string{fieldOutput, "result", "results", "readme", "document"}

// Normalize builds a Record from any decoded mapping. Keys are matched
// case-insensitively and output also accepts "result", "results", "readme"
// and "document", first match wins. A string analysis or plan becomes a
// one-item list, a non-string output (null included) is pretty-printed as
// JSON, and anything missing gets an empty default. Normalize never fails.
func Normalize(mapping map[string]any) Record {
	record := Record{
		Analysis: []Item{},
		Plan:     []Item{},
	}

	if value, ok := lookup(mapping, fieldAnalysis); ok {
		record.Analysis = itemsFromValue(value)
	}

	if value, ok := lookup(mapping, fieldPlan); ok {
		record.Plan = itemsFromValue(value)
	}

	for _, key := range outputKeys {
		if value, ok := lookup(mapping, key); ok {
			record.Output = outputText(value)
			break
		}
	}

	return record
}

// lookup finds name in mapping ignoring case. An exact lower-case key wins;
// between other casings the lexicographically smallest key is used so the
// result does not depend on map iteration order.
func lookup(mapping map[string]any, name string) (any, bool) {
	if value, ok := mapping[name]; ok {
		return value, true
	}

	var matches []string
	for key := range mapping {
		if strings.EqualFold(key, name) {
			matches = append(matches, key)
		}
	}
	if len(matches) == 0 {
		return nil, false
	}

	return mapping[slices.Min(matches)], true
}

func outputText(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	default:
		return utils.JSONToString(typed, true)
	}
}
