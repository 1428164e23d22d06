package parse

import (
	"fmt"
	"regexp"

	"github.com/kaptinlin/jsonrepair"
)

// Repairer rewrites a block that failed to decode. It runs only after a raw
// decode attempt failed, never on text that already decodes.
type Repairer func(block string) (string, error)

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// RepairTrailingCommas removes every comma that is followed, after optional
// whitespace, by a closing brace or bracket.
func RepairTrailingCommas(text string) string {
	return trailingCommaPattern.ReplaceAllString(text, "$1")
}

// TrailingCommaRepairer is the default [Repairer]. It only strips trailing
// commas; any other malformation is left for the next stage to deal with.
func TrailingCommaRepairer(block string) (string, error) {
	return RepairTrailingCommas(block), nil
}

// JSONRepairer is an opt-in [Repairer] backed by jsonrepair. It also fixes
// unquoted keys, single quotes, comments and missing commas, which
// means it can turn a damaged block into a record the model never meant to
// produce. Enable it with [WithRepairer] only when that trade-off is wanted.
func JSONRepairer(block string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(block)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}
	return repaired, nil
}
