package parse

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/recordx/internal/utils"
)

// Record is the canonical result of an extraction. All three fields are
// always present once a Record has been normalized: missing lists are empty
// and a missing output is "".
type Record struct {
	Analysis []Item
	Plan     []Item
	Output   string
}

// recordJSON fixes the field order and names of the serialized form.
type recordJSON struct {
	Analysis []Item `json:"analysis"`
	Plan     []Item `json:"plan"`
	Output   string `json:"output"`
}

// Map returns the record as the plain mapping [Normalize] accepts. Feeding it
// back through Normalize yields an identical Record.
func (r Record) Map() map[string]any {
	return map[string]any{
		"analysis": itemValues(r.Analysis),
		"plan":     itemValues(r.Plan),
		"output":   r.Output,
	}
}

// MarshalJSON encodes the record as {"analysis": [...], "plan": [...], "output": "..."}.
// Nil lists are encoded as [].
func (r Record) MarshalJSON() ([]byte, error) {
	return utils.MarshalJSON(recordJSON{
		Analysis: nonNil(r.Analysis),
		Plan:     nonNil(r.Plan),
		Output:   r.Output,
	}, false)
}

// UnmarshalJSON decodes any JSON object and normalizes it, so aliases such as
// "result" and single-string lists are accepted on the way in as well.
func (r *Record) UnmarshalJSON(data []byte) error {
	object, err := decodeObject(string(data))
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	*r = Normalize(object)
	return nil
}

// MarshalYAML encodes the record with analysis and plan as ordered sequences
// and output as a literal block when it spans several lines.
func (r Record) MarshalYAML() (any, error) {
	analysis := &yaml.Node{}
	if err := analysis.Encode(nonNil(r.Analysis)); err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	plan := &yaml.Node{}
	if err := plan.Encode(nonNil(r.Plan)); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	output := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Output}
	if strings.Contains(r.Output, "\n") {
		output.Style = yaml.LiteralStyle
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: fieldAnalysis}, analysis,
			{Kind: yaml.ScalarNode, Value: fieldPlan}, plan,
			{Kind: yaml.ScalarNode, Value: fieldOutput}, output,
		},
	}, nil
}

func itemValues(items []Item) []any {
	values := make([]any, len(items))
	for index, item := range items {
		values[index] = item.Value()
	}
	return values
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
