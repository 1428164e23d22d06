package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  SectionMap
	}{
		{
			name:  "all three sections",
			input: "=== ANALYSIS ===\na\n=== PLAN ===\np\n=== OUTPUT ===\no",
			want:  SectionMap{"analysis": "a", "plan": "p", "output": "o"},
		},
		{
			name:  "marker spacing and case vary",
			input: "==== analysis====\na\n===Plan===\np\n=====   Output   =====\no",
			want:  SectionMap{"analysis": "a", "plan": "p", "output": "o"},
		},
		{
			name:  "unknown section ends the previous one",
			input: "=== PLAN ===\np\n=== NOTES ===\nignored\n=== OUTPUT ===\no",
			want:  SectionMap{"plan": "p", "output": "o"},
		},
		{
			name:  "first non-empty occurrence wins",
			input: "=== OUTPUT ===\n\n=== OUTPUT ===\nsecond\n=== OUTPUT ===\nthird",
			want:  SectionMap{"output": "second"},
		},
		{
			name:  "markdown underline is not a marker",
			input: "=== OUTPUT ===\nTitle\n=====\nbody",
			want:  SectionMap{"output": "Title\n=====\nbody"},
		},
		{
			name:  "no markers",
			input: "just prose",
			want:  SectionMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseSections(tt.input)); diff != "" {
				t.Errorf("ParseSections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveListSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Item
	}{
		{
			name:    "json array",
			content: `["a", {"step": 2}]`,
			want:    []Item{NewText("a"), NewStructured(map[string]any{"step": jsonNumber("2")})},
		},
		{
			name:    "json string",
			content: `"only one"`,
			want:    texts("only one"),
		},
		{
			name:    "fenced json array",
			content: "```json\n[\"a\", \"b\"]\n```",
			want:    texts("a", "b"),
		},
		{
			name:    "array inside prose",
			content: `Steps: ["a", "b"] and that's it`,
			want:    texts("a", "b"),
		},
		{
			name:    "array with trailing comma",
			content: `["a", "b",]`,
			want:    texts("a", "b"),
		},
		{
			name:    "one item per line",
			content: "first\n\n  second  \nthird",
			want:    texts("first", "second", "third"),
		},
		{
			name:    "smart quotes in array",
			content: "[“a”, “b”]",
			want:    texts("a", "b"),
		},
		{
			name:    "fence between lines",
			content: "- check install\n```bash\nollama pull phi3:mini\n```\n- verify server",
			want:    texts("- check install", "ollama pull phi3:mini", "- verify server"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveListSection(tt.content, TrailingCommaRepairer)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolveListSection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSectionMap_ResolveUnwrapsOutputFence(t *testing.T) {
	sections := ParseSections("=== OUTPUT ===\n```markdown\n# Lab\n\n```bash\nollama serve\n```\n```")
	mapping := sections.resolve(TrailingCommaRepairer)

	// The fence encloses inner fences, so it is left alone.
	want := "```markdown\n# Lab\n\n```bash\nollama serve\n```\n```"
	if got := mapping["output"]; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	sections = ParseSections("=== OUTPUT ===\n```markdown\n# Lab\nRun it.\n```")
	mapping = sections.resolve(TrailingCommaRepairer)
	if got := mapping["output"]; got != "# Lab\nRun it." {
		t.Errorf("output = %q, want %q", got, "# Lab\nRun it.")
	}
}
