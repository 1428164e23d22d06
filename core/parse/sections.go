package parse

import (
	"regexp"
	"strings"
)

// SectionMap maps a lower-case section name ("analysis", "plan", "output")
// to the raw text found under its marker.
type SectionMap map[string]string

// sectionMarkerPattern matches "=== NAME ===" markers with any amount of
// spaces or tabs around the name and three or more '=' on each side. A marker
// never spans lines, so a Markdown "=====" underline is not one.
var sectionMarkerPattern = regexp.MustCompile(`(?i)={3,}[ \t]*([a-z][\w -]*?)[ \t]*={3,}`)

// ParseSections splits text on section markers and keeps the content of the
// analysis, plan and output sections. A section runs from its marker to the
// next marker of any name. Unknown sections are skipped, the first non-empty
// occurrence of a name wins, and an empty map means nothing was recognized.
func ParseSections(text string) SectionMap {
	sections := SectionMap{}

	markers := sectionMarkerPattern.FindAllStringSubmatchIndex(text, -1)
	for index, marker := range markers {
		name := strings.ToLower(strings.TrimSpace(text[marker[2]:marker[3]]))
		if !isSectionName(name) {
			continue
		}
		if _, seen := sections[name]; seen {
			continue
		}

		end := len(text)
		if index+1 < len(markers) {
			end = markers[index+1][0]
		}

		content := strings.TrimSpace(text[marker[1]:end])
		if content == "" {
			continue
		}
		sections[name] = content
	}

	return sections
}

func isSectionName(name string) bool {
	return name == fieldAnalysis || name == fieldPlan || name == fieldOutput
}

// resolve converts the sections into the mapping Normalize expects. The
// analysis and plan sections are resolved into item lists; output stays text.
func (sections SectionMap) resolve(repair Repairer) map[string]any {
	mapping := make(map[string]any, len(sections))

	for _, name := range []string{fieldAnalysis, fieldPlan} {
		if content, ok := sections[name]; ok {
			mapping[name] = itemValues(resolveListSection(content, repair))
		}
	}

	if content, ok := sections[fieldOutput]; ok {
		mapping[fieldOutput] = unwrapEnclosingFence(content)
	}

	return mapping
}

// resolveListSection turns a section body into items: the body as JSON, else
// the first [...] block in it (repaired once if needed), else one text item
// per non-blank line, else the whole trimmed body. A fence around the whole
// body is dropped; fence delimiter lines inside it are skipped but the lines
// between and around them are kept.
func resolveListSection(content string, repair Repairer) []Item {
	candidate := unwrapEnclosingFence(Sanitize(content))

	if value, err := decodeJSON(candidate); err == nil && value != nil {
		return itemsFromValue(value)
	}

	if block, ok := ExtractArray(candidate); ok {
		if value, err := decodeJSON(block); err == nil {
			return itemsFromValue(value)
		}
		if repaired, err := repair(block); err == nil {
			if value, err := decodeJSON(repaired); err == nil {
				return itemsFromValue(value)
			}
		}
	}

	var items []Item
	for _, line := range strings.Split(candidate, "\n") {
		if line = strings.TrimSpace(line); line != "" && !fenceLinePattern.MatchString(line) {
			items = append(items, NewText(line))
		}
	}
	if len(items) == 0 {
		return []Item{NewText(candidate)}
	}

	return items
}
