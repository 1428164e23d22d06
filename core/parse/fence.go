package parse

import (
	"regexp"
	"strings"
)

var (
	// jsonFencePattern matches a fence labeled json, case-insensitively.
	jsonFencePattern = regexp.MustCompile("(?is)```[ \t]*json\\b(.*?)```")

	// anyFencePattern matches any fence. A language word on the opening line
	// is only treated as a label when a newline follows it.
	anyFencePattern = regexp.MustCompile("(?s)```(?:[\\w+.-]*[ \t]*\\n)?(.*?)```")

	// enclosingFencePattern matches text that is one fenced block end to end.
	enclosingFencePattern = regexp.MustCompile("(?s)^```(?:[\\w+.-]*[ \t]*\\n)?(.*?)\\s*```$")

	// fenceLinePattern matches a line that only opens or closes a fence.
	fenceLinePattern = regexp.MustCompile("^```[\\w+.-]*$")
)

// StripFences returns the trimmed interior of the first ```json fence in
// text, or failing that of the first fence of any kind. Text without a
// complete fence is returned unchanged. Later fences are ignored; blocks are
// never concatenated.
func StripFences(text string) string {
	if match := jsonFencePattern.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}

	if match := anyFencePattern.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}

	return text
}

// unwrapEnclosingFence trims text and, when the whole of it is a single
// fenced block, drops the fence lines. Text with fences in the middle (a
// README with code samples) is only trimmed.
func unwrapEnclosingFence(text string) string {
	trimmed := strings.TrimSpace(text)

	match := enclosingFencePattern.FindStringSubmatch(trimmed)
	if match == nil || strings.Contains(match[1], "```") {
		return trimmed
	}

	return strings.TrimSpace(match[1])
}
