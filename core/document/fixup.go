package document

import (
	"regexp"
	"strings"
)

// Fixup rewrites generated text. Fixups must be safe to apply more than once.
type Fixup func(string) string

// DefaultOllamaAddress is the address the host fixup rewrites local URLs to.
const DefaultOllamaAddress = "127.0.0.1:11434"

var (
	packageNamePattern = regexp.MustCompile(`(?i)\bollamapy\b`)
	startLinePattern   = regexp.MustCompile(`(?mi)^[ \t]*ollama[ \t]+start.*$`)
	serveLinePattern   = regexp.MustCompile(`(?mi)^[ \t]*ollama[ \t]+serve.*$`)
	loopbackPattern    = regexp.MustCompile(`127\.0\.0\.1:?\d{0,5}`)
	localhostPattern   = regexp.MustCompile(`localhost:?\d{0,5}`)
	blankRunPattern    = regexp.MustCompile(`\n{3,}`)
)

// FixPackageName replaces the nonexistent "ollamapy" package with "ollama".
func FixPackageName(text string) string {
	return packageNamePattern.ReplaceAllString(text, "ollama")
}

// RemoveStartCommands blanks every line invoking "ollama start", which does
// not exist.
func RemoveStartCommands(text string) string {
	return startLinePattern.ReplaceAllString(text, "")
}

// NormalizeServeCommands reduces any "ollama serve ..." line to the bare
// command, dropping invented flags.
func NormalizeServeCommands(text string) string {
	return serveLinePattern.ReplaceAllString(text, "ollama serve")
}

// NormalizeHost points loopback and localhost mentions at
// [DefaultOllamaAddress], whatever port was given.
func NormalizeHost(text string) string {
	text = loopbackPattern.ReplaceAllString(text, DefaultOllamaAddress)
	return localhostPattern.ReplaceAllString(text, DefaultOllamaAddress)
}

// TagLlama3 adds the ":8b" tag to bare "llama3" model names. Text that
// already names a tagged llama3 model is left alone.
func TagLlama3(text string) string {
	if !strings.Contains(text, "llama3") || strings.Contains(text, "llama3:") {
		return text
	}
	return strings.ReplaceAll(text, "llama3", "llama3:8b")
}

// CollapseBlankLines squeezes runs of three or more newlines into one blank
// line.
func CollapseBlankLines(text string) string {
	return blankRunPattern.ReplaceAllString(text, "\n\n")
}

// DefaultFixups returns the corrections applied by a Writer built without
// [WithFixups], in order.
func DefaultFixups() []Fixup {
	return []Fixup{
		FixPackageName,
		RemoveStartCommands,
		NormalizeServeCommands,
		NormalizeHost,
		TagLlama3,
		CollapseBlankLines,
	}
}

// ApplyFixups runs fixups over text in order.
func ApplyFixups(text string, fixups ...Fixup) string {
	for _, fix := range fixups {
		text = fix(text)
	}
	return text
}
