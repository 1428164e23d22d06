// Package parse recovers a well-formed [Record] from free-form LLM text.
// Language models asked for strict JSON still wrap it in markdown fences,
// append commentary, leave trailing commas, stop mid-object when they hit
// their output limit, or ignore the format entirely and write
// "=== ANALYSIS ===" style sections. This package applies a layered recovery
// strategy, each stage more permissive than the last:
//
//  1. direct JSON decode of the sanitized text
//  2. decode of the first fenced block (a "json" fence is preferred)
//  3. decode of the first balanced {...} block, retried once after
//     trailing-comma repair
//  4. section-marker fallback
//
// and then normalizes whatever mapping it recovered into the three required
// fields. When every stage fails the error matches [ErrNoRecognizedStructure].
//
// The main entry point is [Extract]; [NewExtractor] builds a configured
// [Extractor] when a custom [Repairer] or an observer is needed.
//
// Brace and bracket scanning is not aware of string literals: a "}" inside a
// quoted value is counted like any other. Model output rarely hits this, and
// the block stage falls through to the section stage when it does.
package parse
