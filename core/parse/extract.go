package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/recordx/providers/observability"
)

// Strategy names the pipeline stage that recovered a record.
type Strategy string

const (
	// StrategyDirect means the sanitized text was a JSON object as-is.
	StrategyDirect Strategy = "direct"
	// StrategyFenced means the object was inside a code fence.
	StrategyFenced Strategy = "fenced"
	// StrategyBlock means the object was the first balanced {...} block.
	StrategyBlock Strategy = "block"
	// StrategyRepaired means the first balanced block decoded after repair.
	StrategyRepaired Strategy = "repaired"
	// StrategySections means the record came from "=== NAME ===" sections.
	StrategySections Strategy = "sections"
)

// Result pairs an extracted Record with the strategy that produced it.
type Result struct {
	Record   Record
	Strategy Strategy
}

// Extractor runs the recovery pipeline. It holds only configuration, so one
// Extractor can serve any number of concurrent calls.
type Extractor struct {
	repair   Repairer
	observer observability.Provider
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRepairer replaces the repair step used on blocks that fail to decode.
// The default is [TrailingCommaRepairer].
func WithRepairer(repair Repairer) ExtractorOption {
	return func(e *Extractor) {
		if repair != nil {
			e.repair = repair
		}
	}
}

// WithObserver makes the Extractor log and count which stage succeeded.
func WithObserver(observer observability.Provider) ExtractorOption {
	return func(e *Extractor) {
		e.observer = observer
	}
}

// NewExtractor returns an Extractor with the default trailing-comma repair
// and no observer, adjusted by opts.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	extractor := &Extractor{repair: TrailingCommaRepairer}
	for _, opt := range opts {
		opt(extractor)
	}
	return extractor
}

var defaultExtractor = NewExtractor()

// Extract recovers a Record from raw model output with the default Extractor.
//
// Example:
//
//	record, err := parse.Extract("```json\n{\"analysis\": \"solo\", \"plan\": [], \"output\": \"x\",}\n```")
//	// record.Analysis == []Item{NewText("solo")}, record.Output == "x"
func Extract(raw string) (Record, error) {
	return defaultExtractor.Extract(raw)
}

// Extract recovers a Record from raw model output. The error matches
// [ErrNoRecognizedStructure] when nothing could be recovered.
func (e *Extractor) Extract(raw string) (Record, error) {
	result, err := e.ExtractContext(context.Background(), raw)
	return result.Record, err
}

// ExtractContext is Extract with a context for the observer and the winning
// strategy reported alongside the record.
func (e *Extractor) ExtractContext(ctx context.Context, raw string) (Result, error) {
	mapping, strategy, err := e.recover(raw)
	if err != nil {
		if e.observer != nil {
			e.observer.Counter(observability.MetricExtractFailure).Add(ctx, 1)
			e.observer.Debug(ctx, "no record recovered",
				observability.Int(observability.AttrExtractInputLength, len(raw)),
				observability.Error(err),
			)
		}
		return Result{}, err
	}

	record := Normalize(mapping)

	if e.observer != nil {
		e.observer.Counter(observability.MetricExtractStrategy).Add(ctx, 1,
			observability.String(observability.AttrExtractStrategy, string(strategy)),
		)
		e.observer.Debug(ctx, "record recovered",
			observability.String(observability.AttrExtractStrategy, string(strategy)),
			observability.Int(observability.AttrExtractInputLength, len(raw)),
			observability.Int(observability.AttrExtractAnalysisCount, len(record.Analysis)),
			observability.Int(observability.AttrExtractPlanCount, len(record.Plan)),
		)
	}

	return Result{Record: record, Strategy: strategy}, nil
}

// recover walks the stages in order and returns the first mapping found.
// Stage failures are collected and joined under ErrNoRecognizedStructure.
func (e *Extractor) recover(raw string) (map[string]any, Strategy, error) {
	text := strings.TrimSpace(Sanitize(raw))
	var failures []error

	object, err := decodeObject(text)
	if err == nil {
		return object, StrategyDirect, nil
	}
	failures = append(failures, fmt.Errorf("%s: %w", StrategyDirect, err))

	if stripped := StripFences(text); stripped != text {
		object, err = decodeObject(stripped)
		if err == nil {
			return object, StrategyFenced, nil
		}
		failures = append(failures, fmt.Errorf("%s: %w", StrategyFenced, err))
	}

	block, err := balancedBlock(text, '{', '}')
	switch {
	case err == nil:
		object, strategy, blockErr := e.decodeBlock(block)
		if blockErr == nil {
			return object, strategy, nil
		}
		failures = append(failures, blockErr)
	case errors.Is(err, ErrTruncated):
		failures = append(failures, fmt.Errorf("%s: %w", StrategyBlock, err))
	}

	if sections := ParseSections(text); len(sections) > 0 {
		return sections.resolve(e.repair), StrategySections, nil
	}
	failures = append(failures, fmt.Errorf("%s: no section markers", StrategySections))

	return nil, "", fmt.Errorf("%w: %w", ErrNoRecognizedStructure, errors.Join(failures...))
}

// decodeBlock decodes a balanced block, retrying once through the repairer.
func (e *Extractor) decodeBlock(block string) (map[string]any, Strategy, error) {
	object, err := decodeObject(block)
	if err == nil {
		return object, StrategyBlock, nil
	}

	repaired, repairErr := e.repair(block)
	if repairErr != nil {
		return nil, "", fmt.Errorf("%s: %w: %w", StrategyRepaired, ErrMalformedBlock, repairErr)
	}

	object, err = decodeObject(repaired)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w: %w", StrategyRepaired, ErrMalformedBlock, err)
	}

	return object, StrategyRepaired, nil
}
