package parse

import "errors"

var (
	// ErrMalformedBlock is recorded when a candidate block was found but could
	// not be decoded, even after repair. The pipeline moves on to the next stage.
	ErrMalformedBlock = errors.New("recordx: malformed block")

	// ErrTruncated is recorded when an opening brace or bracket is never
	// balanced before the end of the text, typically because the model hit its
	// output limit. The block is never guessed at.
	ErrTruncated = errors.New("recordx: truncated block")

	// ErrNoRecognizedStructure is returned by [Extract] when neither object
	// decoding nor the section fallback produced anything usable.
	//
	// Example:
	//
	//	if errors.Is(err, parse.ErrNoRecognizedStructure) {
	//	    // re-prompt the model
	//	}
	ErrNoRecognizedStructure = errors.New("recordx: no recognized structure")
)
