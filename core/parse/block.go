package parse

import (
	"errors"
	"strings"
)

// errNoBlock means the opening delimiter never appears in the text.
var errNoBlock = errors.New("no opening delimiter")

// ExtractObject returns the first balanced {...} block in text. It reports
// false when text has no '{' or when the first '{' is never closed.
func ExtractObject(text string) (string, bool) {
	block, err := balancedBlock(text, '{', '}')
	return block, err == nil
}

// ExtractArray returns the first balanced [...] block in text. It reports
// false when text has no '[' or when the first '[' is never closed.
func ExtractArray(text string) (string, bool) {
	block, err := balancedBlock(text, '[', ']')
	return block, err == nil
}

// balancedBlock scans from the first open byte, counting depth, and returns
// the substring ending where depth is back to zero. A block that never closes
// yields ErrTruncated. Delimiters inside string literals are counted too.
func balancedBlock(text string, open, close byte) (string, error) {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return "", errNoBlock
	}

	depth := 0
	for index := start; index < len(text); index++ {
		switch text[index] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : index+1], nil
			}
		}
	}

	return "", ErrTruncated
}
