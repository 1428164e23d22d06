package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// maxNDJSONLineSize is the maximum size of a single NDJSON line (1 MB).
// The default bufio.Scanner limit is 64 KiB, which long completions can
// exceed in a single chunk.
const maxNDJSONLineSize = 1 * 1024 * 1024

// NDJSONScanner reads newline-delimited JSON documents, the streaming format
// of Ollama's native API. Blank lines are skipped.
type NDJSONScanner struct {
	scanner *bufio.Scanner
}

// NewNDJSONScanner creates a scanner over reader. Lines longer than 1 MB make
// Next return an error wrapping bufio.ErrTooLong.
func NewNDJSONScanner(reader io.Reader) *NDJSONScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxNDJSONLineSize)
	return &NDJSONScanner{scanner: scanner}
}

// Next returns the next non-blank line. It returns io.EOF once the reader is
// exhausted. The returned slice is only valid until the next call.
func (s *NDJSONScanner) Next() ([]byte, error) {
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return line, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("NDJSON scanner error: %w", err)
	}
	return nil, io.EOF
}
