package utils

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNDJSONScanner(t *testing.T) {
	scanner := NewNDJSONScanner(strings.NewReader("{\"a\":1}\n\n   \n{\"a\":2}\r\n{\"a\":3}"))

	var lines []string
	for {
		line, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines = append(lines, string(line))
	}

	want := []string{`{"a":1}`, `{"a":2}`, `{"a":3}`}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", lines, want)
	}

	if _, err := scanner.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after exhaustion, got %v", err)
	}
}

func TestNDJSONScanner_Empty(t *testing.T) {
	if _, err := NewNDJSONScanner(strings.NewReader("")).Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestNDJSONScanner_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", maxNDJSONLineSize+1)

	_, err := NewNDJSONScanner(strings.NewReader(long)).Next()
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("expected bufio.ErrTooLong, got %v", err)
	}
}
