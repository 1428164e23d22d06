package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// unknownOutput is the placeholder a generator uses when it has no answer.
const unknownOutput = "UNKNOWN"

// htmlBlockPattern detects output written as HTML rather than Markdown.
var htmlBlockPattern = regexp.MustCompile(`(?i)<(html|body|div|p|h[1-6]|ul|ol|pre|table|section|article)[\s>]`)

// Writer renders record output into a document. A Writer is immutable and
// safe for concurrent use.
type Writer struct {
	header      string
	footer      string
	fixups      []Fixup
	convertHTML bool
}

// WriterOptions collects the settings applied by the functional options.
type WriterOptions struct {
	Header      string
	Footer      string
	Fixups      []Fixup
	ConvertHTML bool
}

// WithHeader sets the text placed before the output.
func WithHeader(header string) func(*WriterOptions) {
	return func(o *WriterOptions) {
		o.Header = header
	}
}

// WithFooter sets the text placed after the output.
func WithFooter(footer string) func(*WriterOptions) {
	return func(o *WriterOptions) {
		o.Footer = footer
	}
}

// WithFixups replaces [DefaultFixups]. Passing no fixups disables them.
func WithFixups(fixups ...Fixup) func(*WriterOptions) {
	return func(o *WriterOptions) {
		o.Fixups = fixups
	}
}

// WithHTMLConversion toggles HTML to Markdown conversion. It is on by default.
func WithHTMLConversion(enabled bool) func(*WriterOptions) {
	return func(o *WriterOptions) {
		o.ConvertHTML = enabled
	}
}

// NewWriter builds a Writer with the default fixups and HTML conversion.
func NewWriter(opts ...func(*WriterOptions)) *Writer {
	options := WriterOptions{
		Fixups:      DefaultFixups(),
		ConvertHTML: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Writer{
		header:      options.Header,
		footer:      options.Footer,
		fixups:      options.Fixups,
		convertHTML: options.ConvertHTML,
	}
}

// Render returns the document for output. An output that is blank or
// "UNKNOWN" after cleanup yields header and footer only; anything else is
// trimmed and placed between them followed by a newline.
func (w *Writer) Render(output string) (string, error) {
	clean := output
	if w.convertHTML && htmlBlockPattern.MatchString(clean) {
		markdown, err := htmltomarkdown.ConvertString(clean)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		clean = markdown
	}

	clean = strings.TrimSpace(ApplyFixups(clean, w.fixups...))
	if clean == "" || strings.EqualFold(clean, unknownOutput) {
		return w.header + w.footer, nil
	}

	return w.header + clean + "\n" + w.footer, nil
}

// WriteFile renders output and replaces path with the result. The content is
// written to a temporary file in the same directory and renamed into place,
// so readers never observe a partial document. The rendered content is
// returned.
func (w *Writer) WriteFile(path, output string) (string, error) {
	content, err := w.Render(output)
	if err != nil {
		return "", err
	}

	if err := writeAtomic(path, []byte(content)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return content, nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".recordx-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err = tmp.Sync(); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
