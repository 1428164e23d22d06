// Package document turns the output field of an extracted record into a
// Markdown file.
//
// A [Writer] runs a fixed sequence over the text: HTML is converted to
// Markdown, a list of [Fixup] functions corrects well-known mistakes in
// generated setup instructions, and the result is framed by an optional
// header and footer. An output that is empty or the literal "UNKNOWN" keeps
// only the frame.
//
// Example:
//
//	w := document.NewWriter(
//		document.WithHeader(header),
//		document.WithFooter(footer),
//	)
//	content, err := w.WriteFile("README.md", record.Output)
package document
