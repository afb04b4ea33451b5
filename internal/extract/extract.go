// Package extract pulls plain text out of paginated documents, page by
// page, for feeding into script analysis.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrExtraction is returned when a document cannot be opened or parsed.
var ErrExtraction = errors.New("document extraction failed")

// PageError reports a failure reading one page mid-sequence. Extraction is
// all-or-nothing: text accumulated before the failing page is discarded.
type PageError struct {
	Page int // zero-based page index
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("extract page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Document is an open paginated document.
type Document interface {
	PageCount() int
	// ExtractPage returns the plain text of the zero-based page i.
	ExtractPage(ctx context.Context, i int) (string, error)
	Close() error
}

// Extractor opens a document from its raw bytes.
type Extractor interface {
	Open(ctx context.Context, r io.ReaderAt, size int64) (Document, error)
}

// Text concatenates every page of doc in strictly increasing page order,
// with one blank line between pages, and trims the surrounding whitespace
// of the final result only; interior page whitespace is preserved as the
// document delivered it. A failing page aborts the whole extraction.
func Text(ctx context.Context, doc Document) (string, error) {
	var b strings.Builder

	n := doc.PageCount()
	for i := 0; i < n; i++ {
		page, err := doc.ExtractPage(ctx, i)
		if err != nil {
			return "", &PageError{Page: i, Err: err}
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page)
	}

	return strings.TrimSpace(b.String()), nil
}

// FromBytes opens data with ex and extracts its full text.
func FromBytes(ctx context.Context, ex Extractor, data []byte) (string, error) {
	doc, err := ex.Open(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer func() { _ = doc.Close() }()

	return Text(ctx, doc)
}
