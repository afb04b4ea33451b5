package extract

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from PDF documents. The adapter holds at most one
// in-flight document: Open blocks callers until the previous document is
// closed, so page reads of two documents never interleave.
type PDF struct {
	mu sync.Mutex
}

// NewPDF returns a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Open parses the PDF available through r.
func (p *PDF) Open(ctx context.Context, r io.ReaderAt, size int64) (Document, error) {
	p.mu.Lock()

	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	reader, err := newReader(r, size)
	if err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return &pdfDocument{reader: reader, release: p.mu.Unlock}, nil
}

// newReader converts the library's parse panics on malformed input into
// plain errors.
func newReader(r io.ReaderAt, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader = nil
			err = fmt.Errorf("malformed document: %v", rec)
		}
	}()

	return pdf.NewReader(r, size)
}

type pdfDocument struct {
	reader  *pdf.Reader
	release func()
	closed  bool
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) ExtractPage(ctx context.Context, i int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return d.pageText(i)
}

func (d *pdfDocument) pageText(i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("malformed page: %v", rec)
		}
	}()

	// ledongthuc/pdf numbers pages from 1.
	page := d.reader.Page(i + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is missing or malformed", i)
	}

	return page.GetPlainText(nil)
}

func (d *pdfDocument) Close() error {
	if !d.closed {
		d.closed = true
		d.release()
	}

	return nil
}
