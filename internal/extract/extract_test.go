package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

// fakeDocument serves canned page texts and can fail a chosen page.
type fakeDocument struct {
	pages    []string
	failPage int // -1 for no failure
	reads    []int
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) ExtractPage(_ context.Context, i int) (string, error) {
	d.reads = append(d.reads, i)
	if i == d.failPage {
		return "", fmt.Errorf("damaged page")
	}
	return d.pages[i], nil
}

func (d *fakeDocument) Close() error { return nil }

type fakeExtractor struct {
	doc     *fakeDocument
	openErr error
}

func (e *fakeExtractor) Open(_ context.Context, _ io.ReaderAt, _ int64) (Document, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.doc, nil
}

func TestTextJoinsPagesWithBlankLine(t *testing.T) {
	doc := &fakeDocument{pages: []string{"Hello", "World"}, failPage: -1}

	got, err := Text(context.Background(), doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "Hello\n\nWorld" {
		t.Fatalf("got %q, want %q", got, "Hello\n\nWorld")
	}
}

func TestTextTrimsOnlyTheFinalResult(t *testing.T) {
	doc := &fakeDocument{pages: []string{"  First page \n", "\n Second page  "}, failPage: -1}

	got, err := Text(context.Background(), doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// Page-interior whitespace survives; only the outer edges are trimmed.
	if got != "First page \n\n\n\n Second page" {
		t.Fatalf("got %q", got)
	}
}

func TestTextReadsPagesInOrder(t *testing.T) {
	doc := &fakeDocument{pages: []string{"a", "b", "c", "d"}, failPage: -1}

	if _, err := Text(context.Background(), doc); err != nil {
		t.Fatalf("extract: %v", err)
	}

	for i, page := range doc.reads {
		if page != i {
			t.Fatalf("pages read out of order: %v", doc.reads)
		}
	}
}

func TestTextIsAllOrNothing(t *testing.T) {
	doc := &fakeDocument{pages: []string{"a", "b", "c"}, failPage: 1}

	got, err := Text(context.Background(), doc)
	if got != "" {
		t.Fatalf("partial text must be discarded, got %q", got)
	}

	var pageErr *PageError
	if !errors.As(err, &pageErr) {
		t.Fatalf("expected *PageError, got %v", err)
	}
	if pageErr.Page != 1 {
		t.Fatalf("expected failing page 1, got %d", pageErr.Page)
	}
}

func TestFromBytesPropagatesOpenFailure(t *testing.T) {
	ex := &fakeExtractor{openErr: fmt.Errorf("%w: not a document", ErrExtraction)}

	_, err := FromBytes(context.Background(), ex, []byte("junk"))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestPDFOpenRejectsGarbage(t *testing.T) {
	_, err := FromBytes(context.Background(), NewPDF(), []byte("definitely not a pdf"))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
