// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF files page by page. Several
// backends are available; all of them expose the same Extractor interface
// so the conversion driver does not depend on any PDF library directly.
package pdftext

import (
	"errors"
	"fmt"

	"github.com/pdiddy/pdf2txt/pkg/types"
)

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown extraction backend")

// Extractor opens PDF documents for text extraction.
type Extractor interface {
	// Name returns the backend name, e.g. "mupdf".
	Name() string

	// Open parses the PDF at path. The caller must Close the returned Document.
	Open(path string) (Document, error)
}

// Document is an open PDF. Page indices are 1-based.
type Document interface {
	// NumPage returns the number of pages in the document.
	NumPage() int

	// PageText returns the plain text of page i, 1 <= i <= NumPage().
	PageText(i int) (string, error)

	// Close releases the underlying library handle.
	Close() error
}

// New returns the extractor for backend. The pdftotext backend needs either
// the pdftotext binary on PATH or a container runtime with the poppler image.
func New(backend types.Backend) (Extractor, error) {
	switch backend {
	case types.BackendMuPDF, "":
		return NewMuPDF(), nil
	case types.BackendPDFReader:
		return NewPDFReader(), nil
	case types.BackendPdftotext:
		return NewPdftotext(DefaultPopplerImage)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// checkPage reports an out-of-range page index.
func checkPage(i, n int) error {
	if i < 1 || i > n {
		return fmt.Errorf("page %d out of range [1, %d]", i, n)
	}
	return nil
}
