// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdf2txt/pkg/types"
)

// PDFReader extracts text with the pure Go ledongthuc/pdf reader. It needs
// no cgo, at the cost of weaker handling of unusual font encodings.
type PDFReader struct{}

// NewPDFReader creates a pure Go extractor.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

func (p *PDFReader) Name() string { return string(types.BackendPDFReader) }

// openFile opens the files handed to the reader.
var openFile = os.Open

// Open parses the cross-reference table of the file at path. The reader
// panics on some malformed files; that is reported as an error. The file is
// closed on every path that does not return a document.
func (p *PDFReader) Open(path string) (doc Document, err error) {
	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("opening PDF %s: malformed document: %v", path, r)
		}
		if err != nil {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &readerDocument{file: f, reader: r, pages: r.NumPage()}, nil
}

type readerDocument struct {
	file   *os.File
	reader *pdf.Reader
	pages  int
}

func (d *readerDocument) NumPage() int { return d.pages }

func (d *readerDocument) PageText(i int) (text string, err error) {
	if err := checkPage(i, d.pages); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extracting page %d: %v", i, r)
		}
	}()

	page := d.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extracting page %d: %w", i, err)
	}
	return text, nil
}

func (d *readerDocument) Close() error { return d.file.Close() }
