// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/pdf2txt/pkg/types"
)

// MuPDF extracts text with the MuPDF library through go-fitz.
type MuPDF struct{}

// NewMuPDF creates the default extractor.
func NewMuPDF() *MuPDF {
	return &MuPDF{}
}

func (m *MuPDF) Name() string { return string(types.BackendMuPDF) }

// Open loads the document with MuPDF.
func (m *MuPDF) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &mupdfDocument{doc: doc}, nil
}

type mupdfDocument struct {
	doc *fitz.Document
}

func (d *mupdfDocument) NumPage() int { return d.doc.NumPage() }

func (d *mupdfDocument) PageText(i int) (string, error) {
	if err := checkPage(i, d.doc.NumPage()); err != nil {
		return "", err
	}
	text, err := d.doc.Text(i - 1)
	if err != nil {
		return "", fmt.Errorf("extracting page %d: %w", i, err)
	}
	return text, nil
}

func (d *mupdfDocument) Close() error { return d.doc.Close() }
