// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/pdf2txt/internal/container"
	"github.com/pdiddy/pdf2txt/pkg/types"
)

// DefaultPopplerImage is the container image used when pdftotext is not
// installed on the host.
const DefaultPopplerImage = "minidocks/poppler:latest"

const binPdftotext = "pdftotext"

// pageFeed terminates every page in pdftotext output.
const pageFeed = "\f"

// pdftotextArgs read the PDF from stdin and write UTF-8 text to stdout.
var pdftotextArgs = []string{"-enc", "UTF-8", "-q", "-", "-"}

// Pdftotext extracts text with poppler's pdftotext, run on the host or in a
// container.
type Pdftotext struct {
	tool container.Tool
}

// NewPdftotext locates pdftotext on PATH, falling back to image.
func NewPdftotext(image string) (*Pdftotext, error) {
	tool, err := container.FindTool(binPdftotext, image)
	if err != nil {
		return nil, fmt.Errorf("pdftotext backend unavailable: %w", err)
	}
	return NewPdftotextWithTool(tool), nil
}

// NewPdftotextWithTool wraps an already located tool.
func NewPdftotextWithTool(tool container.Tool) *Pdftotext {
	return &Pdftotext{tool: tool}
}

func (p *Pdftotext) Name() string { return string(types.BackendPdftotext) }

// Open runs pdftotext over the whole file once and splits the output into
// pages at form feeds.
func (p *Pdftotext) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := p.tool.Run(pdftotextArgs, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with %s: %w", path, p.tool.Name(), err)
	}
	return &textDocument{pages: splitPages(out.String())}, nil
}

// splitPages cuts pdftotext output at form feeds. The feed after the last
// page does not start another page.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, pageFeed)
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// textDocument is a document whose pages were extracted up front.
type textDocument struct {
	pages []string
}

func (d *textDocument) NumPage() int { return len(d.pages) }

func (d *textDocument) PageText(i int) (string, error) {
	if err := checkPage(i, len(d.pages)); err != nil {
		return "", err
	}
	return d.pages[i-1], nil
}

func (d *textDocument) Close() error { return nil }
