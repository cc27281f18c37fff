// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns PDF files into plain UTF-8 text files, one output
// per input. Pages are extracted in document order and joined either with a
// newline or with a visible page-break marker.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/pdf2txt/internal/pdftext"
	"github.com/pdiddy/pdf2txt/pkg/types"
)

const (
	// PageBreakSeparator joins pages in page-break mode.
	PageBreakSeparator = "\n\n---\n\n"
	// LineSeparator joins pages by default.
	LineSeparator = "\n"

	textExt = ".txt"
)

// ErrInvalidUTF8 is returned when a backend produced text that cannot be
// written as UTF-8.
var ErrInvalidUTF8 = errors.New("extracted text is not valid UTF-8")

// Options controls how each file is converted.
type Options struct {
	// Overwrite replaces existing outputs. When false they are skipped.
	Overwrite bool

	// PageBreak joins pages with PageBreakSeparator instead of LineSeparator.
	PageBreak bool

	// OnFile, if set, is called by ConvertBatch after every file.
	OnFile func(types.FileOutcome)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Files lists the per-file outcomes in processing order.
	Files []types.FileOutcome
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// OutputPath maps a PDF to <outputDir>/<stem>.txt. Inputs that share a stem
// map to the same output.
func OutputPath(pdfPath, outputDir string) string {
	return filepath.Join(outputDir, stem(filepath.Base(pdfPath))+textExt)
}

// stem drops the last extension of name. A leading dot starts the name, not
// an extension, so ".pdf" is its own stem.
func stem(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// Separator returns the string placed between consecutive pages.
func Separator(pageBreak bool) string {
	if pageBreak {
		return PageBreakSeparator
	}
	return LineSeparator
}

// ConvertFile extracts the text of pdfPath and writes it to outPath. An
// existing outPath is left untouched unless opts.Overwrite is set. Status
// lines go to w; errors are returned to the caller, not printed.
func ConvertFile(ex pdftext.Extractor, pdfPath, outPath string, opts Options, w io.Writer) (types.FileOutcome, error) {
	result := types.FileOutcome{Source: pdfPath, Target: outPath}

	if _, err := os.Stat(outPath); err == nil && !opts.Overwrite {
		fmt.Fprintf(w, "[skip] %s exists (use --overwrite to regenerate)\n", outPath)
		result.Outcome = types.OutcomeSkipped
		result.FinishedAt = time.Now().UTC()
		return result, nil
	}

	fail := func(err error) (types.FileOutcome, error) {
		result.Outcome = types.OutcomeFailed
		result.Pages, result.EmptyPages = 0, 0
		result.Error = err.Error()
		result.FinishedAt = time.Now().UTC()
		return result, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}

	pages, empty, err := extractPages(ex, pdfPath, w)
	if err != nil {
		return fail(err)
	}
	result.Pages, result.EmptyPages = len(pages), empty

	content := strings.Join(pages, Separator(opts.PageBreak))
	if !utf8.ValidString(content) {
		return fail(fmt.Errorf("%w: %s", ErrInvalidUTF8, filepath.Base(pdfPath)))
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fail(fmt.Errorf("writing %s: %w", outPath, err))
	}

	fmt.Fprintf(w, "[done] %s -> %s\n", filepath.Base(pdfPath), outPath)
	result.Outcome = types.OutcomeConverted
	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// extractPages returns the text of every page in order, warning on w about
// blank pages. The document is closed on every path.
func extractPages(ex pdftext.Extractor, pdfPath string, w io.Writer) (pages []string, empty int, err error) {
	doc, err := ex.Open(pdfPath)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			pages, empty, err = nil, 0, fmt.Errorf("closing %s: %w", pdfPath, cerr)
		}
	}()

	name := filepath.Base(pdfPath)
	n := doc.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return nil, 0, err
		}
		if strings.TrimSpace(text) == "" {
			fmt.Fprintf(w, "[warn] Page %d in %s yielded no text\n", i, name)
			empty++
		}
		pages = append(pages, text)
	}
	return pages, empty, nil
}

// ConvertBatch converts pdfPaths in order, writing each to OutputPath under
// outputDir. A failing file is reported on errW and does not stop the batch.
func ConvertBatch(ex pdftext.Extractor, pdfPaths []string, outputDir string, opts Options, w, errW io.Writer) BatchResult {
	result := BatchResult{Files: make([]types.FileOutcome, 0, len(pdfPaths))}
	for _, p := range pdfPaths {
		outcome, err := ConvertFile(ex, p, OutputPath(p, outputDir), opts, w)
		if err != nil {
			fmt.Fprintf(errW, "[error] Failed to process %s: %v\n", filepath.Base(p), err)
		}
		switch outcome.Outcome {
		case types.OutcomeConverted:
			result.Converted++
		case types.OutcomeSkipped:
			result.Skipped++
		case types.OutcomeFailed:
			result.Failed++
		}
		result.Files = append(result.Files, outcome)
		if opts.OnFile != nil {
			opts.OnFile(outcome)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
