package types

import (
	"errors"
	"fmt"
	"slices"
)

// Backend names a PDF text extraction library.
type Backend string

const (
	// BackendMuPDF extracts through MuPDF (go-fitz). Requires cgo.
	BackendMuPDF Backend = "mupdf"
	// BackendPDFReader is the pure Go reader from ledongthuc/pdf.
	BackendPDFReader Backend = "pdfreader"
	// BackendPdftotext shells out to poppler's pdftotext, locally or in a container.
	BackendPdftotext Backend = "pdftotext"
)

// Backends lists every supported extraction backend, default first.
var Backends = []Backend{BackendMuPDF, BackendPDFReader, BackendPdftotext}

// ConversionConfig holds the settings of one pdf2txt run. Values come from
// flags, the config file, or PDF2TXT_* environment variables.
type ConversionConfig struct {
	// PDFDir is the directory scanned (non-recursively) for *.pdf files.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// OutputDir receives one <stem>.txt per input PDF.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Overwrite replaces existing text files instead of skipping them.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`

	// PageBreak joins pages with a "---" marker instead of a single newline.
	PageBreak bool `json:"page_break" yaml:"page_break"`

	// Backend selects the extraction library (default mupdf).
	Backend Backend `json:"backend" yaml:"backend"`

	// Progress draws a progress bar on stderr.
	Progress bool `json:"progress" yaml:"progress"`

	// LedgerPath is an optional SQLite database recording run outcomes.
	LedgerPath string `json:"ledger,omitempty" yaml:"ledger,omitempty"`

	// ReportPath is an optional YAML file receiving the run summary.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks that the required paths are set and the backend is known.
// An empty backend is replaced by the default.
func (c *ConversionConfig) Validate() error {
	if c.PDFDir == "" {
		return fmt.Errorf("%w: pdf_dir is required", ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalidConfig)
	}
	if c.Backend == "" {
		c.Backend = BackendMuPDF
	}
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("%w: unknown backend %q (want one of %v)", ErrInvalidConfig, c.Backend, Backends)
	}
	return nil
}
