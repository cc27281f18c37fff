// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2txt/pkg/types"
)

// Report is the YAML summary written after a run when --report is set.
type Report struct {
	RunID      string              `yaml:"run_id"`
	Backend    types.Backend       `yaml:"backend"`
	PDFDir     string              `yaml:"pdf_dir"`
	OutputDir  string              `yaml:"output_dir"`
	Overwrite  bool                `yaml:"overwrite"`
	PageBreak  bool                `yaml:"page_break"`
	StartedAt  time.Time           `yaml:"started_at"`
	FinishedAt time.Time           `yaml:"finished_at"`
	Converted  int                 `yaml:"converted"`
	Skipped    int                 `yaml:"skipped"`
	Failed     int                 `yaml:"failed"`
	Files      []types.FileOutcome `yaml:"files"`
}

// NewReport summarizes a finished batch.
func NewReport(runID string, cfg types.ConversionConfig, started, finished time.Time, r BatchResult) Report {
	return Report{
		RunID:      runID,
		Backend:    cfg.Backend,
		PDFDir:     cfg.PDFDir,
		OutputDir:  cfg.OutputDir,
		Overwrite:  cfg.Overwrite,
		PageBreak:  cfg.PageBreak,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Converted:  r.Converted,
		Skipped:    r.Skipped,
		Failed:     r.Failed,
		Files:      r.Files,
	}
}

// WriteReport marshals r as YAML to path, creating parent directories.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
