package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2txt/internal/convert"
	"github.com/pdiddy/pdf2txt/internal/ledger"
	"github.com/pdiddy/pdf2txt/internal/scan"
	"github.com/pdiddy/pdf2txt/pkg/types"
)

const progressTemplate = `{{ bar . " " "━" "━" " " " "}} {{counters .}} {{percent .}} {{rtime .}}`

// runConvert performs one batch run. It returns an error only for problems
// found before the first file is touched; per-file failures are reported by
// the batch and leave the exit status at zero.
func runConvert(cmd *cobra.Command, cfg types.ConversionConfig, newExtractor extractorFactory) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if err := cfg.Validate(); err != nil {
		return err
	}

	pdfPaths, err := scan.Dir(cfg.PDFDir)
	if err != nil {
		return err
	}

	ex, err := newExtractor(cfg.Backend)
	if err != nil {
		return err
	}

	runID := ledger.NewRunID()
	started := time.Now()

	var led *ledger.Ledger
	if cfg.LedgerPath != "" {
		led, err = ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer led.Close()

		run := ledger.Run{
			ID:        runID,
			StartedAt: started,
			Backend:   cfg.Backend,
			PDFDir:    cfg.PDFDir,
			OutputDir: cfg.OutputDir,
			Overwrite: cfg.Overwrite,
			PageBreak: cfg.PageBreak,
		}
		if err := led.BeginRun(cmd.Context(), run); err != nil {
			return err
		}
	}

	var bar *pb.ProgressBar
	if cfg.Progress {
		bar = pb.New(len(pdfPaths)).
			SetTemplateString(progressTemplate).
			SetWriter(errOut).
			Start()
	}

	opts := convert.Options{
		Overwrite: cfg.Overwrite,
		PageBreak: cfg.PageBreak,
		OnFile: func(o types.FileOutcome) {
			if bar != nil {
				bar.Increment()
			}
			if led != nil {
				if err := led.Record(cmd.Context(), runID, o); err != nil {
					warn(errOut, "ledger", err)
				}
			}
		},
	}

	result := convert.ConvertBatch(ex, pdfPaths, cfg.OutputDir, opts, out, errOut)
	finished := time.Now()
	if bar != nil {
		bar.Finish()
	}

	if led != nil {
		if err := led.FinishRun(cmd.Context(), runID, finished, result.Converted, result.Skipped, result.Failed); err != nil {
			warn(errOut, "ledger", err)
		}
	}
	if cfg.ReportPath != "" {
		report := convert.NewReport(runID, cfg, started, finished, result)
		if err := convert.WriteReport(cfg.ReportPath, report); err != nil {
			warn(errOut, "report", err)
		}
	}
	return nil
}

// warn reports a failure of an optional output. It never fails the run.
func warn(w io.Writer, what string, err error) {
	fmt.Fprintf(w, "[warn] %s: %v\n", what, err)
}
