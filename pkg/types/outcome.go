// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdf2txt batch converter:
// per-file conversion outcomes and the run configuration.
package types

import "time"

// Outcome indicates what happened to one PDF during a batch run.
type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// FileOutcome records the result of converting a single PDF.
type FileOutcome struct {
	// Source is the path of the input PDF.
	Source string `json:"source" yaml:"source"`

	// Target is the path of the text file derived from Source.
	Target string `json:"target" yaml:"target"`

	// Outcome is converted, skipped, or failed.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Pages is the number of pages extracted. Zero for skipped and failed files.
	Pages int `json:"pages" yaml:"pages"`

	// EmptyPages counts pages whose extracted text was blank.
	EmptyPages int `json:"empty_pages,omitempty" yaml:"empty_pages,omitempty"`

	// Error is the failure detail when Outcome is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// FinishedAt is when processing of this file ended.
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
