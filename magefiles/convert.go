package main

import (
	"fmt"

	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts input/*.pdf into output/*.txt with
// page-break markers. Existing outputs are kept.
func Convert() error {
	ensureBuilt()
	if err := Init(); err != nil {
		return err
	}
	if err := sh.RunV(binPath(), "input", "output", "--page-break"); err != nil {
		return fmt.Errorf("converting input/: %w", err)
	}
	return nil
}

// Reconvert regenerates every output in output/ from input/.
func Reconvert() error {
	ensureBuilt()
	return sh.RunV(binPath(), "input", "output", "--page-break", "--overwrite")
}
