// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates the PDF files of an input directory.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// pdfExt is matched case-sensitively against file names.
const pdfExt = ".pdf"

var (
	// ErrDirectoryNotFound means the input path does not exist or is not a directory.
	ErrDirectoryNotFound = errors.New("input directory not found")

	// ErrEmptyInput means the input directory holds no *.pdf files.
	ErrEmptyInput = errors.New("no PDF files found")
)

// Dir returns the paths of the *.pdf files directly inside dir, sorted by
// file name. Subdirectories are not descended into.
func Dir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), pdfExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrEmptyInput, dir)
	}

	sort.Strings(names)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
