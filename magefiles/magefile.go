// Package main contains Mage build targets for pdf2txt developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories used by the Convert target.
var projectDirs = []string{
	"input",
	"output",
}

// Init creates the local input and output directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "pdf2txt"
	cmdPkg  = "./cmd/pdf2txt"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Clean removes the built binary.
func Clean() error {
	return sh.Rm(binDir)
}

// binPath returns the path of the built CLI.
func binPath() string {
	return filepath.Join(binDir, binName)
}

// ensureBuilt builds the binary once per mage invocation.
func ensureBuilt() {
	mg.Deps(Build)
}

// Stats prints project metrics: non-blank Go lines (production and tests) and
// documentation word count.
func Stats() error {
	st, err := countStats(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", st.prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", st.testLines)
	fmt.Printf("Words (documentation):           %d\n", st.docWords)
	return nil
}

type stats struct {
	prodLines, testLines, docWords int
}

// countStats walks root, skipping the directories the go tool ignores.
func countStats(root string) (stats, error) {
	var st stats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && ignoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".go" && ext != ".md" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		switch {
		case strings.HasSuffix(path, "_test.go"):
			st.testLines += nonBlankLines(data)
		case ext == ".go":
			st.prodLines += nonBlankLines(data)
		default:
			st.docWords += len(bytes.Fields(data))
		}
		return nil
	})
	return st, err
}

// ignoredDir reports whether the go tool would ignore the directory at path.
func ignoredDir(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func nonBlankLines(data []byte) int {
	n := 0
	for line := range bytes.Lines(data) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
