// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2txt/internal/pdftext"
	"github.com/pdiddy/pdf2txt/pkg/types"
)

// fakeExtractor implements pdftext.Extractor for testing. Documents are
// keyed by base name; openErr and pageErr inject failures.
type fakeExtractor struct {
	docs    map[string][]string
	openErr map[string]error
	pageErr map[string]error
	opened  int
	closed  int
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Open(path string) (pdftext.Document, error) {
	name := filepath.Base(path)
	if err, ok := f.openErr[name]; ok {
		return nil, err
	}
	pages, ok := f.docs[name]
	if !ok {
		return nil, errors.New("unexpected path: " + path)
	}
	f.opened++
	return &fakeDocument{owner: f, pages: pages, pageErr: f.pageErr[name]}, nil
}

type fakeDocument struct {
	owner   *fakeExtractor
	pages   []string
	pageErr error
}

func (d *fakeDocument) NumPage() int { return len(d.pages) }

func (d *fakeDocument) PageText(i int) (string, error) {
	if d.pageErr != nil && i == len(d.pages) {
		return "", d.pageErr
	}
	return d.pages[i-1], nil
}

func (d *fakeDocument) Close() error {
	d.owner.closed++
	return nil
}

// setupPDFs creates placeholder files in a fresh input directory. Their
// contents are never parsed; fakeExtractor serves the pages.
func setupPDFs(t *testing.T, names ...string) (inDir, outDir string) {
	t.Helper()
	tmp := t.TempDir()
	inDir = filepath.Join(tmp, "pdfs")
	outDir = filepath.Join(tmp, "text")
	require.NoError(t, os.MkdirAll(inDir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), []byte("%PDF-1.4"), 0o644))
	}
	return inDir, outDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		pdf  string
		want string
	}{
		{pdf: "/in/a.pdf", want: filepath.Join("out", "a.txt")},
		{pdf: "/in/report.v2.pdf", want: filepath.Join("out", "report.v2.txt")},
		{pdf: "/in/Report.PDF", want: filepath.Join("out", "Report.txt")},
		{pdf: "noext", want: filepath.Join("out", "noext.txt")},
		{pdf: "/in/.pdf", want: filepath.Join("out", ".pdf.txt")},
		{pdf: "/in/.hidden.pdf", want: filepath.Join("out", ".hidden.txt")},
		{pdf: "/in/a..pdf", want: filepath.Join("out", "a..txt")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.pdf, "out"), tt.pdf)
	}
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, "\n\n---\n\n", Separator(true))
	assert.Equal(t, "\n", Separator(false))
}

func TestConvertFile_JoinsPages(t *testing.T) {
	tests := []struct {
		name      string
		pageBreak bool
		want      string
	}{
		{name: "page break", pageBreak: true, want: "Hello\n\n---\n\nWorld"},
		{name: "newline", pageBreak: false, want: "Hello\nWorld"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inDir, outDir := setupPDFs(t, "a.pdf")
			ex := &fakeExtractor{docs: map[string][]string{"a.pdf": {"Hello", "World"}}}
			outPath := OutputPath(filepath.Join(inDir, "a.pdf"), outDir)

			var log bytes.Buffer
			res, err := ConvertFile(ex, filepath.Join(inDir, "a.pdf"), outPath, Options{PageBreak: tt.pageBreak}, &log)
			require.NoError(t, err)

			assert.Equal(t, types.OutcomeConverted, res.Outcome)
			assert.Equal(t, 2, res.Pages)
			assert.Equal(t, tt.want, readFile(t, outPath))
			assert.Contains(t, log.String(), "[done] a.pdf -> "+outPath)
			assert.Equal(t, 1, ex.closed)
		})
	}
}

func TestConvertFile_SeparatorCount(t *testing.T) {
	pages := []string{"one\n", "two\n", "three\n", "four\n", "five\n"}
	for _, pageBreak := range []bool{true, false} {
		inDir, outDir := setupPDFs(t, "doc.pdf")
		ex := &fakeExtractor{docs: map[string][]string{"doc.pdf": pages}}
		outPath := OutputPath(filepath.Join(inDir, "doc.pdf"), outDir)

		_, err := ConvertFile(ex, filepath.Join(inDir, "doc.pdf"), outPath, Options{PageBreak: pageBreak}, &bytes.Buffer{})
		require.NoError(t, err)

		got := readFile(t, outPath)
		sep := Separator(pageBreak)
		chunks := strings.Split(got, sep)
		if pageBreak {
			assert.Len(t, chunks, len(pages))
			assert.Equal(t, len(pages)-1, strings.Count(got, sep))
		}
		assert.Equal(t, strings.Join(pages, sep), got, "no trimming of page text")
	}
}

func TestConvertFile_EmptyPageWarns(t *testing.T) {
	inDir, outDir := setupPDFs(t, "scan.pdf")
	ex := &fakeExtractor{docs: map[string][]string{"scan.pdf": {"first", "  \n\t", "third"}}}
	outPath := OutputPath(filepath.Join(inDir, "scan.pdf"), outDir)

	var log bytes.Buffer
	res, err := ConvertFile(ex, filepath.Join(inDir, "scan.pdf"), outPath, Options{PageBreak: true}, &log)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeConverted, res.Outcome)
	assert.Equal(t, 1, res.EmptyPages)
	assert.Contains(t, log.String(), "[warn] Page 2 in scan.pdf yielded no text")
	got := readFile(t, outPath)
	assert.Equal(t, 2, strings.Count(got, PageBreakSeparator))
	assert.Equal(t, "first\n\n---\n\n  \n\t\n\n---\n\nthird", got)
}

func TestConvertFile_SkipExisting(t *testing.T) {
	inDir, outDir := setupPDFs(t, "a.pdf")
	outPath := OutputPath(filepath.Join(inDir, "a.pdf"), outDir)
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(outPath, []byte("existing"), 0o644))

	ex := &fakeExtractor{docs: map[string][]string{"a.pdf": {"fresh"}}}
	var log bytes.Buffer
	res, err := ConvertFile(ex, filepath.Join(inDir, "a.pdf"), outPath, Options{}, &log)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeSkipped, res.Outcome)
	assert.Equal(t, "existing", readFile(t, outPath))
	assert.Equal(t, 0, ex.opened, "skipped files must not be opened")
	assert.Contains(t, log.String(), "[skip] "+outPath+" exists")
}

func TestConvertFile_Overwrite(t *testing.T) {
	inDir, outDir := setupPDFs(t, "a.pdf")
	outPath := OutputPath(filepath.Join(inDir, "a.pdf"), outDir)
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(outPath, []byte("edited by hand, much longer than the fresh text"), 0o644))

	ex := &fakeExtractor{docs: map[string][]string{"a.pdf": {"fresh"}}}
	res, err := ConvertFile(ex, filepath.Join(inDir, "a.pdf"), outPath, Options{Overwrite: true}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeConverted, res.Outcome)
	assert.Equal(t, "fresh", readFile(t, outPath))
}

func TestConvertFile_CreatesNestedOutputDir(t *testing.T) {
	inDir, outDir := setupPDFs(t, "a.pdf")
	outPath := filepath.Join(outDir, "deep", "er", "a.txt")
	ex := &fakeExtractor{docs: map[string][]string{"a.pdf": {"x"}}}

	_, err := ConvertFile(ex, filepath.Join(inDir, "a.pdf"), outPath, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "x", readFile(t, outPath))
}

func TestConvertFile_Failures(t *testing.T) {
	tests := []struct {
		name      string
		ex        *fakeExtractor
		wantErr   string
		wantClose int
	}{
		{
			name:      "open failure",
			ex:        &fakeExtractor{openErr: map[string]error{"a.pdf": errors.New("no objects found")}},
			wantErr:   "no objects found",
			wantClose: 0,
		},
		{
			name: "page failure mid-document closes handle",
			ex: &fakeExtractor{
				docs:    map[string][]string{"a.pdf": {"ok", "broken"}},
				pageErr: map[string]error{"a.pdf": errors.New("bad content stream")},
			},
			wantErr:   "bad content stream",
			wantClose: 1,
		},
		{
			name:      "invalid utf-8",
			ex:        &fakeExtractor{docs: map[string][]string{"a.pdf": {"caf\xe9"}}},
			wantErr:   ErrInvalidUTF8.Error(),
			wantClose: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inDir, outDir := setupPDFs(t, "a.pdf")
			outPath := OutputPath(filepath.Join(inDir, "a.pdf"), outDir)

			res, err := ConvertFile(tt.ex, filepath.Join(inDir, "a.pdf"), outPath, Options{}, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, types.OutcomeFailed, res.Outcome)
			assert.Equal(t, err.Error(), res.Error)
			assert.Equal(t, tt.wantClose, tt.ex.closed)

			_, statErr := os.Stat(outPath)
			assert.True(t, os.IsNotExist(statErr), "no output for a failed file")
		})
	}
}

func TestConvertBatch(t *testing.T) {
	inDir, outDir := setupPDFs(t, "a.pdf", "b.pdf", "c.pdf", "d.pdf")

	// b is pre-existing and gets skipped; c is corrupt.
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.txt"), []byte("existing"), 0o644))

	ex := &fakeExtractor{
		docs: map[string][]string{
			"a.pdf": {"A1", "A2"},
			"b.pdf": {"B"},
			"d.pdf": {"D"},
		},
		openErr: map[string]error{"c.pdf": errors.New("cannot find startxref")},
	}
	paths := []string{
		filepath.Join(inDir, "a.pdf"),
		filepath.Join(inDir, "b.pdf"),
		filepath.Join(inDir, "c.pdf"),
		filepath.Join(inDir, "d.pdf"),
	}

	var seen []string
	opts := Options{OnFile: func(o types.FileOutcome) { seen = append(seen, filepath.Base(o.Source)) }}

	var log, errLog bytes.Buffer
	result := ConvertBatch(ex, paths, outDir, opts, &log, &errLog)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 4, result.Total())
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}, seen)
	require.Len(t, result.Files, 4)
	assert.Equal(t, types.OutcomeFailed, result.Files[2].Outcome)

	assert.Equal(t, "A1\nA2", readFile(t, filepath.Join(outDir, "a.txt")))
	assert.Equal(t, "existing", readFile(t, filepath.Join(outDir, "b.txt")))
	assert.Equal(t, "D", readFile(t, filepath.Join(outDir, "d.txt")))
	_, err := os.Stat(filepath.Join(outDir, "c.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, errLog.String(), "[error] Failed to process c.pdf: cannot find startxref")
	assert.NotContains(t, log.String(), "[error]")
	assert.Contains(t, log.String(), "Batch summary: 2 converted, 1 skipped, 1 failed (total: 4)")
}

func TestConvertBatch_DotfileKeepsName(t *testing.T) {
	inDir, outDir := setupPDFs(t, ".pdf")
	ex := &fakeExtractor{docs: map[string][]string{".pdf": {"hidden"}}}

	result := ConvertBatch(ex, []string{filepath.Join(inDir, ".pdf")}, outDir, Options{}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Equal(t, 1, result.Converted)
	assert.Equal(t, "hidden", readFile(t, filepath.Join(outDir, ".pdf.txt")))
	_, err := os.Stat(filepath.Join(outDir, ".txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertBatch_Idempotent(t *testing.T) {
	inDir, outDir := setupPDFs(t, "a.pdf")
	paths := []string{filepath.Join(inDir, "a.pdf")}
	ex := &fakeExtractor{docs: map[string][]string{"a.pdf": {"Hello", "World"}}}

	first := ConvertBatch(ex, paths, outDir, Options{PageBreak: true}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Equal(t, 1, first.Converted)
	before := readFile(t, filepath.Join(outDir, "a.txt"))

	// A different extraction result must not leak into the second run.
	ex.docs["a.pdf"] = []string{"Changed"}
	second := ConvertBatch(ex, paths, outDir, Options{PageBreak: true}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, before, readFile(t, filepath.Join(outDir, "a.txt")))
}

func TestConvertBatch_StemCollision(t *testing.T) {
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "text")
	var paths []string
	for _, sub := range []string{"x", "y"} {
		dir := filepath.Join(tmp, sub)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		paths = append(paths, filepath.Join(dir, "report.pdf"))
	}

	calls := 0
	ex := &sequenceExtractor{pages: [][]string{{"from x"}, {"from y"}}, calls: &calls}
	result := ConvertBatch(ex, paths, outDir, Options{Overwrite: true}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, result.Files[0].Target, result.Files[1].Target)
	assert.Equal(t, "from y", readFile(t, filepath.Join(outDir, "report.txt")), "later file wins")
}

// sequenceExtractor serves successive page lists on successive opens.
type sequenceExtractor struct {
	pages [][]string
	calls *int
}

func (s *sequenceExtractor) Name() string { return "sequence" }

func (s *sequenceExtractor) Open(string) (pdftext.Document, error) {
	owner := &fakeExtractor{}
	doc := &fakeDocument{owner: owner, pages: s.pages[*s.calls]}
	*s.calls++
	return doc, nil
}
