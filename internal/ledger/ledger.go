// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records the per-file outcomes of conversion runs in a
// SQLite database so earlier runs can be inspected with `pdf2txt history`.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2txt/pkg/types"
)

const defaultLimit = 20

// Run describes one invocation of the batch converter.
type Run struct {
	ID        string
	StartedAt time.Time
	Backend   types.Backend
	PDFDir    string
	OutputDir string
	Overwrite bool
	PageBreak bool
}

// Entry is a recorded file outcome together with the run it belongs to.
type Entry struct {
	RunID string
	types.FileOutcome
}

// Ledger manages the outcome database.
type Ledger struct {
	db *sql.DB
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			backend TEXT,
			pdf_dir TEXT,
			output_dir TEXT,
			overwrite INTEGER,
			page_break INTEGER,
			converted INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			outcome TEXT NOT NULL,
			pages INTEGER,
			empty_pages INTEGER,
			error TEXT,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_source ON outcomes(source)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts the run row that outcomes will reference.
func (l *Ledger) BeginRun(ctx context.Context, r Run) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, backend, pdf_dir, output_dir, overwrite, page_break)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, formatTime(r.StartedAt), string(r.Backend), r.PDFDir, r.OutputDir,
		boolInt(r.Overwrite), boolInt(r.PageBreak),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

// Record stores one file outcome of run runID.
func (l *Ledger) Record(ctx context.Context, runID string, o types.FileOutcome) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, source, target, outcome, pages, empty_pages, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Source, o.Target, string(o.Outcome), o.Pages, o.EmptyPages, o.Error, formatTime(o.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("recording outcome for %s: %w", o.Source, err)
	}
	return nil
}

// FinishRun stores the final counts of run runID.
func (l *Ledger) FinishRun(ctx context.Context, runID string, finished time.Time, converted, skipped, failed int) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, failed = ? WHERE id = ?`,
		formatTime(finished), converted, skipped, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing run %s: no such run", runID)
	}
	return nil
}

// Recent returns up to limit outcomes, newest first. A non-positive limit
// uses the default of 20.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, source, target, outcome, pages, empty_pages, COALESCE(error, ''), COALESCE(finished_at, '')
		 FROM outcomes ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var outcome, finished string
		if err := rows.Scan(&e.RunID, &e.Source, &e.Target, &outcome, &e.Pages, &e.EmptyPages, &e.Error, &finished); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		e.Outcome = types.Outcome(outcome)
		if finished != "" {
			t, err := time.Parse(time.RFC3339Nano, finished)
			if err != nil {
				return nil, fmt.Errorf("parsing finished_at %q: %w", finished, err)
			}
			e.FinishedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
