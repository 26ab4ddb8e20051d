package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/crimson-sun/stepwise/internal/model"
)

// Store archives command info documents in a SQLite database: one row per
// run, one row per normalized entry. The archive is the system of record
// for audits of past test sessions.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the archive database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		run_id       TEXT PRIMARY KEY,
		source       TEXT NOT NULL,
		processed_at TEXT NOT NULL,
		warnings     TEXT
	);
	CREATE TABLE IF NOT EXISTS entries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL REFERENCES runs(run_id),
		step       TEXT NOT NULL,
		step_order INTEGER NOT NULL,
		sequence   INTEGER NOT NULL,
		commands   TEXT NOT NULL,
		exec_info  TEXT NOT NULL,
		exec_res   TEXT NOT NULL,
		expect     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id, step_order, sequence);`)
	if err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// Write archives the document in one transaction.
func (s *Store) Write(ctx context.Context, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	warnings, err := json.Marshal(doc.Warnings)
	if err != nil {
		return fmt.Errorf("store: marshal warnings: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, source, processed_at, warnings) VALUES (?, ?, ?, ?)`,
		doc.RunID, doc.Source, doc.ProcessedAt.UTC().Format(time.RFC3339Nano), string(warnings),
	); err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	for order, sc := range doc.Steps {
		for _, e := range sc.Entries {
			commands, err := json.Marshal(e.Commands)
			if err != nil {
				return fmt.Errorf("store: marshal commands: %w", err)
			}
			expect, err := json.Marshal(e.Expect)
			if err != nil {
				return fmt.Errorf("store: marshal expect: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO entries (run_id, step, step_order, sequence, commands, exec_info, exec_res, expect)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				doc.RunID, sc.Step, order, e.Sequence, string(commands), e.ExecInfo, e.ExecRes, string(expect),
			); err != nil {
				return fmt.Errorf("store: insert entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Load reconstructs an archived document by run ID. Steps come back in
// their original first-appearance order.
func (s *Store) Load(ctx context.Context, runID string) (model.Document, error) {
	var doc model.Document
	var processedAt, warnings string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, source, processed_at, warnings FROM runs WHERE run_id = ?`, runID,
	).Scan(&doc.RunID, &doc.Source, &processedAt, &warnings)
	if err != nil {
		return model.Document{}, fmt.Errorf("store: load run %s: %w", runID, err)
	}
	if doc.ProcessedAt, err = time.Parse(time.RFC3339Nano, processedAt); err != nil {
		return model.Document{}, fmt.Errorf("store: run %s: bad timestamp: %w", runID, err)
	}
	if warnings != "" {
		if err := json.Unmarshal([]byte(warnings), &doc.Warnings); err != nil {
			return model.Document{}, fmt.Errorf("store: run %s: bad warnings: %w", runID, err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT step, sequence, commands, exec_info, exec_res, expect
		 FROM entries WHERE run_id = ? ORDER BY step_order, sequence`, runID)
	if err != nil {
		return model.Document{}, fmt.Errorf("store: load entries %s: %w", runID, err)
	}
	defer rows.Close()

	doc.Steps = model.StepList{}
	for rows.Next() {
		var step, commands, expect string
		var e model.CommandEntry
		if err := rows.Scan(&step, &e.Sequence, &commands, &e.ExecInfo, &e.ExecRes, &expect); err != nil {
			return model.Document{}, fmt.Errorf("store: scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(commands), &e.Commands); err != nil {
			return model.Document{}, fmt.Errorf("store: bad commands column: %w", err)
		}
		if err := json.Unmarshal([]byte(expect), &e.Expect); err != nil {
			return model.Document{}, fmt.Errorf("store: bad expect column: %w", err)
		}
		if n := len(doc.Steps); n == 0 || doc.Steps[n-1].Step != step {
			doc.Steps = append(doc.Steps, model.StepCommands{Step: step})
		}
		last := &doc.Steps[len(doc.Steps)-1]
		last.Entries = append(last.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return model.Document{}, fmt.Errorf("store: iterate entries: %w", err)
	}
	return doc, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
