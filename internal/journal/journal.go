// Package journal persists an audit trail of executed runs: one row per
// run and one row per completed move, in move order.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses recorded in the journal.
const (
	StatusStarted    = "started"
	StatusCommitted  = "committed"
	StatusRolledBack = "rolled_back"
	StatusFailed     = "failed"
)

// Journal is a SQLite-backed move log.
type Journal struct {
	db   *sql.DB
	path string
}

// Move is one recorded move of a run.
type Move struct {
	Src string
	Dst string
	At  time.Time
}

// RunSummary is one journal run row.
type RunSummary struct {
	ID      string
	Root    string
	Mode    string
	Status  string
	Started time.Time
	Moves   int64
}

// DefaultPath returns the journal location:
// $XDG_STATE_HOME/tidy/journal.db, or a temp-dir fallback.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "tidy", "journal.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tidy-journal.db")
	}
	return filepath.Join(home, ".local", "state", "tidy", "journal.db")
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.init(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id       TEXT PRIMARY KEY,
			root     TEXT NOT NULL,
			mode     TEXT NOT NULL,
			status   TEXT NOT NULL,
			started  INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS moves (
			run_id   TEXT NOT NULL REFERENCES runs(id),
			seq      INTEGER NOT NULL,
			src      TEXT NOT NULL,
			dst      TEXT NOT NULL,
			moved_at INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// BeginRun inserts a new run row and returns its generated ID.
func (j *Journal) BeginRun(root, mode string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(
		"INSERT INTO runs (id, root, mode, status, started) VALUES (?, ?, ?, ?, ?)",
		id, root, mode, StatusStarted, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordMoves appends the moves of a run in order, in one transaction.
func (j *Journal) RecordMoves(runID string, moves []Move) error {
	if len(moves) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO moves (run_id, seq, src, dst, moved_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, m := range moves {
		at := m.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.Exec(runID, i, m.Src, m.Dst, at.Unix()); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert move %s: %w", m.Src, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FinishRun records the final status of a run.
func (j *Journal) FinishRun(runID, status string) error {
	_, err := j.db.Exec("UPDATE runs SET status = ? WHERE id = ?", status, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (j *Journal) Runs(limit int) ([]RunSummary, error) {
	rows, err := j.db.Query(`
		SELECT r.id, r.root, r.mode, r.status, r.started, COUNT(m.run_id)
		FROM runs r LEFT JOIN moves m ON m.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started DESC, r.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started int64
		if err := rows.Scan(&r.ID, &r.Root, &r.Mode, &r.Status, &started, &r.Moves); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = time.Unix(started, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Moves returns the recorded moves of a run in move order.
func (j *Journal) Moves(runID string) ([]Move, error) {
	rows, err := j.db.Query(
		"SELECT src, dst, moved_at FROM moves WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		var at int64
		if err := rows.Scan(&m.Src, &m.Dst, &at); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.At = time.Unix(at, 0)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
