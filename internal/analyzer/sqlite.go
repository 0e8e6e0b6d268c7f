package analyzer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS records (
	record_id        INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id       TEXT NOT NULL,
	file             TEXT NOT NULL,
	chunk            INTEGER NOT NULL,
	code             TEXT NOT NULL,
	mermaid_markdown TEXT NOT NULL,
	written_at       TEXT NOT NULL
)`

const createRecordsIndex = `CREATE INDEX IF NOT EXISTS idx_records_file ON records(file, chunk)`

// SQLiteWriter appends records to a SQLite database.
// Rows are never replaced; every writer stamps its rows with its own session ID.
type SQLiteWriter struct {
	mu        sync.Mutex
	db        *sql.DB
	sessionID string
}

// NewSQLiteWriter opens (or creates) the database at path and ensures the records table exists.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// writes are serialized by mu
	db.SetMaxOpenConns(1)

	for _, ddl := range []string{createRecordsTable, createRecordsIndex} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteWriter{db: db, sessionID: uuid.New().String()}, nil
}

// SessionID identifies the rows written through this writer.
func (w *SQLiteWriter) SessionID() string {
	return w.sessionID
}

// Write inserts the records of one file in a single transaction.
func (w *SQLiteWriter) Write(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	writtenAt := time.Now().UTC().Format(time.RFC3339)
	insert := sq.Insert("records").
		Columns("session_id", "file", "chunk", "code", "mermaid_markdown", "written_at")
	for _, r := range records {
		insert = insert.Values(w.sessionID, r.File, r.Chunk, r.Code, r.MermaidMarkdown, writtenAt)
	}

	if _, err := insert.RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("failed to insert records for %s: %w", records[0].File, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// Records returns the stored records of file in insertion order.
func (w *SQLiteWriter) Records(file string) ([]Record, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := sq.Select("file", "chunk", "code", "mermaid_markdown").
		From("records").
		Where(sq.Eq{"file": file}).
		OrderBy("record_id").
		PlaceholderFormat(sq.Question).
		RunWith(w.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.File, &r.Chunk, &r.Code, &r.MermaidMarkdown); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database.
func (w *SQLiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db.Close()
}

// NewSink opens the sink for path: SQLite for .db, .sqlite and .sqlite3 files, JSONL otherwise.
func NewSink(path string) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		w, err := NewSQLiteWriter(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		w, err := NewJSONLWriter(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
