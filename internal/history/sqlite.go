package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite for persistence
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed capture log
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	// Create captures table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS captures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			captured_at DATETIME NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			size_bytes INTEGER NOT NULL,
			annotated INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create captures table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Add appends a capture record
func (s *SQLiteStore) Add(rec Record) error {
	_, err := s.db.Exec(`
		INSERT INTO captures (filename, path, captured_at, width, height, size_bytes, annotated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Filename, rec.Path, rec.Timestamp, rec.Width, rec.Height, rec.SizeBytes, rec.Annotated)

	if err != nil {
		return fmt.Errorf("add capture record: %w", err)
	}
	return nil
}

// Recent returns the newest n records, newest first
func (s *SQLiteStore) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, path, captured_at, width, height, size_bytes, annotated
		FROM captures ORDER BY id DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent captures: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Filename,
			&rec.Path,
			&rec.Timestamp,
			&rec.Width,
			&rec.Height,
			&rec.SizeBytes,
			&rec.Annotated,
		); err != nil {
			return nil, fmt.Errorf("scan capture record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate capture records: %w", err)
	}

	return records, nil
}

// Stats returns totals over the whole log
func (s *SQLiteStore) Stats() (*Stats, error) {
	var stats Stats
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM captures
	`).Scan(&stats.TotalCaptures, &stats.TotalSizeBytes)

	if err != nil {
		return nil, fmt.Errorf("query capture stats: %w", err)
	}
	return &stats, nil
}

// Close releases database resources
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
