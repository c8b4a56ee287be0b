package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Fixed preference keys. These are the only rows the store ever holds.
const (
	keyInterval            = "interval"
	keySaveDirectory       = "saveDirectory"
	keyIncludeTimestamp    = "includeTimestamp"
	keyCaptureSound        = "captureSound"
	keyScreenshotCount     = "screenshotCount"
	keyIsRunning           = "isRunning"
	keyImageQuality        = "imageQuality"
	keyCompressionQuality  = "compressionQuality"
	keyEnableAnnotation    = "enableAnnotation"
	keyPresetAnnotation    = "presetAnnotation"
	keyUsePresetAnnotation = "usePresetAnnotation"
)

// SQLiteStore implements Store using SQLite for persistence
type SQLiteStore struct {
	db       *sql.DB
	defaults Defaults
}

// NewSQLiteStore creates a new SQLite-backed preference store
func NewSQLiteStore(dbPath string, defaults Defaults) (*SQLiteStore, error) {
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

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db, defaults: defaults}, nil
}

// Load retrieves preferences, filling in defaults for any missing key
func (s *SQLiteStore) Load() (*Preferences, error) {
	rows, err := s.db.Query("SELECT key, value FROM preferences")
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan preference row: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preference rows: %w", err)
	}

	p := &Preferences{
		IntervalSeconds:    s.defaults.IntervalSeconds,
		SaveDirectory:      s.defaults.SaveDirectory,
		ImageQuality:       s.defaults.ImageQuality,
		CompressionQuality: s.defaults.CompressionQuality,
	}

	if v, ok := values[keyInterval]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.IntervalSeconds = n
		}
	}
	if v, ok := values[keySaveDirectory]; ok {
		p.SaveDirectory = v
	}
	if v, ok := values[keyIncludeTimestamp]; ok {
		p.IncludeTimestamp = v == "true"
	}
	if v, ok := values[keyCaptureSound]; ok {
		p.CaptureSound = v == "true"
	}
	if v, ok := values[keyScreenshotCount]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.ScreenshotCount = n
		}
	}
	if v, ok := values[keyIsRunning]; ok {
		p.IsRunning = v == "true"
	}
	if v, ok := values[keyImageQuality]; ok {
		if q, err := ParseQuality(v); err == nil {
			p.ImageQuality = q
		}
	}
	if v, ok := values[keyCompressionQuality]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.CompressionQuality = f
		}
	}
	if v, ok := values[keyEnableAnnotation]; ok {
		p.EnableAnnotation = v == "true"
	}
	if v, ok := values[keyPresetAnnotation]; ok {
		p.PresetAnnotation = v
	}
	if v, ok := values[keyUsePresetAnnotation]; ok {
		p.UsePresetAnnotation = v == "true"
	}

	return p, nil
}

// Save persists the full preference set using upserts in one transaction
func (s *SQLiteStore) Save(p *Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO preferences (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	pairs := map[string]string{
		keyInterval:            strconv.Itoa(p.IntervalSeconds),
		keySaveDirectory:       p.SaveDirectory,
		keyIncludeTimestamp:    strconv.FormatBool(p.IncludeTimestamp),
		keyCaptureSound:        strconv.FormatBool(p.CaptureSound),
		keyScreenshotCount:     strconv.Itoa(p.ScreenshotCount),
		keyIsRunning:           strconv.FormatBool(p.IsRunning),
		keyImageQuality:        p.ImageQuality.String(),
		keyCompressionQuality:  strconv.FormatFloat(p.CompressionQuality, 'f', -1, 64),
		keyEnableAnnotation:    strconv.FormatBool(p.EnableAnnotation),
		keyPresetAnnotation:    p.PresetAnnotation,
		keyUsePresetAnnotation: strconv.FormatBool(p.UsePresetAnnotation),
	}
	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("save preference %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

// Close releases database resources
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
