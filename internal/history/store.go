package history

import "time"

// Record describes one screenshot written to disk
type Record struct {
	ID        int64
	Filename  string
	Path      string
	Timestamp time.Time
	Width     int
	Height    int
	SizeBytes int64
	Annotated bool
}

// Stats summarizes the capture log
type Stats struct {
	TotalCaptures  int
	TotalSizeBytes int64
}

// Store defines the interface for capture log persistence
type Store interface {
	// Add appends a capture record
	Add(rec Record) error

	// Recent returns the newest n records, newest first
	Recent(n int) ([]Record, error)

	// Stats returns totals over the whole log
	Stats() (*Stats, error)

	// Close releases resources
	Close() error
}
