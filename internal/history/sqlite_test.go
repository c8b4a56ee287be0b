package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(n int) Record {
	return Record{
		Filename:  fmt.Sprintf("screenshot_%d.jpg", n),
		Path:      fmt.Sprintf("/tmp/shots/screenshot_%d.jpg", n),
		Timestamp: time.Date(2025, 6, 1, 12, 0, n, 0, time.UTC),
		Width:     1920,
		Height:    1080,
		SizeBytes: int64(1000 + n),
		Annotated: n%2 == 0,
	}
}

func TestAddAndRecent(t *testing.T) {
	store := newTestStore(t)

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Add(sampleRecord(i)))
	}

	records, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first
	assert.Equal(t, "screenshot_5.jpg", records[0].Filename)
	assert.Equal(t, "screenshot_4.jpg", records[1].Filename)
	assert.Equal(t, "screenshot_3.jpg", records[2].Filename)
	assert.Equal(t, int64(1005), records[0].SizeBytes)
	assert.False(t, records[0].Annotated)
	assert.True(t, records[1].Annotated)
}

func TestRecentOnEmptyLog(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStats(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCaptures)
	assert.Equal(t, int64(0), stats.TotalSizeBytes)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Add(sampleRecord(i)))
	}

	stats, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCaptures)
	assert.Equal(t, int64(3006), stats.TotalSizeBytes)
}
