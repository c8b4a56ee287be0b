package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() Defaults {
	return Defaults{
		IntervalSeconds:    60,
		SaveDirectory:      "/tmp/shots",
		ImageQuality:       QualityOriginal,
		CompressionQuality: 0.8,
	}
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"), testDefaults())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadReturnsDefaultsOnFirstRun(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 60, p.IntervalSeconds)
	assert.Equal(t, "/tmp/shots", p.SaveDirectory)
	assert.Equal(t, QualityOriginal, p.ImageQuality)
	assert.InDelta(t, 0.8, p.CompressionQuality, 1e-9)
	assert.Equal(t, 0, p.ScreenshotCount)
	assert.False(t, p.IsRunning)
	assert.Equal(t, AnnotationNone, p.AnnotationMode())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Load()
	require.NoError(t, err)

	p.IntervalSeconds = 300
	p.SaveDirectory = "/tmp/elsewhere"
	p.IncludeTimestamp = true
	p.CaptureSound = true
	p.ScreenshotCount = 42
	p.IsRunning = true
	p.ImageQuality = QualityFullHD
	p.CompressionQuality = 0.55
	p.SetPresetAnnotation(true)
	p.PresetAnnotation = "daily standup"

	require.NoError(t, store.Save(p))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSaveRejectsInvalidPreferences(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Load()
	require.NoError(t, err)

	p.CompressionQuality = 2.0
	assert.ErrorIs(t, store.Save(p), ErrInvalidCompression)
}

func TestRunningFlagSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.db")

	store, err := NewSQLiteStore(path, testDefaults())
	require.NoError(t, err)

	p, err := store.Load()
	require.NoError(t, err)
	p.IsRunning = true
	require.NoError(t, store.Save(p))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path, testDefaults())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load()
	require.NoError(t, err)
	assert.True(t, got.IsRunning)
}

func TestStoreCreatesDatabaseDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "prefs.db")

	store, err := NewSQLiteStore(path, testDefaults())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	assert.NoError(t, err)
}
