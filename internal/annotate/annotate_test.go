package annotate

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screensnap/internal/prefs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNoneNeverAnnotates(t *testing.T) {
	text, err := None{}.Annotation(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestPresetAnnotatesEveryCall(t *testing.T) {
	src := Preset{Text: "nightly build"}

	for i := 0; i < 5; i++ {
		text, err := src.Annotation(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "nightly build", text)
	}
}

func TestPromptReadsLine(t *testing.T) {
	var out strings.Builder
	src := NewPrompt(strings.NewReader("reviewing PRs\n"), &out, time.Second, testLogger())

	text, err := src.Annotation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "reviewing PRs", text)
	assert.Contains(t, out.String(), "annotation:")
}

func TestPromptKeepsOneLineOfTypeAhead(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewPrompt(pr, io.Discard, 50*time.Millisecond, testLogger())

	// Typed well before any capture asks for it
	go pw.Write([]byte("early note\nsecond line\nthird line\n"))
	time.Sleep(20 * time.Millisecond)

	// The first buffered line annotates the next capture
	text, err := src.Annotation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "early note", text)
}

func TestPromptTimesOutToEmpty(t *testing.T) {
	pr, _ := io.Pipe()
	var out strings.Builder
	src := NewPrompt(pr, &out, 20*time.Millisecond, testLogger())

	text, err := src.Annotation(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestPromptHonorsContextCancellation(t *testing.T) {
	pr, _ := io.Pipe()
	src := NewPrompt(pr, io.Discard, time.Minute, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Annotation(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForPreferencesMapsModes(t *testing.T) {
	prompt := NewPrompt(strings.NewReader(""), io.Discard, time.Second, testLogger())

	p := &prefs.Preferences{}
	assert.IsType(t, None{}, ForPreferences(p, prompt))

	p.SetManualAnnotation(true)
	assert.Equal(t, prompt, ForPreferences(p, prompt))

	p.SetPresetAnnotation(true)
	p.PresetAnnotation = "standup"
	assert.Equal(t, Preset{Text: "standup"}, ForPreferences(p, prompt))
}

func TestForPreferencesEmptyPresetFallsBackToNone(t *testing.T) {
	p := &prefs.Preferences{PresetAnnotation: "   "}
	p.SetPresetAnnotation(true)

	assert.IsType(t, None{}, ForPreferences(p, nil))
}

func TestForPreferencesManualWithoutPromptSource(t *testing.T) {
	p := &prefs.Preferences{}
	p.SetManualAnnotation(true)

	assert.IsType(t, None{}, ForPreferences(p, nil))
}
