// Package annotate supplies per-capture annotation text for the three
// modes: none, preset (a fixed string on every capture) and manual
// (a user-entered note before each capture).
package annotate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"screensnap/internal/prefs"
)

// Source supplies the annotation text for one capture. An empty string
// means the capture proceeds without an overlay.
type Source interface {
	Annotation(ctx context.Context) (string, error)
}

// None never annotates
type None struct{}

func (None) Annotation(context.Context) (string, error) {
	return "", nil
}

// Preset stamps the same text on every capture without prompting
type Preset struct {
	Text string
}

func (p Preset) Annotation(context.Context) (string, error) {
	return p.Text, nil
}

// Prompt asks for a one-line note before each capture. If no line arrives
// within the timeout the capture proceeds unannotated.
type Prompt struct {
	out     io.Writer
	lines   chan string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPrompt creates a prompt source reading lines from r
func NewPrompt(r io.Reader, out io.Writer, timeout time.Duration, logger *slog.Logger) *Prompt {
	p := &Prompt{
		out:     out,
		lines:   make(chan string, 1),
		timeout: timeout,
		logger:  logger,
	}

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case p.lines <- scanner.Text():
				// One line of type-ahead is kept and annotates the
				// next capture
			default:
				// Buffer already holds a pending line, toss this one
			}
		}
	}()

	return p
}

func (p *Prompt) Annotation(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "annotation: ")

	select {
	case line := <-p.lines:
		return strings.TrimSpace(line), nil
	case <-time.After(p.timeout):
		p.logger.Debug("annotation prompt timed out, capturing without note")
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ForPreferences maps the annotation mode in p to a source. The prompt
// source is used for manual mode; pass nil to disable prompting.
func ForPreferences(p *prefs.Preferences, prompt Source) Source {
	switch p.AnnotationMode() {
	case prefs.AnnotationManual:
		if prompt == nil {
			return None{}
		}
		return prompt
	case prefs.AnnotationPreset:
		if strings.TrimSpace(p.PresetAnnotation) == "" {
			return None{}
		}
		return Preset{Text: p.PresetAnnotation}
	default:
		return None{}
	}
}
