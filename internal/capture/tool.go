package capture

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	apperrors "screensnap/internal/errors"
)

// linuxTools lists screenshot commands in preference order. The first one
// found in PATH wins.
var linuxTools = []struct {
	name string
	args func(outPath string) []string
}{
	{"gnome-screenshot", func(p string) []string { return []string{"-f", p} }},
	{"spectacle", func(p string) []string { return []string{"-b", "-n", "-o", p} }},
	{"scrot", func(p string) []string { return []string{p} }},
	{"grim", func(p string) []string { return []string{p} }},
}

// Tool captures the screen by shelling out to the platform screenshot
// command and decoding its PNG output.
type Tool struct {
	logger   *slog.Logger
	tempDir  string
	lookPath func(string) (string, error)
}

// NewTool creates a capturer backed by the OS screenshot command
func NewTool(logger *slog.Logger) *Tool {
	return &Tool{
		logger:   logger,
		tempDir:  os.TempDir(),
		lookPath: exec.LookPath,
	}
}

// Capture runs the screenshot tool and decodes the result
func (t *Tool) Capture(ctx context.Context, opts Options) (*Capture, error) {
	outPath := filepath.Join(t.tempDir, "screensnap_"+uuid.New().String()+".png")

	name, args, err := t.command(runtime.GOOS, outPath, opts)
	if err != nil {
		return nil, err
	}

	taken := time.Now()
	t.logger.Debug("invoking screenshot tool", "tool", name, "output", outPath)

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outPath)
		return nil, apperrors.Wrap(
			fmt.Errorf("run %s: %w (output: %s)", name, err, out), "capture", true)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return nil, apperrors.ErrEmptyCapture
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		os.Remove(outPath)
		return nil, apperrors.ErrDecodeFailed
	}

	return &Capture{
		Image:     img,
		TempPath:  outPath,
		Timestamp: taken,
	}, nil
}

// command resolves the platform screenshot invocation for outPath
func (t *Tool) command(goos, outPath string, opts Options) (string, []string, error) {
	switch goos {
	case "darwin":
		// -x mutes the shutter sound; -t forces PNG output
		args := []string{"-t", "png"}
		if !opts.Sound {
			args = append(args, "-x")
		}
		return "screencapture", append(args, outPath), nil

	case "linux":
		for _, tool := range linuxTools {
			if _, err := t.lookPath(tool.name); err == nil {
				return tool.name, tool.args(outPath), nil
			}
		}
		return "", nil, apperrors.ErrNoCaptureTool

	default:
		return "", nil, apperrors.ErrUnsupportedPlatform
	}
}
