package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"

	"screensnap/internal/prefs"
)

// Processor turns a raw capture into a JPEG on disk: optional annotation
// overlay first, then resize to the quality tier, then compression.
type Processor struct {
	logger *slog.Logger
	face   *overlayFace
}

// Result describes one processed capture
type Result struct {
	Data      []byte
	Width     int
	Height    int
	Annotated bool
}

// New creates a new image processor
func New(logger *slog.Logger) (*Processor, error) {
	face, err := newOverlayFace()
	if err != nil {
		return nil, fmt.Errorf("load overlay font: %w", err)
	}
	return &Processor{
		logger: logger,
		face:   face,
	}, nil
}

// Process applies the full transform: annotate, resize, encode
func (p *Processor) Process(img image.Image, annotation string, quality prefs.Quality, compression float64) (*Result, error) {
	annotated := false
	if annotation != "" {
		img = p.Annotate(img, annotation)
		annotated = true
	}

	img = p.Resize(img, quality)

	data, err := p.EncodeJPEG(img, compression)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	p.logger.Debug("capture transformed",
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"bytes", len(data),
		"annotated", annotated,
	)

	return &Result{
		Data:      data,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Annotated: annotated,
	}, nil
}

// Resize scales the image down to the tier's maximum width, preserving
// aspect ratio. Sources at or below the limit pass through unchanged, and
// tiers without a limit never touch the bitmap.
func (p *Processor) Resize(img image.Image, quality prefs.Quality) image.Image {
	maxWidth, limited := quality.MaxWidth()
	if !limited {
		return img
	}

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW <= maxWidth {
		return img
	}

	scale := float64(maxWidth) / float64(srcW)
	dstH := int(math.Round(float64(srcH) * scale))
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// EncodeJPEG compresses the image with the given factor in [0, 1]
func (p *Processor) EncodeJPEG(img image.Image, compression float64) ([]byte, error) {
	quality := int(math.Round(compression * 100))
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: quality}
	if err := jpeg.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// Filename builds the output name for a capture. With timestamps enabled
// the name carries the capture time, otherwise the running counter.
func Filename(ts time.Time, counter int, includeTimestamp bool) string {
	if includeTimestamp {
		return fmt.Sprintf("screenshot_%s.jpg", ts.Format("2006-01-02_15-04-05"))
	}
	return fmt.Sprintf("screenshot_%d.jpg", counter)
}

// Save writes the JPEG into dir, creating the directory if absent
func (p *Processor) Save(data []byte, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}
