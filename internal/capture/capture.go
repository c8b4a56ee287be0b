package capture

import (
	"context"
	"image"
	"os"
	"time"
)

// Capture is one screenshot pulled into memory. The temp file backing it
// is owned by the capture and removed by Discard once processing is done.
type Capture struct {
	Image     image.Image
	TempPath  string
	Timestamp time.Time
}

// Discard removes the temporary capture file, best-effort
func (c *Capture) Discard() {
	if c.TempPath != "" {
		os.Remove(c.TempPath)
	}
}

// Options control a single capture invocation
type Options struct {
	// Sound plays the OS shutter sound where the platform tool supports it
	Sound bool
}

// Capturer abstracts the platform screenshot facility
type Capturer interface {
	// Capture grabs the screen and returns the decoded bitmap.
	// The external tool runs synchronously under ctx.
	Capture(ctx context.Context, opts Options) (*Capture, error)
}
