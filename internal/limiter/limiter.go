package limiter

import (
	"sync"
)

// CaptureGate serializes capture work. The scheduler fires on a repeating
// timer; a tick that lands while the previous capture is still being
// processed must be skipped, never queued.
type CaptureGate struct {
	mu     sync.Mutex
	active bool
}

// NewCaptureGate creates a new capture gate
func NewCaptureGate() *CaptureGate {
	return &CaptureGate{}
}

// TryAcquire attempts to claim the single capture slot
// Returns false if a capture is already in flight
func (g *CaptureGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		return false
	}
	g.active = true
	return true
}

// Release frees the capture slot
func (g *CaptureGate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = false
}

// Active reports whether a capture is currently in flight
func (g *CaptureGate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}
