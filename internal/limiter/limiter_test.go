package limiter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateSingleSlot(t *testing.T) {
	g := NewCaptureGate()

	assert.True(t, g.TryAcquire())
	assert.False(t, g.TryAcquire(), "second acquire must fail while held")
	assert.True(t, g.Active())

	g.Release()
	assert.False(t, g.Active())
	assert.True(t, g.TryAcquire())
}

func TestGateReleaseWithoutAcquire(t *testing.T) {
	g := NewCaptureGate()

	g.Release()
	assert.False(t, g.Active())
	assert.True(t, g.TryAcquire())
}

func TestGateConcurrentAcquire(t *testing.T) {
	g := NewCaptureGate()

	const attempts = 50
	var wg sync.WaitGroup
	won := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				won <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(won)

	count := 0
	for range won {
		count++
	}
	assert.Equal(t, 1, count, "exactly one goroutine may hold the gate")
}
