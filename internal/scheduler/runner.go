package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"screensnap/internal/annotate"
	"screensnap/internal/capture"
	apperrors "screensnap/internal/errors"
	"screensnap/internal/history"
	"screensnap/internal/limiter"
	"screensnap/internal/prefs"
	"screensnap/internal/processor"
)

// State is the run state of the capture loop
type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

var (
	ErrAlreadyRunning = errors.New("capture loop already running")
	ErrNotRunning     = errors.New("capture loop not running")
)

// Runner drives the periodic capture pipeline. Stopped to Running arms a
// repeating ticker at the preference interval; Running to Stopped cancels
// it. Each tick runs capture, annotate, resize, compress, persist. A tick
// whose stage fails is logged and abandoned.
type Runner struct {
	store     prefs.Store
	capturer  capture.Capturer
	processor *processor.Processor
	history   history.Store
	gate      *limiter.CaptureGate
	prompt    annotate.Source
	logger    *slog.Logger

	resumeDelay time.Duration

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	done     chan struct{}
	rearm    chan time.Duration
}

// NewRunner creates a new capture runner
func NewRunner(
	store prefs.Store,
	capturer capture.Capturer,
	proc *processor.Processor,
	hist history.Store,
	gate *limiter.CaptureGate,
	prompt annotate.Source,
	resumeDelay time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		store:       store,
		capturer:    capturer,
		processor:   proc,
		history:     hist,
		gate:        gate,
		prompt:      prompt,
		resumeDelay: resumeDelay,
		logger:      logger,
		rearm:       make(chan time.Duration, 1),
	}
}

// State reports the current run state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start arms the capture loop at the preference interval, creating the
// save directory if missing and persisting the running flag
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	p, err := r.store.Load()
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("load preferences: %w", err)
	}

	if err := os.MkdirAll(p.SaveDirectory, 0755); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("create save directory: %w", err)
	}

	p.IsRunning = true
	if err := r.store.Save(p); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("persist running state: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.state = StateRunning
	interval := time.Duration(p.IntervalSeconds) * time.Second
	r.mu.Unlock()

	go r.run(runCtx, interval, r.done)

	r.logger.Info("capture loop started",
		"interval", interval,
		"directory", p.SaveDirectory,
		"quality", p.ImageQuality.String(),
		"annotation", p.AnnotationMode().String(),
	)
	return nil
}

// Stop cancels the ticker and persists the stopped state
func (r *Runner) Stop() error {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return ErrNotRunning
	}
	cancel := r.cancel
	done := r.done
	r.state = StateStopped
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	<-done

	p, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	p.IsRunning = false
	if err := r.store.Save(p); err != nil {
		return fmt.Errorf("persist stopped state: %w", err)
	}

	r.logger.Info("capture loop stopped")
	return nil
}

// Shutdown halts the loop without clearing the persisted running flag,
// so the next process start auto-resumes
func (r *Runner) Shutdown() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	done := r.done
	r.state = StateStopped
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	<-done
	r.logger.Info("capture loop halted for shutdown")
}

// Resume restarts the loop when a previous run left the persisted running
// flag set. A short delay lets process startup settle first.
func (r *Runner) Resume(ctx context.Context) error {
	p, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if !p.IsRunning {
		return nil
	}

	r.logger.Info("resuming capture after restart", "delay", r.resumeDelay)
	select {
	case <-time.After(r.resumeDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.Start(ctx)
}

// SetInterval updates the capture interval and re-arms the ticker when
// the loop is running
func (r *Runner) SetInterval(seconds int) error {
	p, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	p.IntervalSeconds = seconds
	if err := r.store.Save(p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return nil
	}

	// Replace any pending re-arm so the newest interval wins. Senders hold
	// the mutex, so the buffered send cannot block after the drain.
	select {
	case <-r.rearm:
	default:
	}
	r.rearm <- time.Duration(seconds) * time.Second
	return nil
}

// CaptureNow runs one capture outside the schedule. Returns ErrCaptureBusy
// when a scheduled capture is already in flight.
func (r *Runner) CaptureNow(ctx context.Context) error {
	return r.captureOnce(ctx)
}

func (r *Runner) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-r.rearm:
			ticker.Reset(d)
			r.logger.Info("capture interval changed", "interval", d)
		case <-ticker.C:
			if err := r.captureOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Warn("capture tick abandoned",
					"stage", apperrors.StageOf(err),
					"transient", apperrors.IsTransient(err),
					"error", err,
				)
			}
		}
	}
}

// captureOnce runs one full pipeline pass. Any failing stage abandons the
// tick; the loop keeps running.
func (r *Runner) captureOnce(ctx context.Context) error {
	if !r.gate.TryAcquire() {
		return apperrors.ErrCaptureBusy
	}
	defer r.gate.Release()

	p, err := r.store.Load()
	if err != nil {
		return apperrors.Wrap(err, "preferences", true)
	}

	shot, err := r.capturer.Capture(ctx, capture.Options{Sound: p.CaptureSound})
	if err != nil {
		return err
	}
	defer shot.Discard()

	text := ""
	source := annotate.ForPreferences(p, r.prompt)
	if text, err = source.Annotation(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Debug("annotation unavailable, capturing without note", "error", err)
		text = ""
	}

	result, err := r.processor.Process(shot.Image, text, p.ImageQuality, p.CompressionQuality)
	if err != nil {
		return apperrors.Wrap(err, "transform", true)
	}

	count := p.ScreenshotCount + 1
	name := processor.Filename(shot.Timestamp, count, p.IncludeTimestamp)
	path, err := r.processor.Save(result.Data, p.SaveDirectory, name)
	if err != nil {
		return apperrors.Wrap(err, "persist", true)
	}

	// Re-load before persisting the counter: saving the stale snapshot from
	// the top of the tick would clobber preference mutations made while the
	// capture was in flight. The gate serializes counter writers.
	if fresh, err := r.store.Load(); err != nil {
		r.logger.Warn("failed to persist screenshot counter", "error", err)
	} else {
		fresh.ScreenshotCount = count
		if err := r.store.Save(fresh); err != nil {
			r.logger.Warn("failed to persist screenshot counter", "error", err)
		}
	}

	if r.history != nil {
		rec := history.Record{
			Filename:  name,
			Path:      path,
			Timestamp: shot.Timestamp,
			Width:     result.Width,
			Height:    result.Height,
			SizeBytes: int64(len(result.Data)),
			Annotated: result.Annotated,
		}
		if err := r.history.Add(rec); err != nil {
			r.logger.Warn("failed to record capture history", "error", err)
		}
	}

	r.logger.Info("screenshot saved",
		"file", path,
		"bytes", len(result.Data),
		"size", fmt.Sprintf("%dx%d", result.Width, result.Height),
		"annotated", result.Annotated,
	)
	return nil
}
