package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screensnap/internal/annotate"
	"screensnap/internal/capture"
	"screensnap/internal/config"
	"screensnap/internal/history"
	"screensnap/internal/limiter"
	"screensnap/internal/prefs"
	"screensnap/internal/processor"
	"screensnap/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	var logLevel slog.Level
	switch cfg.Logging.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Logging.JSONFormat {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Create root context with cancellation
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Open preference store
	store, err := prefs.NewSQLiteStore(cfg.Database.Path, prefs.Defaults{
		IntervalSeconds:    cfg.Capture.DefaultInterval,
		SaveDirectory:      cfg.Capture.DefaultSaveDir,
		ImageQuality:       prefs.QualityOriginal,
		CompressionQuality: 0.8,
	})
	if err != nil {
		logger.Error("failed to open preference store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Open capture log
	capLog, err := history.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open capture log", "error", err)
		os.Exit(1)
	}
	defer capLog.Close()

	// Initialize image processor
	proc, err := processor.New(logger)
	if err != nil {
		logger.Error("failed to create image processor", "error", err)
		os.Exit(1)
	}

	// Manual annotations come from stdin, bounded by the prompt timeout
	prompt := annotate.NewPrompt(os.Stdin, os.Stdout, cfg.Capture.PromptTimeout, logger)

	runner := scheduler.NewRunner(
		store,
		capture.NewTool(logger),
		proc,
		capLog,
		limiter.NewCaptureGate(),
		prompt,
		cfg.Capture.ResumeDelay,
		logger,
	)

	// Auto-resume if the previous run was left running
	if err := runner.Resume(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("failed to resume capture", "error", err)
		os.Exit(1)
	}

	// Without a resumed session the loop starts fresh, unless disabled
	if runner.State() == scheduler.StateStopped && cfg.Capture.Autostart {
		if err := runner.Start(rootCtx); err != nil {
			logger.Error("failed to start capture loop", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("screensnap started",
		"state", runner.State().String(),
		"database", cfg.Database.Path,
		"save_dir", cfg.Capture.DefaultSaveDir,
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig)

	// Stop via Shutdown rather than Stop: the persisted running flag must
	// survive so the next start auto-resumes
	rootCancel()

	shutdownTimeout := 10 * time.Second
	done := make(chan struct{})
	go func() {
		runner.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("graceful shutdown complete")
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timeout exceeded, forcing exit")
	}
}
