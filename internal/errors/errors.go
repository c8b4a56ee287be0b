package errors

import (
	"errors"
)

// StageError tags a failure with the pipeline stage that produced it.
// All stage failures abandon the current tick; Transient marks failures
// that are expected to clear by the next tick.
type StageError struct {
	Err       error
	Stage     string
	Transient bool
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Predefined errors
var (
	ErrUnsupportedPlatform = &StageError{
		Err:       errors.New("screen capture not supported on this platform"),
		Stage:     "capture",
		Transient: false,
	}

	ErrNoCaptureTool = &StageError{
		Err:       errors.New("no screenshot tool found in PATH"),
		Stage:     "capture",
		Transient: false,
	}

	ErrEmptyCapture = &StageError{
		Err:       errors.New("capture produced no image data"),
		Stage:     "capture",
		Transient: true,
	}

	ErrDecodeFailed = &StageError{
		Err:       errors.New("captured bitmap could not be decoded"),
		Stage:     "decode",
		Transient: true,
	}

	ErrCaptureBusy = &StageError{
		Err:       errors.New("previous capture still in progress"),
		Stage:     "schedule",
		Transient: true,
	}
)

// Wrap tags a technical error with its pipeline stage
func Wrap(err error, stage string, transient bool) *StageError {
	return &StageError{
		Err:       err,
		Stage:     stage,
		Transient: transient,
	}
}

// StageOf extracts the pipeline stage from an error
func StageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return "unknown"
}

// IsTransient checks if an error is expected to clear on its own
func IsTransient(err error) bool {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Transient
	}
	return false
}
