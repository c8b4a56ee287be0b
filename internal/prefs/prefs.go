package prefs

import "errors"

// ErrInvalidCompression indicates a compression factor outside [0, 1]
var ErrInvalidCompression = errors.New("compression quality must be between 0.0 and 1.0")

// ErrInvalidInterval indicates a non-positive capture interval
var ErrInvalidInterval = errors.New("capture interval must be at least 1 second")

// AnnotationMode describes how a capture gets its text annotation.
type AnnotationMode int

const (
	// AnnotationNone captures without any overlay.
	AnnotationNone AnnotationMode = iota
	// AnnotationManual prompts for a note before each capture.
	AnnotationManual
	// AnnotationPreset stamps a fixed string on every capture.
	AnnotationPreset
)

func (m AnnotationMode) String() string {
	switch m {
	case AnnotationManual:
		return "manual"
	case AnnotationPreset:
		return "preset"
	default:
		return "none"
	}
}

// Preferences holds all user-tunable capture state. It is loaded once at
// startup and saved synchronously after every mutation.
type Preferences struct {
	IntervalSeconds     int
	SaveDirectory       string
	IncludeTimestamp    bool
	CaptureSound        bool
	ScreenshotCount     int
	IsRunning           bool
	ImageQuality        Quality
	CompressionQuality  float64
	EnableAnnotation    bool
	UsePresetAnnotation bool
	PresetAnnotation    string
}

// Validate ensures preferences are valid
func (p *Preferences) Validate() error {
	if p.IntervalSeconds < 1 {
		return ErrInvalidInterval
	}
	if p.CompressionQuality < 0 || p.CompressionQuality > 1 {
		return ErrInvalidCompression
	}
	return nil
}

// SetManualAnnotation toggles per-capture prompting. Manual and preset
// modes are mutually exclusive: enabling one disables the other.
func (p *Preferences) SetManualAnnotation(enabled bool) {
	p.EnableAnnotation = enabled
	if enabled {
		p.UsePresetAnnotation = false
	}
}

// SetPresetAnnotation toggles the fixed-text mode. Manual and preset
// modes are mutually exclusive: enabling one disables the other.
func (p *Preferences) SetPresetAnnotation(enabled bool) {
	p.UsePresetAnnotation = enabled
	if enabled {
		p.EnableAnnotation = false
	}
}

// AnnotationMode derives the effective mode from the two toggles.
func (p *Preferences) AnnotationMode() AnnotationMode {
	switch {
	case p.EnableAnnotation:
		return AnnotationManual
	case p.UsePresetAnnotation:
		return AnnotationPreset
	default:
		return AnnotationNone
	}
}

// Store defines the interface for preference persistence
type Store interface {
	// Load retrieves preferences, returning defaults if none exist
	Load() (*Preferences, error)
	// Save persists the full preference set
	Save(p *Preferences) error
	// Close releases resources
	Close() error
}

// Defaults holds the first-run preference values supplied by config.
type Defaults struct {
	IntervalSeconds    int
	SaveDirectory      string
	ImageQuality       Quality
	CompressionQuality float64
}
